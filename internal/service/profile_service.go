package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
	"github.com/ignatzorin/freelance-ledger/internal/validation"
)

// CreateProfileInput - данные для создания профиля.
type CreateProfileInput struct {
	FirstName  string
	LastName   string
	Profession string
	Role       models.ProfileRole
}

type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Create создаёт профиль с нулевым балансом.
func (s *ProfileService) Create(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	firstName, err := validation.ValidateName("first_name", in.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := validation.ValidateName("last_name", in.LastName)
	if err != nil {
		return nil, err
	}
	profession, err := validation.ValidateProfession(in.Profession)
	if err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "role must be one of: client, contractor")
	}

	p := &models.Profile{
		FirstName:  firstName,
		LastName:   lastName,
		Profession: profession,
		Role:       in.Role,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return created, nil
}

// GetProfileByID возвращает профиль или NOT_FOUND.
func (s *ProfileService) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// GetAllProfiles возвращает профили; пустая роль означает без фильтра.
func (s *ProfileService) GetAllProfiles(ctx context.Context, role string) ([]models.Profile, error) {
	var filter *models.ProfileRole
	if role = strings.TrimSpace(role); role != "" {
		r := models.ProfileRole(role)
		if !r.Valid() {
			return nil, apperror.New(apperror.ErrCodeValidation, "role must be one of: client, contractor")
		}
		filter = &r
	}

	profiles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profiles, nil
}
