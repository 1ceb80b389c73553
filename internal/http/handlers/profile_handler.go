package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/service"
)

type ProfileService interface {
	Create(ctx context.Context, in service.CreateProfileInput) (*models.Profile, error)
	GetAllProfiles(ctx context.Context, role string) ([]models.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Create POST /profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	var req dto.CreateProfileRequest
	if !common.BindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), service.CreateProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Profession: req.Profession,
		Role:       models.ProfileRole(req.Role),
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	logger.WithContext(c.Request.Context()).WithField("new_profile_id", profile.ID).Info("profile created")
	common.RespondSuccess(c, http.StatusCreated, "Profile created successfully", profile)
}

// List GET /profiles?role=
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profiles.GetAllProfiles(c.Request.Context(), c.Query("role"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondList(c, "Profiles retrieved successfully", len(profiles), profiles)
}

// Me GET /profiles/me
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	common.RespondSuccess(c, http.StatusOK, "Profile retrieved successfully", profile)
}
