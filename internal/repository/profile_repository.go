package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
)

const profileColumns = `id, uuid, first_name, last_name, profession, balance, role, created_at, updated_at`

type ProfileRepository struct {
	db db.Querier
}

func NewProfileRepository(q db.Querier) *ProfileRepository {
	return &ProfileRepository{db: q}
}

// Create сохраняет профиль с нулевым балансом.
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}

	var created models.Profile
	query := `
		INSERT INTO profiles (uuid, first_name, last_name, profession, role, balance)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING ` + profileColumns
	if err := r.db.GetContext(ctx, &created, query, p.UUID, p.FirstName, p.LastName, p.Profession, p.Role); err != nil {
		return nil, fmt.Errorf("profile repository: create %w", err)
	}
	return &created, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	return common.GetByID[models.Profile](ctx, r.db, "profiles", profileColumns, id, "")
}

// List возвращает все профили, опционально только с заданной ролью.
func (r *ProfileRepository) List(ctx context.Context, role *models.ProfileRole) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	var args []any
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY id`

	profiles := []models.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("profile repository: list %w", err)
	}
	return profiles, nil
}

// GetByIDAndRole ищет профиль с заданной ролью внутри транзакции tx.
func (r *ProfileRepository) GetByIDAndRole(ctx context.Context, tx db.Querier, id int64, role models.ProfileRole) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND role = $2 FOR SHARE`
	if err := tx.GetContext(ctx, &profile, query, id, role); err != nil {
		return nil, common.NotFoundOr(err, "profile repository: get %d with role %s", id, role)
	}
	return &profile, nil
}

// LockByID берёт строку профиля FOR UPDATE до конца транзакции tx.
func (r *ProfileRepository) LockByID(ctx context.Context, tx db.Querier, id int64) (*models.Profile, error) {
	return common.GetByID[models.Profile](ctx, tx, "profiles", profileColumns, id, "FOR UPDATE")
}

// AdjustBalance атомарно прибавляет delta к балансу и возвращает обновлённый профиль.
// Отрицательный результат не отклоняется здесь: решение принимает вызывающий код в той же транзакции.
func (r *ProfileRepository) AdjustBalance(ctx context.Context, tx db.Querier, id int64, delta decimal.Decimal) (*models.Profile, error) {
	var profile models.Profile
	query := `
		UPDATE profiles SET balance = balance + $2
		WHERE id = $1
		RETURNING ` + profileColumns
	if err := tx.GetContext(ctx, &profile, query, id, delta); err != nil {
		return nil, common.NotFoundOr(err, "profile repository: adjust balance of %d", id)
	}
	return &profile, nil
}
