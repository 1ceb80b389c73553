package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
)

const contractColumns = `id, uuid, client_id, contractor_id, terms, status, created_at, updated_at`

type ContractRepository struct {
	db db.Querier
}

func NewContractRepository(q db.Querier) *ContractRepository {
	return &ContractRepository{db: q}
}

// Create вставляет контракт в рамках транзакции tx.
func (r *ContractRepository) Create(ctx context.Context, tx db.Querier, c *models.Contract) (*models.Contract, error) {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}

	var created models.Contract
	query := `
		INSERT INTO contracts (uuid, client_id, contractor_id, terms, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + contractColumns
	if err := tx.GetContext(ctx, &created, query, c.UUID, c.ClientID, c.ContractorID, c.Terms, c.Status); err != nil {
		return nil, fmt.Errorf("contract repository: create %w", err)
	}
	return &created, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*models.Contract, error) {
	return common.GetByID[models.Contract](ctx, r.db, "contracts", contractColumns, id, "")
}

// ListJobs возвращает краткий список работ контракта.
func (r *ContractRepository) ListJobs(ctx context.Context, contractID int64) ([]models.ContractJob, error) {
	jobs := []models.ContractJob{}
	query := `SELECT id, description, price, is_paid FROM jobs WHERE contract_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &jobs, query, contractID); err != nil {
		return nil, fmt.Errorf("contract repository: list jobs %w", err)
	}
	return jobs, nil
}

// ListActiveForProfile возвращает незавершённые контракты, где профиль является стороной.
func (r *ContractRepository) ListActiveForProfile(ctx context.Context, profileID int64, take, skip int) ([]models.Contract, int, error) {
	const where = `
		WHERE (client_id = $1 OR contractor_id = $1)
		  AND status <> 'terminated'`

	total, err := common.Count(ctx, r.db, `SELECT COUNT(*) FROM contracts`+where, profileID)
	if err != nil {
		return nil, 0, fmt.Errorf("contract repository: %w", err)
	}

	contracts := []models.Contract{}
	query := `SELECT ` + contractColumns + ` FROM contracts` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &contracts, query, profileID, take, skip); err != nil {
		return nil, 0, fmt.Errorf("contract repository: list active %w", err)
	}
	return contracts, total, nil
}
