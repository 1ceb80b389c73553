package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
)

const jobColumns = `id, uuid, contract_id, description, price, is_paid, paid_date, version, created_at, updated_at`

type JobRepository struct {
	db db.Querier
}

func NewJobRepository(q db.Querier) *JobRepository {
	return &JobRepository{db: q}
}

// Create вставляет неоплаченную работу. Отсутствующий контракт даёт ErrNotFound.
func (r *JobRepository) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	if j.UUID == uuid.Nil {
		j.UUID = uuid.New()
	}

	var created models.Job
	query := `
		INSERT INTO jobs (uuid, contract_id, description, price, is_paid)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING ` + jobColumns
	if err := r.db.GetContext(ctx, &created, query, j.UUID, j.ContractID, j.Description, j.Price); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("contract %d: %w", j.ContractID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("job repository: create %w", err)
	}
	return &created, nil
}

// ListUnpaidForProfile возвращает неоплаченные работы по контрактам in_progress, где профиль - сторона.
func (r *JobRepository) ListUnpaidForProfile(ctx context.Context, profileID int64, take, skip int) ([]models.Job, int, error) {
	const from = `
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE (c.client_id = $1 OR c.contractor_id = $1)
		  AND c.status = 'in_progress'
		  AND j.is_paid = FALSE`

	total, err := common.Count(ctx, r.db, `SELECT COUNT(*)`+from, profileID)
	if err != nil {
		return nil, 0, fmt.Errorf("job repository: %w", err)
	}

	jobs := []models.Job{}
	query := `SELECT j.id, j.uuid, j.contract_id, j.description, j.price, j.is_paid, j.paid_date, j.version, j.created_at, j.updated_at` + from + `
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &jobs, query, profileID, take, skip); err != nil {
		return nil, 0, fmt.Errorf("job repository: list unpaid %w", err)
	}
	return jobs, total, nil
}

// GetPayable возвращает неоплаченную работу вместе со сторонами контракта.
// Оплаченная или отсутствующая работа даёт ErrNotFound.
func (r *JobRepository) GetPayable(ctx context.Context, jobID int64) (*models.PayableJob, error) {
	var job models.PayableJob
	query := `
		SELECT j.id, j.uuid, j.contract_id, j.description, j.price, j.is_paid, j.paid_date, j.version,
		       j.created_at, j.updated_at, c.client_id, c.contractor_id
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = $1 AND j.is_paid = FALSE`
	if err := r.db.GetContext(ctx, &job, query, jobID); err != nil {
		return nil, common.NotFoundOr(err, "job repository: get payable %d", jobID)
	}
	return &job, nil
}

// MarkPaid помечает работу оплаченной, если она всё ещё не оплачена и версия совпадает.
// Возвращает false, если ни одна строка не обновилась.
func (r *JobRepository) MarkPaid(ctx context.Context, tx db.Querier, jobID, version int64, paidAt time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE jobs SET is_paid = TRUE, paid_date = $2, version = version + 1
		WHERE id = $1 AND is_paid = FALSE AND version = $3
	`, jobID, paidAt, version)
	if err != nil {
		return false, fmt.Errorf("job repository: mark paid %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("job repository: mark paid rows affected %w", err)
	}
	return affected == 1, nil
}

// SumOutstandingForClient суммирует цены неоплаченных работ по контрактам клиента в статусе in_progress.
func (r *JobRepository) SumOutstandingForClient(ctx context.Context, tx db.Querier, clientID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = $1
		  AND c.status = 'in_progress'
		  AND j.is_paid = FALSE`
	if err := tx.GetContext(ctx, &total, query, clientID); err != nil {
		return decimal.Zero, fmt.Errorf("job repository: sum outstanding %w", err)
	}
	return total, nil
}
