package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/models"
)

// ProfileRepository - хранилище профилей. Методы с параметром tx работают внутри транзакции.
type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context, role *models.ProfileRole) ([]models.Profile, error)
	GetByIDAndRole(ctx context.Context, tx db.Querier, id int64, role models.ProfileRole) (*models.Profile, error)
	LockByID(ctx context.Context, tx db.Querier, id int64) (*models.Profile, error)
	AdjustBalance(ctx context.Context, tx db.Querier, id int64, delta decimal.Decimal) (*models.Profile, error)
}

type ContractRepository interface {
	Create(ctx context.Context, tx db.Querier, c *models.Contract) (*models.Contract, error)
	GetByID(ctx context.Context, id int64) (*models.Contract, error)
	ListJobs(ctx context.Context, contractID int64) ([]models.ContractJob, error)
	ListActiveForProfile(ctx context.Context, profileID int64, take, skip int) ([]models.Contract, int, error)
}

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) (*models.Job, error)
	ListUnpaidForProfile(ctx context.Context, profileID int64, take, skip int) ([]models.Job, int, error)
	GetPayable(ctx context.Context, jobID int64) (*models.PayableJob, error)
	MarkPaid(ctx context.Context, tx db.Querier, jobID, version int64, paidAt time.Time) (bool, error)
	SumOutstandingForClient(ctx context.Context, tx db.Querier, clientID int64) (decimal.Decimal, error)
}

type ReportRepository interface {
	BestProfession(ctx context.Context, start, end time.Time) (*models.BestProfession, error)
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.BestClient, error)
}

// Notifier доставляет события профилю (WebSocket hub).
type Notifier interface {
	BroadcastToUser(profileID int64, event string, data any) error
}
