package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/pkg/pagination"
)

// Job - оплачиваемая единица работы внутри контракта.
// Version используется как оптимистическая блокировка при оплате.
type Job struct {
	ID          int64           `db:"id" json:"id"`
	UUID        uuid.UUID       `db:"uuid" json:"uuid"`
	ContractID  int64           `db:"contract_id" json:"contract_id"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	IsPaid      bool            `db:"is_paid" json:"is_paid"`
	PaidDate    *time.Time      `db:"paid_date" json:"paid_date"`
	Version     int64           `db:"version" json:"-"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// PayableJob - неоплаченная работа вместе со сторонами её контракта.
type PayableJob struct {
	Job
	ClientID     int64 `db:"client_id"`
	ContractorID int64 `db:"contractor_id"`
}

// JobPage - страница работ.
type JobPage struct {
	Jobs       []Job                 `json:"jobs"`
	Pagination pagination.Pagination `json:"pagination"`
}

// JobPaid - полезная нагрузка события job.paid.
type JobPaid struct {
	JobID      int64           `json:"job_id"`
	ContractID int64           `json:"contract_id"`
	Price      decimal.Decimal `json:"price"`
	PaidDate   time.Time       `json:"paid_date"`
}
