package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/pkg/pagination"
)

// Contract связывает одного клиента и одного подрядчика.
type Contract struct {
	ID           int64          `db:"id" json:"id"`
	UUID         uuid.UUID      `db:"uuid" json:"uuid"`
	ClientID     int64          `db:"client_id" json:"client_id"`
	ContractorID int64          `db:"contractor_id" json:"contractor_id"`
	Terms        string         `db:"terms" json:"terms"`
	Status       ContractStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// HasParticipant сообщает, является ли профиль стороной контракта.
func (c *Contract) HasParticipant(profileID int64) bool {
	return c.ClientID == profileID || c.ContractorID == profileID
}

// ContractJob - краткое представление работы внутри контракта.
type ContractJob struct {
	ID          int64           `db:"id" json:"id"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	IsPaid      bool            `db:"is_paid" json:"is_paid"`
}

// ContractWithJobs - контракт вместе с его работами.
type ContractWithJobs struct {
	Contract
	Jobs []ContractJob `json:"jobs"`
}

// ContractPage - страница контрактов.
type ContractPage struct {
	Contracts  []Contract            `json:"contracts"`
	Pagination pagination.Pagination `json:"pagination"`
}
