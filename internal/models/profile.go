package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile - клиент или подрядчик со своим балансом.
type Profile struct {
	ID         int64           `db:"id" json:"id"`
	UUID       uuid.UUID       `db:"uuid" json:"uuid"`
	FirstName  string          `db:"first_name" json:"first_name"`
	LastName   string          `db:"last_name" json:"last_name"`
	Profession string          `db:"profession" json:"profession"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	Role       ProfileRole     `db:"role" json:"role"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

func (p *Profile) IsClient() bool {
	return p.Role == RoleClient
}

// BalanceUpdate - полезная нагрузка события balance.updated.
type BalanceUpdate struct {
	ProfileID int64           `json:"profile_id"`
	Balance   decimal.Decimal `json:"balance"`
}
