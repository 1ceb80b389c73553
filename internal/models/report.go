package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange - проверенный интервал отчёта, обе границы включительно.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// BestProfession - профессия с наибольшим заработком за период.
type BestProfession struct {
	Profession    string          `db:"profession" json:"profession"`
	TotalEarnings decimal.Decimal `db:"total_earnings" json:"total_earnings"`
}

// BestClient - клиент и сумма его оплат за период.
type BestClient struct {
	ClientID  int64           `db:"client_id" json:"client_id"`
	FullName  string          `db:"full_name" json:"full_name"`
	TotalPaid decimal.Decimal `db:"total_paid" json:"total_paid"`
}

// BestClientsReport - отчёт о лучших клиентах для экспорта.
type BestClientsReport struct {
	Range       DateRange
	Clients     []BestClient
	GeneratedAt time.Time
}
