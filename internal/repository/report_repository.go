package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/models"
)

type ReportRepository struct {
	db db.Querier
}

func NewReportRepository(q db.Querier) *ReportRepository {
	return &ReportRepository{db: q}
}

// BestProfession возвращает профессию подрядчиков с максимальным заработком за период или nil.
func (r *ReportRepository) BestProfession(ctx context.Context, start, end time.Time) (*models.BestProfession, error) {
	rows := []models.BestProfession{}
	query := `
		SELECT p.profession, SUM(j.price) AS total_earnings
		FROM profiles p
		JOIN contracts c ON p.id = c.contractor_id
		JOIN jobs j ON c.id = j.contract_id
		WHERE p.role = 'contractor'
		  AND j.is_paid = TRUE
		  AND j.paid_date BETWEEN $1 AND $2
		GROUP BY p.profession
		ORDER BY total_earnings DESC, p.profession
		LIMIT 1`
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("report repository: best profession %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// BestClients возвращает клиентов, заплативших больше всех за период.
func (r *ReportRepository) BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.BestClient, error) {
	clients := []models.BestClient{}
	query := `
		SELECT p.id AS client_id, CONCAT(p.first_name, ' ', p.last_name) AS full_name, SUM(j.price) AS total_paid
		FROM profiles p
		JOIN contracts c ON p.id = c.client_id
		JOIN jobs j ON c.id = j.contract_id
		WHERE p.role = 'client'
		  AND j.is_paid = TRUE
		  AND j.paid_date BETWEEN $1 AND $2
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY total_paid DESC, p.id
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &clients, query, start, end, limit); err != nil {
		return nil, fmt.Errorf("report repository: best clients %w", err)
	}
	return clients, nil
}
