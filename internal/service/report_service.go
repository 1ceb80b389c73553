package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

const (
	DefaultBestClientsLimit = 2
	MaxBestClientsLimit     = 100
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateOnlyLayout = "2006-01-02"

var (
	errDateMissing  = apperror.New(apperror.ErrCodeBadRequest, "Start date or end date is missing.")
	errDateFormat   = apperror.New(apperror.ErrCodeBadRequest, "Invalid date format. Please use a valid date string.")
	errDateOrder    = apperror.New(apperror.ErrCodeBadRequest, "Start date is later than end date.")
	errExportFormat = apperror.New(apperror.ErrCodeValidation, "format must be one of: xlsx, pdf")
)

// ReportRenderer превращает отчёт о лучших клиентах в файл.
type ReportRenderer interface {
	Render(report models.BestClientsReport) ([]byte, error)
	ContentType() string
}

// ExportedFile - готовый к отдаче файл отчёта.
type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ReportService struct {
	repo      ReportRepository
	renderers map[string]ReportRenderer
	now       func() time.Time
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{
		repo:      repo,
		renderers: make(map[string]ReportRenderer),
		now:       time.Now,
	}
}

// RegisterRenderer подключает формат экспорта, например "xlsx" или "pdf".
func (s *ReportService) RegisterRenderer(format string, r ReportRenderer) {
	s.renderers[strings.ToLower(format)] = r
}

// ValidateDate разбирает границы периода. Конец, заданный датой без времени, включает весь день.
func (s *ReportService) ValidateDate(start, end string) (models.DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return models.DateRange{}, errDateMissing
	}

	startDate, _, ok := parseDate(start)
	if !ok {
		return models.DateRange{}, errDateFormat
	}
	endDate, dateOnly, ok := parseDate(end)
	if !ok {
		return models.DateRange{}, errDateFormat
	}
	if startDate.After(endDate) {
		return models.DateRange{}, errDateOrder
	}

	if dateOnly {
		endDate = endDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return models.DateRange{Start: startDate, End: endDate}, nil
}

func parseDate(raw string) (time.Time, bool, bool) {
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, true, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}

// GetBestProfession возвращает профессию с наибольшим заработком за период или nil.
func (s *ReportService) GetBestProfession(ctx context.Context, start, end string) (*models.BestProfession, error) {
	period, err := s.ValidateDate(start, end)
	if err != nil {
		return nil, err
	}

	best, err := s.repo.BestProfession(ctx, period.Start, period.End)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return best, nil
}

// NormalizeClientsLimit подставляет лимит по умолчанию и ограничивает максимум.
func NormalizeClientsLimit(limit int) int {
	if limit <= 0 {
		return DefaultBestClientsLimit
	}
	if limit > MaxBestClientsLimit {
		return MaxBestClientsLimit
	}
	return limit
}

// GetBestClients возвращает клиентов, заплативших больше всех за период.
func (s *ReportService) GetBestClients(ctx context.Context, start, end string, limit int) ([]models.BestClient, error) {
	period, err := s.ValidateDate(start, end)
	if err != nil {
		return nil, err
	}

	clients, err := s.repo.BestClients(ctx, period.Start, period.End, NormalizeClientsLimit(limit))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return clients, nil
}

// ExportBestClients строит отчёт о лучших клиентах и рендерит его в выбранный формат.
func (s *ReportService) ExportBestClients(ctx context.Context, start, end string, limit int, format string) (*ExportedFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, errExportFormat
	}

	period, err := s.ValidateDate(start, end)
	if err != nil {
		return nil, err
	}
	clients, err := s.repo.BestClients(ctx, period.Start, period.End, NormalizeClientsLimit(limit))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	data, err := renderer.Render(models.BestClientsReport{
		Range:       period,
		Clients:     clients,
		GeneratedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("render %s report: %w", format, err))
	}

	return &ExportedFile{
		Name: fmt.Sprintf("best-clients_%s_%s.%s",
			period.Start.Format(dateOnlyLayout), period.End.Format(dateOnlyLayout), format),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}
