package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) BestProfession(ctx context.Context, start, end time.Time) (*models.BestProfession, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BestProfession), args.Error(1)
}

func (m *mockReportRepo) BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.BestClient, error) {
	args := m.Called(ctx, start, end, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BestClient), args.Error(1)
}

type stubRenderer struct {
	got models.BestClientsReport
	err error
}

func (r *stubRenderer) Render(report models.BestClientsReport) ([]byte, error) {
	r.got = report
	if r.err != nil {
		return nil, r.err
	}
	return []byte("rendered"), nil
}

func (r *stubRenderer) ContentType() string { return "text/plain" }

func TestReportService_ValidateDate(t *testing.T) {
	svc := NewReportService(new(mockReportRepo))

	tests := []struct {
		name      string
		start     string
		end       string
		wantErr   error
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "date only end covers whole day",
			start:     "2023-01-01",
			end:       "2023-12-31",
			wantStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "timestamps kept as is",
			start:     "2023-01-01T10:00:00Z",
			end:       "2023-01-02T08:30:00Z",
			wantStart: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 1, 2, 8, 30, 0, 0, time.UTC),
		},
		{
			name:      "same day",
			start:     "2023-05-05",
			end:       "2023-05-05",
			wantStart: time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 5, 5, 23, 59, 59, 999999999, time.UTC),
		},
		{name: "missing start", start: "", end: "2023-01-01", wantErr: errDateMissing},
		{name: "missing end", start: "2023-01-01", end: " ", wantErr: errDateMissing},
		{name: "garbage", start: "yesterday", end: "2023-01-01", wantErr: errDateFormat},
		{name: "impossible date", start: "2023-02-30", end: "2023-03-01", wantErr: errDateFormat},
		{name: "reversed", start: "2023-12-31", end: "2023-01-01", wantErr: errDateOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateDate(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(got.Start), "start %s", got.Start)
			assert.True(t, tt.wantEnd.Equal(got.End), "end %s", got.End)
		})
	}
}

func TestReportService_GetBestProfession(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)
	ctx := context.Background()

	best := &models.BestProfession{Profession: "Programmer", TotalEarnings: decimal.NewFromInt(2683)}
	repo.On("BestProfession", ctx, mock.Anything, mock.Anything).Return(best, nil).Once()

	got, err := svc.GetBestProfession(ctx, "2023-01-01", "2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, "Programmer", got.Profession)

	repo.On("BestProfession", ctx, mock.Anything, mock.Anything).Return(nil, nil).Once()
	got, err = svc.GetBestProfession(ctx, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Nil(t, got)

	repo.AssertExpectations(t)
}

func TestReportService_GetBestProfession_InvalidRange(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)

	_, err := svc.GetBestProfession(context.Background(), "2023-12-31", "2023-01-01")

	assert.ErrorIs(t, err, errDateOrder)
	repo.AssertNotCalled(t, "BestProfession", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_GetBestClients_Limit(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)
	ctx := context.Background()

	clients := []models.BestClient{{ClientID: 4, FullName: "Ash Kethcum", TotalPaid: decimal.NewFromInt(2020)}}
	repo.On("BestClients", ctx, mock.Anything, mock.Anything, DefaultBestClientsLimit).Return(clients, nil)
	repo.On("BestClients", ctx, mock.Anything, mock.Anything, MaxBestClientsLimit).Return(clients, nil)
	repo.On("BestClients", ctx, mock.Anything, mock.Anything, 5).Return(clients, nil)

	for _, limit := range []int{0, -3, 5, 1000} {
		got, err := svc.GetBestClients(ctx, "2023-01-01", "2023-12-31", limit)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	repo.AssertNumberOfCalls(t, "BestClients", 4)
}

func TestReportService_GetBestClients_StoreError(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)
	ctx := context.Background()

	repo.On("BestClients", ctx, mock.Anything, mock.Anything, DefaultBestClientsLimit).Return(nil, errors.New("timeout"))

	_, err := svc.GetBestClients(ctx, "2023-01-01", "2023-12-31", 0)

	assert.Equal(t, apperror.ErrCodeInternal, apperror.From(err).Code)
}

func TestReportService_ExportBestClients(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)
	svc.now = func() time.Time { return fixedNow }
	renderer := &stubRenderer{}
	svc.RegisterRenderer("XLSX", renderer)
	ctx := context.Background()

	clients := []models.BestClient{{ClientID: 1, FullName: "Harry Potter", TotalPaid: decimal.NewFromInt(442)}}
	repo.On("BestClients", ctx, mock.Anything, mock.Anything, 3).Return(clients, nil)

	file, err := svc.ExportBestClients(ctx, "2023-01-01", "2023-12-31", 3, "xlsx")

	require.NoError(t, err)
	assert.Equal(t, "best-clients_2023-01-01_2023-12-31.xlsx", file.Name)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.Equal(t, []byte("rendered"), file.Data)
	assert.Equal(t, clients, renderer.got.Clients)
	assert.Equal(t, fixedNow, renderer.got.GeneratedAt)
}

func TestReportService_ExportBestClients_UnknownFormat(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)

	_, err := svc.ExportBestClients(context.Background(), "2023-01-01", "2023-12-31", 2, "csv")

	assert.ErrorIs(t, err, errExportFormat)
	repo.AssertNotCalled(t, "BestClients", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_ExportBestClients_RenderFailure(t *testing.T) {
	repo := new(mockReportRepo)
	svc := NewReportService(repo)
	svc.RegisterRenderer("pdf", &stubRenderer{err: errors.New("font missing")})
	ctx := context.Background()

	repo.On("BestClients", ctx, mock.Anything, mock.Anything, DefaultBestClientsLimit).Return([]models.BestClient{}, nil)

	_, err := svc.ExportBestClients(ctx, "2023-01-01", "2023-12-31", 0, "pdf")

	assert.Equal(t, apperror.ErrCodeInternal, apperror.From(err).Code)
}
