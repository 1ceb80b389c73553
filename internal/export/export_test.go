package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ignatzorin/freelance-ledger/internal/models"
)

func sampleReport() models.BestClientsReport {
	return models.BestClientsReport{
		Range: models.DateRange{
			Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		Clients: []models.BestClient{
			{ClientID: 1, FullName: "John Doe", TotalPaid: decimal.RequireFromString("3000.50")},
			{ClientID: 2, FullName: "Jane Doe", TotalPaid: decimal.NewFromInt(1000)},
		},
		GeneratedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestExcelRenderer_Render(t *testing.T) {
	data, err := NewExcelRenderer().Render(sampleReport())
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	name, err := file.GetCellValue("Best clients", "C6")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", name)

	total, err := file.GetCellValue("Best clients", "D6")
	require.NoError(t, err)
	assert.Equal(t, "3000.50", total)

	start, err := file.GetCellValue("Best clients", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", start)
}

func TestPDFRenderer_Render(t *testing.T) {
	data, err := NewPDFRenderer().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", NewPDFRenderer().ContentType())
}

func TestPDFRenderer_EmptyReport(t *testing.T) {
	report := sampleReport()
	report.Clients = nil

	data, err := NewPDFRenderer().Render(report)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
