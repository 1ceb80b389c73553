// Package export рендерит отчёты о лучших клиентах в XLSX и PDF.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ignatzorin/freelance-ledger/internal/models"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02 15:04 MST"
)

// ExcelRenderer строит XLSX с одним листом.
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (r *ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *ExcelRenderer) Render(report models.BestClientsReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Best clients"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("excel: rename sheet: %w", err)
	}

	set := func(cell string, value any) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Period start")
	set("B1", report.Range.Start.Format(dateLayout))
	set("A2", "Period end")
	set("B2", report.Range.End.Format(dateLayout))
	set("A3", "Generated at")
	set("B3", report.GeneratedAt.Format(stampLayout))

	tableRow := 5
	for i, header := range []string{"#", "Client ID", "Full name", "Total paid"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, client := range report.Clients {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), client.ClientID)
		set(fmt.Sprintf("C%d", row), client.FullName)
		// сумма пишется строкой, чтобы не терять точность через float64
		set(fmt.Sprintf("D%d", row), client.TotalPaid.StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 36)
	_ = file.SetColWidth(sheet, "D", "D", 16)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: write: %w", err)
	}
	return buf.Bytes(), nil
}
