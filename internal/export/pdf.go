package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/ignatzorin/freelance-ledger/internal/models"
)

// PDFRenderer строит одностраничный PDF со встроенным шрифтом Helvetica.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Render(report models.BestClientsReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Best clients report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s - %s",
		report.Range.Start.Format(dateLayout), report.Range.End.Format(dateLayout)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated at: "+report.GeneratedAt.Format(stampLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{12, 28, 95, 45}
	drawRow(pdf, []string{"#", "Client ID", "Full name", "Total paid"}, widths, true)
	for i, client := range report.Clients {
		drawRow(pdf, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", client.ClientID),
			tr(client.FullName),
			client.TotalPaid.StringFixed(2),
		}, widths, false)
	}
	if len(report.Clients) == 0 {
		pdf.CellFormat(0, 8, "No paid jobs in this period.", "1", 1, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: build: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	for i, col := range cols {
		align := "L"
		if i == len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, header, 0, "")
	}
	pdf.Ln(-1)
}
