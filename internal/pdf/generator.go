package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/gigledger/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

func (g *Generator) Generate(report model.EarningsReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Earnings report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", formatDate(report.PeriodStart), formatDate(report.PeriodEnd)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total paid: %s", report.TotalPaid.StringFixed(2)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Earnings by profession", "", 1, "L", false, 0, "")

	professionWidths := []float64{120, 60}
	drawTableRow(pdf, g.fontName, []string{"Profession", "Total earnings"}, professionWidths, true)
	for _, row := range report.Professions {
		drawTableRow(pdf, g.fontName, []string{row.Profession, row.TotalEarnings.StringFixed(2)}, professionWidths, false)
	}
	if len(report.Professions) == 0 {
		drawTableRow(pdf, g.fontName, []string{"no paid jobs in period", "0.00"}, professionWidths, false)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Spending by client", "", 1, "L", false, 0, "")

	clientWidths := []float64{120, 60}
	drawTableRow(pdf, g.fontName, []string{"Client", "Paid"}, clientWidths, true)
	for _, row := range report.Clients {
		drawTableRow(pdf, g.fontName, []string{row.FullName, row.Paid.StringFixed(2)}, clientWidths, false)
	}
	if len(report.Clients) == 0 {
		drawTableRow(pdf, g.fontName, []string{"no paying clients in period", "0.00"}, clientWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
