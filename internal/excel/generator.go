package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/gigledger/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.EarningsReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	professionSheet := "By profession"
	file.NewSheet(professionSheet)
	if err := g.writeProfessions(file, professionSheet, report); err != nil {
		return nil, err
	}

	clientSheet := "By client"
	file.NewSheet(clientSheet)
	if err := g.writeClients(file, clientSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.EarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Earnings by period")
	set("A2", "Period start")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Period end")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Total paid")
	set("B4", report.TotalPaid.StringFixed(2))
	set("A5", "Professions")
	set("B5", len(report.Professions))
	set("A6", "Clients")
	set("B6", len(report.Clients))

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func (g *Generator) writeProfessions(file *excelize.File, sheet string, report model.EarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Profession")
	set("B1", "Total earnings")
	for i, row := range report.Professions {
		set(fmt.Sprintf("A%d", i+2), row.Profession)
		set(fmt.Sprintf("B%d", i+2), row.TotalEarnings.StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func (g *Generator) writeClients(file *excelize.File, sheet string, report model.EarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Client")
	set("B1", "Paid")
	for i, row := range report.Clients {
		set(fmt.Sprintf("A%d", i+2), row.FullName)
		set(fmt.Sprintf("B%d", i+2), row.Paid.StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}
