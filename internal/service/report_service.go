package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/gigledger/internal/model"
	"github.com/nurpe/gigledger/internal/repository"
)

const defaultBestClientsLimit = 2

type ExcelGenerator interface {
	Generate(report model.EarningsReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.EarningsReport) ([]byte, error)
}

// ReportService serves the admin aggregates over committed payment state.
type ReportService struct {
	reports    *repository.ReportRepository
	excel      ExcelGenerator
	pdf        PDFGenerator
	maxClients int
}

func NewReportService(reports *repository.ReportRepository, excel ExcelGenerator, pdf PDFGenerator, maxClients int) *ReportService {
	return &ReportService{
		reports:    reports,
		excel:      excel,
		pdf:        pdf,
		maxClients: maxClients,
	}
}

type BestProfessionResult struct {
	Profession    *string         `json:"profession"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// BestProfession returns the profession that earned the most from paid
// jobs in the period, or a null profession when nothing was paid.
func (s *ReportService) BestProfession(ctx context.Context, start, end time.Time) (*BestProfessionResult, error) {
	from, to, err := reportWindow(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.reports.EarningsByProfession(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &BestProfessionResult{Profession: nil, TotalEarnings: decimal.Zero}, nil
	}

	best := rows[0]
	return &BestProfessionResult{
		Profession:    &best.Profession,
		TotalEarnings: best.TotalEarnings,
	}, nil
}

// BestClients returns the clients that paid the most in the period.
func (s *ReportService) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientSpending, error) {
	from, to, err := reportWindow(start, end)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultBestClientsLimit
	}
	if limit > s.maxClients {
		limit = s.maxClients
	}

	return s.reports.SpendingByClient(ctx, from, to, limit)
}

// ExportEarnings renders the earnings report for the period as XLSX.
func (s *ReportService) ExportEarnings(ctx context.Context, start, end time.Time) (*ExportResult, error) {
	report, err := s.buildReport(ctx, start, end)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(*report, "xlsx"),
		Content:  content,
	}, nil
}

// ExportEarningsPDF renders the earnings report for the period as PDF.
func (s *ReportService) ExportEarningsPDF(ctx context.Context, start, end time.Time) (*ExportResult, error) {
	report, err := s.buildReport(ctx, start, end)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(*report, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) buildReport(ctx context.Context, start, end time.Time) (*model.EarningsReport, error) {
	from, to, err := reportWindow(start, end)
	if err != nil {
		return nil, err
	}

	professions, err := s.reports.EarningsByProfession(ctx, from, to)
	if err != nil {
		return nil, err
	}
	clients, err := s.reports.SpendingByClient(ctx, from, to, s.maxClients)
	if err != nil {
		return nil, err
	}

	totalPaid := decimal.Zero
	for _, row := range professions {
		totalPaid = totalPaid.Add(row.TotalEarnings)
	}

	return &model.EarningsReport{
		PeriodStart: dateOnly(start),
		PeriodEnd:   dateOnly(end),
		TotalPaid:   totalPaid,
		Professions: professions,
		Clients:     clients,
	}, nil
}

// reportWindow validates the period and returns it as [from, to) with the
// end day included.
func reportWindow(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	from := dateOnly(start)
	to := dateOnly(end)
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	return from, to.Add(24 * time.Hour), nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildFileName(report model.EarningsReport, ext string) string {
	period := fmt.Sprintf("%s-%s", report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("earnings-%s.%s", period, ext)
}
