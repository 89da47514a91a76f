package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/model"
)

// ReportRepository serves the admin aggregates. Reads are plain committed
// reads; spec'd isolation guarantees they never observe a half-applied
// payment.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// EarningsByProfession sums paid jobs in [from, to) grouped by the
// contractor's profession, best earning first.
func (r *ReportRepository) EarningsByProfession(ctx context.Context, from, to time.Time) ([]model.ProfessionEarnings, error) {
	var rows []struct {
		Profession    string
		TotalEarnings decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.profession, SUM(j.price) AS total_earnings
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid
			AND j.payment_date >= ?
			AND j.payment_date < ?
		GROUP BY p.profession
		ORDER BY total_earnings DESC
	`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	earnings := make([]model.ProfessionEarnings, 0, len(rows))
	for _, row := range rows {
		earnings = append(earnings, model.ProfessionEarnings{
			Profession:    row.Profession,
			TotalEarnings: row.TotalEarnings,
		})
	}
	return earnings, nil
}

// SpendingByClient sums paid jobs in [from, to) grouped by the paying
// client, biggest spender first.
func (r *ReportRepository) SpendingByClient(ctx context.Context, from, to time.Time, limit int) ([]model.ClientSpending, error) {
	var rows []struct {
		ID       uuid.UUID
		FullName string
		Paid     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id, p.first_name || ' ' || p.last_name AS full_name, SUM(j.price) AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid
			AND j.payment_date >= ?
			AND j.payment_date < ?
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY paid DESC
		LIMIT ?
	`, from, to, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	spending := make([]model.ClientSpending, 0, len(rows))
	for _, row := range rows {
		spending = append(spending, model.ClientSpending{
			ID:       row.ID,
			FullName: row.FullName,
			Paid:     row.Paid,
		})
	}
	return spending, nil
}
