package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfessionEarnings is one row of the paid-jobs aggregate grouped by the
// contractor's profession.
type ProfessionEarnings struct {
	Profession    string
	TotalEarnings decimal.Decimal
}

// ClientSpending is one row of the paid-jobs aggregate grouped by the
// paying client.
type ClientSpending struct {
	ID       uuid.UUID
	FullName string
	Paid     decimal.Decimal
}

// EarningsReport is the exportable admin report for a payment period.
type EarningsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalPaid   decimal.Decimal
	Professions []ProfessionEarnings
	Clients     []ClientSpending
}
