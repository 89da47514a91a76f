package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Job struct {
	ID          uuid.UUID
	Description string
	Price       decimal.Decimal
	Paid        bool
	PaymentDate *time.Time
	ContractID  uuid.UUID
}

// JobDetail is the payment view of a job: the job row joined with the
// parties of its contract.
type JobDetail struct {
	Job
	ContractStatus ContractStatus
	ClientID       uuid.UUID
	ContractorID   uuid.UUID
}
