package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// InTransaction runs fn against a transaction-bound copy of the repository.
func (r *JobRepository) InTransaction(ctx context.Context, fn func(tx *JobRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&JobRepository{db: tx})
	})
}

// ListUnpaid returns unpaid jobs on in-progress contracts where the profile
// is either party.
func (r *JobRepository) ListUnpaid(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	var rows []struct {
		ID          uuid.UUID
		Description string
		Price       decimal.Decimal
		Paid        bool
		PaymentDate *time.Time
		ContractID  uuid.UUID
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT j.id, j.description, j.price, j.paid, j.payment_date, j.contract_id
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE NOT j.paid
			AND c.status = 'in_progress'
			AND (c.client_id = ? OR c.contractor_id = ?)
		ORDER BY j.created_at ASC
	`, profileID, profileID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, model.Job{
			ID:          row.ID,
			Description: row.Description,
			Price:       row.Price,
			Paid:        row.Paid,
			PaymentDate: row.PaymentDate,
			ContractID:  row.ContractID,
		})
	}
	return jobs, nil
}

// GetJobForUpdate reads the job joined with its contract parties and locks
// the job row until the enclosing transaction ends, so paid-state checks
// cannot race a concurrent payment of the same job.
func (r *JobRepository) GetJobForUpdate(ctx context.Context, id uuid.UUID) (*model.JobDetail, error) {
	var row struct {
		ID             uuid.UUID
		Description    string
		Price          decimal.Decimal
		Paid           bool
		PaymentDate    *time.Time
		ContractID     uuid.UUID
		ContractStatus string
		ClientID       uuid.UUID
		ContractorID   uuid.UUID
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.description,
			j.price,
			j.paid,
			j.payment_date,
			j.contract_id,
			c.status AS contract_status,
			c.client_id,
			c.contractor_id
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = ?
		FOR UPDATE OF j
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.JobDetail{
		Job: model.Job{
			ID:          row.ID,
			Description: row.Description,
			Price:       row.Price,
			Paid:        row.Paid,
			PaymentDate: row.PaymentDate,
			ContractID:  row.ContractID,
		},
		ContractStatus: model.ContractStatus(row.ContractStatus),
		ClientID:       row.ClientID,
		ContractorID:   row.ContractorID,
	}, nil
}

// GetBalancesForUpdate locks both profile rows and returns their balances.
// Rows are locked in ascending id order so concurrent payments over the
// same pair cannot deadlock each other.
func (r *JobRepository) GetBalancesForUpdate(ctx context.Context, first, second uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		ID      uuid.UUID
		Balance decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, balance
		FROM profiles
		WHERE id IN (?, ?)
		ORDER BY id
		FOR UPDATE
	`, first, second).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		balances[row.ID] = row.Balance
	}
	return balances, nil
}

// ApplyPayment performs the three payment mutations. Caller must hold the
// job and profile row locks and wrap the call in a transaction.
func (r *JobRepository) ApplyPayment(ctx context.Context, job *model.JobDetail, paidAt time.Time) error {
	if err := r.db.WithContext(ctx).Exec(`
		UPDATE profiles SET balance = balance - ? WHERE id = ?
	`, job.Price, job.ClientID).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Exec(`
		UPDATE profiles SET balance = balance + ? WHERE id = ?
	`, job.Price, job.ContractorID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE jobs SET paid = TRUE, payment_date = ? WHERE id = ?
	`, paidAt, job.ID).Error
}
