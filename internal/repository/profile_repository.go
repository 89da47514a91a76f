package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// InTransaction runs fn against a transaction-bound copy of the repository.
// fn returning an error rolls the transaction back.
func (r *ProfileRepository) InTransaction(ctx context.Context, fn func(tx *ProfileRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProfileRepository{db: tx})
	})
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.getProfile(ctx, id, false)
}

// GetProfileForUpdate locks the profile row until the enclosing transaction
// ends. Every balance decision must read through this lock.
func (r *ProfileRepository) GetProfileForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.getProfile(ctx, id, true)
}

func (r *ProfileRepository) getProfile(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Profile, error) {
	query := `
		SELECT id, first_name, last_name, profession, balance, type
		FROM profiles
		WHERE id = ?
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row struct {
		ID         uuid.UUID
		FirstName  string
		LastName   string
		Profession string
		Balance    decimal.Decimal
		Type       string
	}
	if err := r.db.WithContext(ctx).Raw(query, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.Profile{
		ID:         row.ID,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Profession: row.Profession,
		Balance:    row.Balance,
		Type:       model.ProfileType(row.Type),
	}, nil
}

// SumUnpaidForClient totals the unpaid jobs on the client's in-progress
// contracts. Job rows are not locked: the deposit cap is evaluated against
// a live snapshot.
func (r *ProfileRepository) SumUnpaidForClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE NOT j.paid
			AND c.status = 'in_progress'
			AND c.client_id = ?
	`, clientID).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *ProfileRepository) AddToBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE profiles SET balance = balance + ? WHERE id = ?
	`, amount, id).Error
}
