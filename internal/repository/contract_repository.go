package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID           uuid.UUID
	Terms        string
	Status       string
	ClientID     uuid.UUID
	ContractorID uuid.UUID
}

func (row contractRow) toModel() model.Contract {
	return model.Contract{
		ID:           row.ID,
		Terms:        row.Terms,
		Status:       model.ContractStatus(row.Status),
		ClientID:     row.ClientID,
		ContractorID: row.ContractorID,
	}
}

func (r *ContractRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, terms, status, client_id, contractor_id
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	contract := row.toModel()
	return &contract, nil
}

// ListByProfile returns the non-terminated contracts the profile is a party
// to, on either side.
func (r *ContractRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, terms, status, client_id, contractor_id
		FROM contracts
		WHERE (client_id = ? OR contractor_id = ?)
			AND status <> 'terminated'
		ORDER BY created_at ASC
	`, profileID, profileID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.toModel())
	}
	return contracts, nil
}
