package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/cache"
	"github.com/nurpe/gigledger/internal/model"
	"github.com/nurpe/gigledger/internal/repository"
)

type ContractService struct {
	contracts *repository.ContractRepository
	cache     *cache.Cache
}

func NewContractService(contracts *repository.ContractRepository, c *cache.Cache) *ContractService {
	return &ContractService{contracts: contracts, cache: c}
}

// Keyed by contract id and requester id: visibility is per requester.
func contractKey(id, profileID uuid.UUID) string {
	return fmt.Sprintf("contract:%s:%s", id, profileID)
}

// GetContractByID returns the contract when the requester is one of its
// parties.
func (s *ContractService) GetContractByID(ctx context.Context, id, profileID uuid.UUID) (*model.Contract, error) {
	key := contractKey(id, profileID)
	if cached, ok := s.cache.Get(key); ok {
		if contract, ok := cached.(model.Contract); ok {
			return &contract, nil
		}
	}

	contract, err := s.contracts.GetContract(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract not found", ErrNotFound)
		}
		return nil, err
	}
	if !contract.InvolvesProfile(profileID) {
		return nil, fmt.Errorf("%w: contract does not belong to profile", ErrPermissionDenied)
	}

	s.cache.Set(key, *contract)
	return contract, nil
}

// GetContracts returns the requester's non-terminated contracts.
func (s *ContractService) GetContracts(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	key := contractsKey(profileID)
	if cached, ok := s.cache.Get(key); ok {
		if contracts, ok := cached.([]model.Contract); ok {
			return contracts, nil
		}
	}

	contracts, err := s.contracts.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, contracts)
	return contracts, nil
}
