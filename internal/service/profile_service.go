package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/model"
	"github.com/nurpe/gigledger/internal/repository"
)

// depositCapRate bounds a deposit to 25% of the client's unpaid total.
var depositCapRate = decimal.New(25, -2)

type ProfileService struct {
	profiles *repository.ProfileRepository
}

func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile not found", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

// DepositBalance credits a client's balance. A deposit may not exceed 25%
// of the client's unpaid jobs on in-progress contracts; with no unpaid
// jobs any positive amount is accepted.
//
// The profile row is locked for the whole transaction; the unpaid total is
// computed fresh inside that lock scope, so concurrent job creation or
// payment can legitimately move the cap between requests.
func (s *ProfileService) DepositBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal) (*model.Profile, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: invalid deposit amount", ErrInvalidInput)
	}

	var updated *model.Profile
	err := s.profiles.InTransaction(ctx, func(tx *repository.ProfileRepository) error {
		profile, err := tx.GetProfileForUpdate(ctx, clientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: profile not found", ErrNotFound)
			}
			return err
		}
		if !profile.IsClient() {
			return fmt.Errorf("%w: only clients can deposit money", ErrInvalidInput)
		}

		totalUnpaid, err := tx.SumUnpaidForClient(ctx, clientID)
		if err != nil {
			return err
		}
		if totalUnpaid.IsPositive() {
			maxDeposit := totalUnpaid.Mul(depositCapRate)
			if amount.GreaterThan(maxDeposit) {
				return fmt.Errorf("%w: cannot deposit more than 25%% of total unpaid jobs (%s)", ErrInvalidInput, maxDeposit)
			}
		}

		if err := tx.AddToBalance(ctx, clientID, amount); err != nil {
			return err
		}

		profile.Balance = profile.Balance.Add(amount)
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
