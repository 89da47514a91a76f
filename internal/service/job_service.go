package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigledger/internal/cache"
	"github.com/nurpe/gigledger/internal/model"
	"github.com/nurpe/gigledger/internal/repository"
)

// JobService owns the payment transition and the unpaid-jobs read path.
type JobService struct {
	jobs  *repository.JobRepository
	cache *cache.Cache
}

func NewJobService(jobs *repository.JobRepository, c *cache.Cache) *JobService {
	return &JobService{jobs: jobs, cache: c}
}

func unpaidJobsKey(profileID uuid.UUID) string {
	return "unpaid_jobs:" + profileID.String()
}

func contractsKey(profileID uuid.UUID) string {
	return "contracts:" + profileID.String()
}

// GetUnpaidJobs returns unpaid jobs on in-progress contracts involving the
// profile, read through the cache.
func (s *JobService) GetUnpaidJobs(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	key := unpaidJobsKey(profileID)
	if cached, ok := s.cache.Get(key); ok {
		if jobs, ok := cached.([]model.Job); ok {
			return jobs, nil
		}
	}

	jobs, err := s.jobs.ListUnpaid(ctx, profileID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, jobs)
	return jobs, nil
}

// PayForJob moves the job's price from the client's balance to the
// contractor's balance and marks the job paid, as one transaction.
//
// All rule checks run after the job and both profile rows are locked, so a
// concurrent payment or deposit cannot invalidate a decision between read
// and write. Cache invalidation happens strictly after commit.
func (s *JobService) PayForJob(ctx context.Context, jobID, payerProfileID uuid.UUID) (*model.Job, error) {
	var (
		paid         model.Job
		clientID     uuid.UUID
		contractorID uuid.UUID
		contractID   uuid.UUID
	)

	err := s.jobs.InTransaction(ctx, func(tx *repository.JobRepository) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: job not found", ErrNotFound)
			}
			return err
		}

		if job.ClientID != payerProfileID {
			return fmt.Errorf("%w: only the contract's client can pay for a job", ErrPermissionDenied)
		}
		if job.Paid {
			return fmt.Errorf("%w: job already paid", ErrInvalidInput)
		}
		if job.ContractStatus != model.ContractStatusInProgress {
			return fmt.Errorf("%w: contract is not in progress", ErrInvalidInput)
		}

		// Second balance read, under the profile row locks: a deposit may
		// have committed since the job row was read.
		balances, err := tx.GetBalancesForUpdate(ctx, job.ClientID, job.ContractorID)
		if err != nil {
			return err
		}
		clientBalance, ok := balances[job.ClientID]
		if !ok {
			return fmt.Errorf("%w: client profile not found", ErrNotFound)
		}
		if _, ok := balances[job.ContractorID]; !ok {
			return fmt.Errorf("%w: contractor profile not found", ErrNotFound)
		}

		if clientBalance.LessThan(job.Price) {
			return fmt.Errorf("%w: insufficient balance", ErrInvalidInput)
		}

		paidAt := time.Now().UTC()
		if err := tx.ApplyPayment(ctx, job, paidAt); err != nil {
			return err
		}

		paid = job.Job
		paid.Paid = true
		paid.PaymentDate = &paidAt
		clientID = job.ClientID
		contractorID = job.ContractorID
		contractID = job.ContractID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(unpaidJobsKey(clientID))
	s.cache.Delete(unpaidJobsKey(contractorID))
	s.cache.Delete(contractsKey(clientID))
	s.cache.Delete(contractsKey(contractorID))
	s.cache.ClearByPattern("contract:" + contractID.String())

	return &paid, nil
}
