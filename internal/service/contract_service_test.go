package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/gigledger/internal/cache"
	"github.com/nurpe/gigledger/internal/model"
	"github.com/nurpe/gigledger/internal/repository"
)

var contractColumns = []string{"id", "terms", "status", "client_id", "contractor_id"}

func newContractService(t *testing.T) (*ContractService, sqlmock.Sqlmock, *cache.Cache) {
	db, mock := newMockDB(t)
	c := cache.New(time.Minute)
	return NewContractService(repository.NewContractRepository(db), c), mock, c
}

func TestGetContractByID_PartyCanRead(t *testing.T) {
	svc, mock, _ := newContractService(t)
	contractID := uuid.New()
	clientID := uuid.New()
	contractorID := uuid.New()

	mock.ExpectQuery("FROM contracts").
		WithArgs(contractID).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(contractID, "some terms", "in_progress", clientID, contractorID))

	contract, err := svc.GetContractByID(context.Background(), contractID, clientID)
	require.NoError(t, err)
	assert.Equal(t, contractID, contract.ID)
	assert.Equal(t, model.ContractStatusInProgress, contract.Status)

	// Cached per requester: a second read for the same requester issues
	// no SQL.
	_, err = svc.GetContractByID(context.Background(), contractID, clientID)
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestGetContractByID_StrangerIsRejected(t *testing.T) {
	svc, mock, c := newContractService(t)
	contractID := uuid.New()

	mock.ExpectQuery("FROM contracts").
		WithArgs(contractID).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(contractID, "some terms", "in_progress", uuid.New(), uuid.New()))

	stranger := uuid.New()
	_, err := svc.GetContractByID(context.Background(), contractID, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Rejections are not cached.
	assert.Equal(t, 0, c.Stats().Size)
	expectationsMet(t, mock)
}

func TestGetContractByID_NotFound(t *testing.T) {
	svc, mock, _ := newContractService(t)
	contractID := uuid.New()

	mock.ExpectQuery("FROM contracts").
		WithArgs(contractID).
		WillReturnRows(sqlmock.NewRows(contractColumns))

	_, err := svc.GetContractByID(context.Background(), contractID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}

func TestGetContracts_CacheMissThenHit(t *testing.T) {
	svc, mock, _ := newContractService(t)
	profileID := uuid.New()
	contractID := uuid.New()

	mock.ExpectQuery("FROM contracts").
		WithArgs(profileID, profileID).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(contractID, "some terms", "new", profileID, uuid.New()))

	contracts, err := svc.GetContracts(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, contractID, contracts[0].ID)

	contracts, err = svc.GetContracts(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	expectationsMet(t, mock)
}

func TestGetContracts_ExcludesTerminatedInQuery(t *testing.T) {
	svc, mock, _ := newContractService(t)
	profileID := uuid.New()

	// The terminated filter is part of the SQL itself.
	mock.ExpectQuery("status <> 'terminated'").
		WithArgs(profileID, profileID).
		WillReturnRows(sqlmock.NewRows(contractColumns))

	contracts, err := svc.GetContracts(context.Background(), profileID)
	require.NoError(t, err)
	assert.Empty(t, contracts)
	expectationsMet(t, mock)
}
