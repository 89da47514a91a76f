package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/gigledger/internal/repository"
)

var profileColumns = []string{"id", "first_name", "last_name", "profession", "balance", "type"}

func newProfileService(t *testing.T) (*ProfileService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewProfileService(repository.NewProfileRepository(db)), mock
}

func clientRow(id uuid.UUID, balance string) *sqlmock.Rows {
	return sqlmock.NewRows(profileColumns).
		AddRow(id, "Ada", "Lovelace", "programmer", balance, "client")
}

func expectDepositLookup(mock sqlmock.Sqlmock, id uuid.UUID, rows *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectQuery("FROM profiles(?s:.*)FOR UPDATE").
		WithArgs(id).
		WillReturnRows(rows)
}

func expectUnpaidTotal(mock sqlmock.Sqlmock, id uuid.UUID, total string) {
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(j.price\), 0\)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(total))
}

func TestDepositBalance_WithinCap(t *testing.T) {
	svc, mock := newProfileService(t)
	clientID := uuid.New()

	// Unpaid total 100.00: the cap is 25.00 and a deposit of exactly the
	// cap is accepted.
	expectDepositLookup(mock, clientID, clientRow(clientID, "1000.00"))
	expectUnpaidTotal(mock, clientID, "100.00")
	mock.ExpectExec(`UPDATE profiles SET balance = balance \+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	profile, err := svc.DepositBalance(context.Background(), clientID, decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(decimal.RequireFromString("1025.00")),
		"balance should be 1025.00, got %s", profile.Balance)
	expectationsMet(t, mock)
}

func TestDepositBalance_OverCap(t *testing.T) {
	svc, mock := newProfileService(t)
	clientID := uuid.New()

	expectDepositLookup(mock, clientID, clientRow(clientID, "1000.00"))
	expectUnpaidTotal(mock, clientID, "100.00")
	mock.ExpectRollback()

	_, err := svc.DepositBalance(context.Background(), clientID, decimal.RequireFromString("26.00"))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "25% of total unpaid jobs")
	assert.Contains(t, err.Error(), "25", "error must report the computed cap")
	expectationsMet(t, mock)
}

func TestDepositBalance_JustOverCapByOneCent(t *testing.T) {
	svc, mock := newProfileService(t)
	clientID := uuid.New()

	expectDepositLookup(mock, clientID, clientRow(clientID, "1000.00"))
	expectUnpaidTotal(mock, clientID, "100.00")
	mock.ExpectRollback()

	_, err := svc.DepositBalance(context.Background(), clientID, decimal.RequireFromString("25.01"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	expectationsMet(t, mock)
}

func TestDepositBalance_NoUnpaidJobsAcceptsAnyAmount(t *testing.T) {
	svc, mock := newProfileService(t)
	clientID := uuid.New()

	expectDepositLookup(mock, clientID, clientRow(clientID, "0.00"))
	expectUnpaidTotal(mock, clientID, "0")
	mock.ExpectExec(`UPDATE profiles SET balance = balance \+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	profile, err := svc.DepositBalance(context.Background(), clientID, decimal.RequireFromString("99999.99"))
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(decimal.RequireFromString("99999.99")))
	expectationsMet(t, mock)
}

func TestDepositBalance_NonPositiveAmount(t *testing.T) {
	svc, _ := newProfileService(t)

	_, err := svc.DepositBalance(context.Background(), uuid.New(), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.DepositBalance(context.Background(), uuid.New(), decimal.RequireFromString("-5"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDepositBalance_ProfileNotFound(t *testing.T) {
	svc, mock := newProfileService(t)
	clientID := uuid.New()

	expectDepositLookup(mock, clientID, sqlmock.NewRows(profileColumns))
	mock.ExpectRollback()

	_, err := svc.DepositBalance(context.Background(), clientID, decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}

func TestDepositBalance_OnlyClientsCanDeposit(t *testing.T) {
	svc, mock := newProfileService(t)
	contractorID := uuid.New()

	rows := sqlmock.NewRows(profileColumns).
		AddRow(contractorID, "Grace", "Hopper", "plumber", "0.00", "contractor")
	expectDepositLookup(mock, contractorID, rows)
	mock.ExpectRollback()

	_, err := svc.DepositBalance(context.Background(), contractorID, decimal.RequireFromString("10.00"))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "only clients")
	expectationsMet(t, mock)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, mock := newProfileService(t)
	id := uuid.New()

	mock.ExpectQuery("FROM profiles").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := svc.GetProfile(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}
