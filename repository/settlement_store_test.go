package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"credit-service/models"
	"credit-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func purchaseRecord(txID string) *models.CreditTransaction {
	return &models.CreditTransaction{
		ID:          uuid.New(),
		UserID:      "11111111-1111-1111-1111-111111111111",
		TxID:        txID,
		Amount:      75,
		Type:        models.TransactionTypeCreditsPurchase,
		Status:      models.TransactionStatusSucceeded,
		Description: "Purchase of 1000 credits",
	}
}

func TestCreditAccount_NilHandleIsUnavailable(t *testing.T) {
	store := repository.NewGormSettlementStore(nil)

	_, err := store.CreditAccount(context.Background(), "user-1", 1000, purchaseRecord("abc"))
	assert.ErrorIs(t, err, repository.ErrPrivilegedUnavailable)
}

func TestCreditAccount_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewGormSettlementStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "credit_transactions"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "credits"=credits + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "credits" FROM "accounts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(1500))
	mock.ExpectCommit()

	newBalance, err := store.CreditAccount(context.Background(), "11111111-1111-1111-1111-111111111111", 1000, purchaseRecord("abc"))
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), newBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditAccount_DuplicateTxIDRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewGormSettlementStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "credit_transactions"`)).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "idx_credit_transactions_tx_id"`))
	mock.ExpectRollback()

	_, err := store.CreditAccount(context.Background(), "user-1", 1000, purchaseRecord("abc"))
	assert.ErrorIs(t, err, repository.ErrDuplicateTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditAccount_PermissionDeniedIsUnavailable(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewGormSettlementStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "credit_transactions"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts"`)).
		WillReturnError(errors.New("pq: permission denied for table accounts"))
	mock.ExpectRollback()

	_, err := store.CreditAccount(context.Background(), "user-1", 1000, purchaseRecord("abc"))
	assert.ErrorIs(t, err, repository.ErrPrivilegedUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditAccount_MissingAccountRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewGormSettlementStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "credit_transactions"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.CreditAccount(context.Background(), "user-1", 1000, purchaseRecord("abc"))
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountEmail_NilHandleIsUnavailable(t *testing.T) {
	store := repository.NewGormSettlementStore(nil)

	_, err := store.AccountEmail(context.Background(), "user-1")
	assert.ErrorIs(t, err, repository.ErrPrivilegedUnavailable)
}

func TestAccountEmail_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewGormSettlementStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "email" FROM "accounts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("buyer@example.com"))

	email, err := store.AccountEmail(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "buyer@example.com", email)
}
