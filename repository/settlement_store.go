package repository

import (
	"context"
	"errors"
	"strings"

	"credit-service/models"

	"gorm.io/gorm"
)

var (
	// ErrPrivilegedUnavailable means the elevated-role write path cannot
	// execute (no privileged connection, or the role lacks the grants).
	ErrPrivilegedUnavailable = errors.New("privileged balance path unavailable")
	// ErrDuplicateTransaction means this tx_id already has a ledger row:
	// the purchase is settled and must not be credited again.
	ErrDuplicateTransaction = errors.New("transaction already settled")
	// ErrAccountNotFound means no account row matched the buyer ID.
	ErrAccountNotFound = errors.New("account not found")
)

// SettlementStore is the privileged persistence surface of settlement.
// CreditAccount runs as one database transaction so a ledger row and its
// balance increment either both land or neither does, and the unique tx_id
// makes a replayed settlement a no-op.
type SettlementStore interface {
	CreditAccount(ctx context.Context, userID string, credits int64, record *models.CreditTransaction) (int64, error)
	AccountEmail(ctx context.Context, userID string) (string, error)
}

type gormSettlementStore struct {
	db *gorm.DB // nil when no privileged DSN is configured
}

// NewGormSettlementStore wraps the privileged connection. A nil db is
// valid and makes every write report ErrPrivilegedUnavailable.
func NewGormSettlementStore(db *gorm.DB) SettlementStore {
	return &gormSettlementStore{db: db}
}

func (s *gormSettlementStore) CreditAccount(ctx context.Context, userID string, credits int64, record *models.CreditTransaction) (int64, error) {
	if s.db == nil {
		return 0, ErrPrivilegedUnavailable
	}

	var newBalance int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ledger row first: its unique tx_id index is the idempotency
		// guard, so a replay aborts here before any balance change.
		if err := tx.Create(record).Error; err != nil {
			return classifyWriteError(err)
		}

		res := tx.Model(&models.Account{}).
			Where("id = ?", userID).
			UpdateColumn("credits", gorm.Expr("credits + ?", credits))
		if res.Error != nil {
			return classifyWriteError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound
		}

		var account models.Account
		if err := tx.Select("credits").Where("id = ?", userID).First(&account).Error; err != nil {
			return err
		}
		newBalance = account.Credits
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *gormSettlementStore) AccountEmail(ctx context.Context, userID string) (string, error) {
	if s.db == nil {
		return "", ErrPrivilegedUnavailable
	}

	var account models.Account
	if err := s.db.WithContext(ctx).Select("email").Where("id = ?", userID).First(&account).Error; err != nil {
		return "", err
	}
	return account.Email, nil
}

// classifyWriteError maps postgres failures onto the store's sentinel
// errors so the reconciler can pick the right outcome.
func classifyWriteError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique"):
		return ErrDuplicateTransaction
	case strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "insufficient privilege") ||
		strings.Contains(msg, "must be owner"):
		return ErrPrivilegedUnavailable
	}
	return err
}
