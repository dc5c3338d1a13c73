package repository

import (
	"context"

	"credit-service/models"

	"gorm.io/gorm"
)

// TransactionRepository is the read surface of the credit ledger. Writes
// happen only inside the privileged settlement transaction (see
// SettlementStore); no update or delete is exposed anywhere.
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.CreditTransaction, int64, error)
}

type gormTransactionRepo struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) TransactionRepository {
	return &gormTransactionRepo{db: db}
}

func (r *gormTransactionRepo) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.CreditTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CreditTransaction{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
