package repository

import (
	"context"

	"credit-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricingRepository reads and writes the pricing override table.
type PricingRepository interface {
	// GetOverrides returns all override rows keyed by name. Any read
	// failure yields an empty map: pricing fails open to the compiled-in
	// defaults.
	GetOverrides(ctx context.Context) map[string]string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type gormPricingRepo struct {
	db *gorm.DB
}

func NewGormPricingRepository(db *gorm.DB) PricingRepository {
	return &gormPricingRepo{db: db}
}

func (r *gormPricingRepo) GetOverrides(ctx context.Context) map[string]string {
	overrides := make(map[string]string)

	var rows []models.PricingOverride
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return overrides
	}
	for _, row := range rows {
		overrides[row.Key] = row.Value
	}
	return overrides
}

func (r *gormPricingRepo) Get(ctx context.Context, key string) (string, error) {
	var row models.PricingOverride
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		return "", err
	}
	return row.Value, nil
}

func (r *gormPricingRepo) Set(ctx context.Context, key, value string) error {
	row := models.PricingOverride{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
