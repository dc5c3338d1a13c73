package models

import (
	"time"
)

// Pricing override keys recognized by the resolver. Rows with any other key
// are ignored so older deployments can coexist with newer config schemas.
const (
	KeyPackage1Amount = "PACKAGE_1_AMOUNT"
	KeyPackage1Price  = "PACKAGE_1_PRICE"
	KeyPackage2Amount = "PACKAGE_2_AMOUNT"
	KeyPackage2Price  = "PACKAGE_2_PRICE"
	KeyPackage3Amount = "PACKAGE_3_AMOUNT"
	KeyPackage3Price  = "PACKAGE_3_PRICE"
	KeyPackage4Amount = "PACKAGE_4_AMOUNT"
	KeyPackage4Price  = "PACKAGE_4_PRICE"
	KeyCustomRate     = "CUSTOM_RATE"
)

// PricingTier is one fixed (credit amount, price) package.
type PricingTier struct {
	Amount int64
	Price  float64
}

// PricingConfig holds the four fixed credit packages plus the per-credit
// rate applied to any other quantity. Tier amounts and prices are strictly
// increasing; CustomRate is always > 0.
type PricingConfig struct {
	Tiers      [4]PricingTier
	CustomRate float64
}

// DefaultPricingConfig returns the compiled-in price table. The pricing
// store may override individual fields, but absence of any override (or a
// store failure) always resolves back to these values.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Tiers: [4]PricingTier{
			{Amount: 100, Price: 9},
			{Amount: 500, Price: 40},
			{Amount: 1000, Price: 75},
			{Amount: 5000, Price: 350},
		},
		CustomRate: 0.10,
	}
}

// KnownPricingKeys lists every override key the resolver understands.
func KnownPricingKeys() []string {
	return []string{
		KeyPackage1Amount, KeyPackage1Price,
		KeyPackage2Amount, KeyPackage2Price,
		KeyPackage3Amount, KeyPackage3Price,
		KeyPackage4Amount, KeyPackage4Price,
		KeyCustomRate,
	}
}

// PricingOverride is a single key/value row in the pricing override table.
// Values are stored as strings and parsed on read; a row that fails to
// parse is skipped and the compiled-in default applies.
type PricingOverride struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"size:64;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (PricingOverride) TableName() string { return "pricing_overrides" }

// Quote is the resolved cost breakdown for a credit quantity.
type Quote struct {
	Cost  float64 `json:"cost"`
	Fee   float64 `json:"fee"`
	Total float64 `json:"total"`
}
