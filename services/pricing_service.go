package services

import (
	"context"
	"math"
	"strconv"

	"credit-service/models"
	"credit-service/repository"

	"go.uber.org/zap"
)

// Processing fee model: percentage plus flat, mirroring card-processor
// pricing.
const (
	feeRate = 0.027
	feeFlat = 0.30
)

// PricingService resolves a credit quantity to a cost breakdown.
type PricingService interface {
	// Resolve never fails: misconfigured overrides are skipped and the
	// compiled-in defaults apply, so a broken pricing table can only
	// affect displayed prices, never ledger correctness.
	Resolve(ctx context.Context, quantity int64) models.Quote
	Config(ctx context.Context) models.PricingConfig
}

type pricingServiceImpl struct {
	repo   repository.PricingRepository
	logger *zap.Logger
}

func NewPricingService(repo repository.PricingRepository, logger *zap.Logger) PricingService {
	return &pricingServiceImpl{repo: repo, logger: logger}
}

func (s *pricingServiceImpl) Resolve(ctx context.Context, quantity int64) models.Quote {
	cfg := s.Config(ctx)

	cost := float64(quantity) * cfg.CustomRate
	for _, tier := range cfg.Tiers {
		if quantity == tier.Amount {
			cost = tier.Price
			break
		}
	}

	cost = round2(cost)
	fee := round2(cost*feeRate + feeFlat)
	return models.Quote{
		Cost:  cost,
		Fee:   fee,
		Total: round2(cost + fee),
	}
}

// Config merges the override table over the compiled-in defaults. Unknown
// keys and unparsable values are skipped.
func (s *pricingServiceImpl) Config(ctx context.Context) models.PricingConfig {
	cfg := models.DefaultPricingConfig()
	overrides := s.repo.GetOverrides(ctx)
	if len(overrides) == 0 {
		return cfg
	}

	amountKeys := []string{
		models.KeyPackage1Amount, models.KeyPackage2Amount,
		models.KeyPackage3Amount, models.KeyPackage4Amount,
	}
	priceKeys := []string{
		models.KeyPackage1Price, models.KeyPackage2Price,
		models.KeyPackage3Price, models.KeyPackage4Price,
	}

	for i := range cfg.Tiers {
		if v, ok := parseOverride(overrides, amountKeys[i]); ok {
			cfg.Tiers[i].Amount = int64(v)
		}
		if v, ok := parseOverride(overrides, priceKeys[i]); ok {
			cfg.Tiers[i].Price = v
		}
	}
	if v, ok := parseOverride(overrides, models.KeyCustomRate); ok && v > 0 {
		cfg.CustomRate = v
	}
	return cfg
}

func parseOverride(overrides map[string]string, key string) (float64, bool) {
	raw, ok := overrides[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
