package services_test

import (
	"context"
	"errors"
	"testing"

	"credit-service/models"
	"credit-service/repository"
	"credit-service/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock Pricing Repository ---

type mockPricingRepo struct {
	overrides map[string]string
	setErr    error
}

func newMockPricingRepo(overrides map[string]string) repository.PricingRepository {
	if overrides == nil {
		overrides = make(map[string]string)
	}
	return &mockPricingRepo{overrides: overrides}
}

func (m *mockPricingRepo) GetOverrides(_ context.Context) map[string]string {
	return m.overrides
}

func (m *mockPricingRepo) Get(_ context.Context, key string) (string, error) {
	v, ok := m.overrides[key]
	if !ok {
		return "", errors.New("record not found")
	}
	return v, nil
}

func (m *mockPricingRepo) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.overrides[key] = value
	return nil
}

func newPricingService(overrides map[string]string) services.PricingService {
	logger, _ := zap.NewDevelopment()
	return services.NewPricingService(newMockPricingRepo(overrides), logger)
}

// --- Tests ---

func TestResolve_TierAmountsUseTierPrices(t *testing.T) {
	svc := newPricingService(nil)
	defaults := models.DefaultPricingConfig()

	for _, tier := range defaults.Tiers {
		quote := svc.Resolve(context.Background(), tier.Amount)
		assert.Equal(t, tier.Price, quote.Cost, "tier %d", tier.Amount)
	}
}

func TestResolve_NonTierQuantityUsesCustomRate(t *testing.T) {
	svc := newPricingService(nil)

	quote := svc.Resolve(context.Background(), 250)
	assert.Equal(t, 25.0, quote.Cost)

	quote = svc.Resolve(context.Background(), 101)
	assert.Equal(t, 10.1, quote.Cost)
}

func TestResolve_FeeAndTotal(t *testing.T) {
	svc := newPricingService(nil)

	// 250 credits at the default custom rate: cost 25.00
	quote := svc.Resolve(context.Background(), 250)
	assert.Equal(t, 0.98, quote.Fee) // round2(25*0.027 + 0.30)
	assert.Equal(t, 25.98, quote.Total)

	// tier 100: cost 9.00
	quote = svc.Resolve(context.Background(), 100)
	assert.Equal(t, 0.54, quote.Fee)
	assert.Equal(t, 9.54, quote.Total)
}

func TestResolve_OverrideAppliesToSingleField(t *testing.T) {
	svc := newPricingService(map[string]string{"PACKAGE_1_PRICE": "7"})
	defaults := models.DefaultPricingConfig()

	quote := svc.Resolve(context.Background(), defaults.Tiers[0].Amount)
	assert.Equal(t, 7.0, quote.Cost)

	// Every other field keeps its default.
	cfg := svc.Config(context.Background())
	assert.Equal(t, defaults.Tiers[1], cfg.Tiers[1])
	assert.Equal(t, defaults.Tiers[2], cfg.Tiers[2])
	assert.Equal(t, defaults.Tiers[3], cfg.Tiers[3])
	assert.Equal(t, defaults.CustomRate, cfg.CustomRate)
}

func TestResolve_CustomRateOverride(t *testing.T) {
	svc := newPricingService(map[string]string{"CUSTOM_RATE": "0.05"})

	quote := svc.Resolve(context.Background(), 200)
	assert.Equal(t, 10.0, quote.Cost)
}

func TestConfig_MalformedOverrideSkipped(t *testing.T) {
	svc := newPricingService(map[string]string{"PACKAGE_1_PRICE": "not-a-number"})

	cfg := svc.Config(context.Background())
	assert.Equal(t, models.DefaultPricingConfig(), cfg)
}

func TestConfig_UnknownKeysIgnored(t *testing.T) {
	svc := newPricingService(map[string]string{"SOME_FUTURE_KEY": "42"})

	cfg := svc.Config(context.Background())
	assert.Equal(t, models.DefaultPricingConfig(), cfg)
}

func TestConfig_EmptyStoreYieldsDefaults(t *testing.T) {
	svc := newPricingService(nil)

	cfg := svc.Config(context.Background())
	assert.Equal(t, models.DefaultPricingConfig(), cfg)
}
