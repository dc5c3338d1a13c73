package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"credit-service/controllers"
	"credit-service/repository"
	"credit-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock Pricing Repository ---

type mockPricingRepo struct {
	overrides map[string]string
	setErr    error
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

func pricingRouter(repo repository.PricingRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	pricing := services.NewPricingService(repo, logger)
	pc := controllers.NewPricingController(pricing, repo, logger)
	r := gin.New()
	r.GET("/credits/quote", pc.Quote)
	r.GET("/admin/pricing/:key", pc.GetOverride)
	r.PUT("/admin/pricing", pc.SetOverride)
	return r
}

// --- Tests ---

func TestQuote_ReturnsBreakdown(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/credits/quote?credits=1000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]float64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 75.0, resp["cost"])
	assert.Equal(t, 2.33, resp["fee"])
	assert.Equal(t, 77.33, resp["total"])
}

func TestQuote_RejectsBadQuantity(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{}})

	for _, query := range []string{"", "credits=0", "credits=-5", "credits=abc"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/credits/quote?"+query, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestGetOverride_ReturnsStoredValue(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{"PACKAGE_1_PRICE": "7"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/pricing/PACKAGE_1_PRICE", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "7", resp["value"])
}

func TestGetOverride_FallsBackToDefault(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/pricing/PACKAGE_1_PRICE", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "9", resp["value"])
}

func TestGetOverride_UnknownKey(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/pricing/NOT_A_KEY", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetOverride_Success(t *testing.T) {
	repo := &mockPricingRepo{overrides: map[string]string{}}
	r := pricingRouter(repo)

	body, _ := json.Marshal(map[string]string{"key": "PACKAGE_1_PRICE", "value": "7"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/admin/pricing", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", repo.overrides["PACKAGE_1_PRICE"])
}

func TestSetOverride_UnknownKeyRejected(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{}})

	body, _ := json.Marshal(map[string]string{"key": "NOT_A_KEY", "value": "7"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/admin/pricing", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetOverride_NonNumericValueRejected(t *testing.T) {
	r := pricingRouter(&mockPricingRepo{overrides: map[string]string{}})

	body, _ := json.Marshal(map[string]string{"key": "PACKAGE_1_PRICE", "value": "free"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/admin/pricing", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
