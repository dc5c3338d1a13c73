package controllers

import (
	"net/http"
	"strconv"

	"credit-service/models"
	"credit-service/repository"
	"credit-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PricingController struct {
	Pricing services.PricingService
	Repo    repository.PricingRepository
	Logger  *zap.Logger
}

func NewPricingController(pricing services.PricingService, repo repository.PricingRepository, logger *zap.Logger) *PricingController {
	return &PricingController{Pricing: pricing, Repo: repo, Logger: logger}
}

// Quote handles GET /credits/quote — price preview for a quantity.
func (pc *PricingController) Quote(c *gin.Context) {
	credits, err := strconv.ParseInt(c.Query("credits"), 10, 64)
	if err != nil || credits <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credits must be a positive integer"})
		return
	}

	quote := pc.Pricing.Resolve(c.Request.Context(), credits)
	c.JSON(http.StatusOK, quote)
}

// GetOverride handles GET /admin/pricing/:key — override value if present,
// otherwise the compiled-in default.
func (pc *PricingController) GetOverride(c *gin.Context) {
	key := c.Param("key")
	if !isKnownKey(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown pricing key"})
		return
	}

	value, err := pc.Repo.Get(c.Request.Context(), key)
	if err != nil {
		value = defaultValueFor(key)
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// SetOverride handles PUT /admin/pricing — upserts a single override row.
func (pc *PricingController) SetOverride(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !isKnownKey(req.Key) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown pricing key"})
		return
	}
	if _, err := strconv.ParseFloat(req.Value, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "value must be numeric"})
		return
	}

	if err := pc.Repo.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		pc.Logger.Error("Failed to upsert pricing override", zap.String("key", req.Key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save override"})
		return
	}

	pc.Logger.Info("Pricing override updated", zap.String("key", req.Key), zap.String("value", req.Value))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func isKnownKey(key string) bool {
	for _, k := range models.KnownPricingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func defaultValueFor(key string) string {
	cfg := models.DefaultPricingConfig()
	switch key {
	case models.KeyPackage1Amount:
		return strconv.FormatInt(cfg.Tiers[0].Amount, 10)
	case models.KeyPackage2Amount:
		return strconv.FormatInt(cfg.Tiers[1].Amount, 10)
	case models.KeyPackage3Amount:
		return strconv.FormatInt(cfg.Tiers[2].Amount, 10)
	case models.KeyPackage4Amount:
		return strconv.FormatInt(cfg.Tiers[3].Amount, 10)
	case models.KeyPackage1Price:
		return strconv.FormatFloat(cfg.Tiers[0].Price, 'f', -1, 64)
	case models.KeyPackage2Price:
		return strconv.FormatFloat(cfg.Tiers[1].Price, 'f', -1, 64)
	case models.KeyPackage3Price:
		return strconv.FormatFloat(cfg.Tiers[2].Price, 'f', -1, 64)
	case models.KeyPackage4Price:
		return strconv.FormatFloat(cfg.Tiers[3].Price, 'f', -1, 64)
	case models.KeyCustomRate:
		return strconv.FormatFloat(cfg.CustomRate, 'f', -1, 64)
	}
	return ""
}
