package controllers

import (
	"net/http"

	"credit-service/middleware"
	"credit-service/models"
	"credit-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Checkout services.CheckoutService
	Logger   *zap.Logger
}

func NewCheckoutController(checkout services.CheckoutService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{Checkout: checkout, Logger: logger}
}

// CreateCheckoutSession handles POST /credits/checkout. The buyer identity
// comes from the body, defaulting to the authenticated user.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = middleware.GetUserID(c)
	}

	checkoutURL, svcErr := cc.Checkout.CreateSession(c.Request.Context(), userID, req.Credits)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": checkoutURL})
}
