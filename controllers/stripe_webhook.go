package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"credit-service/models"
	"credit-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type WebhookController struct {
	Stripe     *services.StripeService
	Settlement services.SettlementService
	Logger     *zap.Logger
}

func NewWebhookController(stripeSvc *services.StripeService, settlement services.SettlementService, logger *zap.Logger) *WebhookController {
	return &WebhookController{Stripe: stripeSvc, Settlement: settlement, Logger: logger}
}

// StripeWebhook receives and dispatches Stripe webhook events. Completed
// checkout sessions run through the same idempotent reconciler as the
// buyer's redirect, so whichever arrives first settles and the other is a
// no-op.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(c.Request.Context(), event)
	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (wc *WebhookController) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return
	}

	userID := sess.Metadata["user_id"]
	txID := sess.Metadata["tx_id"]
	credits, _ := strconv.ParseInt(sess.Metadata["credits"], 10, 64)
	if userID == "" || txID == "" || credits <= 0 {
		wc.Logger.Warn("Missing metadata in checkout session",
			zap.String("session_id", sess.ID),
			zap.Any("metadata", sess.Metadata),
		)
		return
	}

	result := wc.Settlement.Settle(ctx, models.SettlementRequest{
		UserID:  userID,
		Credits: credits,
		TxID:    txID,
	})

	wc.Logger.Info("Webhook settlement processed",
		zap.String("session_id", sess.ID),
		zap.String("tx_id", txID),
		zap.String("outcome", string(result.Outcome)),
	)
}
