package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"credit-service/models"
	"credit-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SettlementController struct {
	Settlement  services.SettlementService
	FrontendURL string
	Logger      *zap.Logger
}

func NewSettlementController(settlement services.SettlementService, frontendURL string, logger *zap.Logger) *SettlementController {
	return &SettlementController{Settlement: settlement, FrontendURL: frontendURL, Logger: logger}
}

// Settle handles GET /credits/settle — the buyer's return navigation from
// the payment provider. The reconciler decides what happened; this handler
// only translates the outcome into a dashboard redirect.
func (sc *SettlementController) Settle(c *gin.Context) {
	req := models.SettlementRequest{
		UserID: c.Query("user_id"),
		TxID:   c.Query("tx_id"),
	}
	req.Credits, _ = strconv.ParseInt(c.Query("credits"), 10, 64)
	req.Amount, _ = strconv.ParseFloat(c.Query("amount"), 64)

	result := sc.Settlement.Settle(c.Request.Context(), req)
	c.Redirect(http.StatusFound, sc.dashboardURL(result))
}

// dashboardURL maps a settlement outcome onto the buyer-facing redirect.
// A failed settlement still shows the success variant: the buyer paid, the
// client-side fallback can self-heal, and the unresolved case has already
// been pushed to the alerting topic.
func (sc *SettlementController) dashboardURL(result models.SettlementResult) string {
	q := url.Values{}
	switch result.Outcome {
	case models.OutcomeInvalid:
		q.Set("error", "invalid_params")
	case models.OutcomePendingFallback:
		q.Set("credited", "false-yet")
		q.Set("added", strconv.FormatInt(result.Credits, 10))
		q.Set("tx_id", result.TxID)
	default:
		q.Set("payment_successful", "true")
		q.Set("added", strconv.FormatInt(result.Credits, 10))
		q.Set("tx_id", result.TxID)
	}
	return sc.FrontendURL + "/dashboard?" + q.Encode()
}
