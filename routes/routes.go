package routes

import (
	"credit-service/controllers"
	"credit-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCreditRoutes sets up all credit purchase and settlement routes.
func RegisterCreditRoutes(
	r *gin.Engine,
	cc *controllers.CheckoutController,
	sc *controllers.SettlementController,
	tc *controllers.TransactionController,
	pc *controllers.PricingController,
	wc *controllers.WebhookController,
) {
	credits := r.Group("/credits")
	credits.GET("/quote", pc.Quote)
	// Buyer return from the payment provider; no auth — the reconciler
	// validates and the response is only a redirect.
	credits.GET("/settle", sc.Settle)

	authed := credits.Group("")
	authed.Use(middleware.AuthMiddleware())
	authed.POST("/checkout", cc.CreateCheckoutSession)
	authed.GET("/transactions", tc.ListTransactions)

	admin := r.Group("/admin/pricing")
	admin.Use(middleware.AuthMiddleware())
	admin.GET("/:key", pc.GetOverride)
	admin.PUT("", pc.SetOverride)

	// Stripe webhook (signature-verified, no auth)
	r.POST("/stripe/webhook", wc.StripeWebhook)
}
