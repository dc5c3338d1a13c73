package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"credit-service/config"
	"credit-service/controllers"
	"credit-service/database"
	"credit-service/models"
	"credit-service/repository"
	"credit-service/routes"
	"credit-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	db, err := database.ConnectPostgres(cfg.DSN(), logger,
		&models.Account{},
		&models.CreditTransaction{},
		&models.PricingOverride{},
	)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	privDB, err := database.ConnectPrivileged(cfg.PrivilegedDSN, logger)
	if err != nil {
		logger.Fatal("Privileged DB setup failed", zap.Error(err))
	}

	// --- Event publishing (non-fatal) ---
	var events services.SettlementEventPublisher
	if snsPublisher, err := services.NewSNSPublisher(context.Background(), cfg.SettlementSNSTopicARN); err != nil {
		logger.Warn("Settlement SNS publisher disabled", zap.Error(err))
	} else {
		events = snsPublisher
	}

	// --- Email (non-fatal) ---
	var email services.ConfirmationSender
	if smtpSender, err := services.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass); err != nil {
		logger.Warn("Confirmation email disabled", zap.Error(err))
	} else {
		email = smtpSender
	}

	// --- Dependency injection ---
	pricingRepo := repository.NewGormPricingRepository(db)
	transactionRepo := repository.NewGormTransactionRepository(db)
	settlementStore := repository.NewGormSettlementStore(privDB)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	pricingSvc := services.NewPricingService(pricingRepo, logger)
	checkoutSvc := services.NewCheckoutService(pricingSvc, stripeSvc, cfg.Currency, cfg.PublicBaseURL, cfg.FrontendURL, logger)
	settlementSvc := services.NewSettlementService(settlementStore, pricingSvc, email, events, logger)

	checkoutController := controllers.NewCheckoutController(checkoutSvc, logger)
	settlementController := controllers.NewSettlementController(settlementSvc, cfg.FrontendURL, logger)
	transactionController := controllers.NewTransactionController(transactionRepo, logger)
	pricingController := controllers.NewPricingController(pricingSvc, pricingRepo, logger)
	webhookController := controllers.NewWebhookController(stripeSvc, settlementSvc, logger)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterCreditRoutes(r,
		checkoutController,
		settlementController,
		transactionController,
		pricingController,
		webhookController,
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "credit-service"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Credit Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	log.Println("Credit Service stopped gracefully")
}
