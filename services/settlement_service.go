package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credit-service/models"
	"credit-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementService converts a completed external payment into a balance
// increment plus a ledger entry, exactly once per tx_id.
type SettlementService interface {
	Settle(ctx context.Context, req models.SettlementRequest) models.SettlementResult
}

type settlementServiceImpl struct {
	store   repository.SettlementStore
	pricing PricingService
	email   ConfirmationSender       // nil disables confirmations
	events  SettlementEventPublisher // nil disables event publishing
	logger  *zap.Logger
}

func NewSettlementService(
	store repository.SettlementStore,
	pricing PricingService,
	email ConfirmationSender,
	events SettlementEventPublisher,
	logger *zap.Logger,
) SettlementService {
	return &settlementServiceImpl{
		store:   store,
		pricing: pricing,
		email:   email,
		events:  events,
		logger:  logger,
	}
}

// Settle reconciles one return trip from the payment provider. The ledger
// row and the balance increment are applied in a single privileged
// transaction keyed by tx_id, so replays (back button, bookmarked redirect,
// duplicate webhook) settle at most once. The request's amount parameter is
// informational; the recorded amount is the resolved cost of the credits.
func (s *settlementServiceImpl) Settle(ctx context.Context, req models.SettlementRequest) models.SettlementResult {
	result := models.SettlementResult{
		UserID:  req.UserID,
		Credits: req.Credits,
		TxID:    req.TxID,
	}

	if req.UserID == "" || req.Credits <= 0 || req.TxID == "" {
		result.Outcome = models.OutcomeInvalid
		return result
	}

	quote := s.pricing.Resolve(ctx, req.Credits)
	record := &models.CreditTransaction{
		ID:          uuid.New(),
		UserID:      req.UserID,
		TxID:        req.TxID,
		Amount:      quote.Cost,
		Type:        models.TransactionTypeCreditsPurchase,
		Status:      models.TransactionStatusSucceeded,
		Description: fmt.Sprintf("Purchase of %d credits", req.Credits),
	}

	newBalance, err := s.store.CreditAccount(ctx, req.UserID, req.Credits, record)
	switch {
	case errors.Is(err, repository.ErrDuplicateTransaction):
		s.logger.Info("Settlement replay ignored",
			zap.String("user_id", req.UserID),
			zap.String("tx_id", req.TxID),
		)
		result.Outcome = models.OutcomeAlreadySettled
		return result

	case errors.Is(err, repository.ErrPrivilegedUnavailable):
		s.logger.Warn("Privileged balance path unavailable, delegating to client fallback",
			zap.String("user_id", req.UserID),
			zap.String("tx_id", req.TxID),
			zap.Int64("credits", req.Credits),
		)
		result.Outcome = models.OutcomePendingFallback
		return result

	case err != nil:
		s.logger.Error("Settlement left in unknown state, needs reconciliation",
			zap.String("user_id", req.UserID),
			zap.String("tx_id", req.TxID),
			zap.Error(err),
		)
		s.publishEvent(ctx, "settlement_unresolved", result, 0)
		result.Outcome = models.OutcomeFailed
		return result
	}

	s.logger.Info("Credits settled",
		zap.String("user_id", req.UserID),
		zap.String("tx_id", req.TxID),
		zap.Int64("credits", req.Credits),
		zap.Int64("new_balance", newBalance),
	)

	s.sendConfirmation(ctx, req)
	s.publishEvent(ctx, "credits_purchased", result, newBalance)

	result.Outcome = models.OutcomeCredited
	result.NewBalance = newBalance
	return result
}

// sendConfirmation is best-effort: a failed notification never rolls back
// the settlement.
func (s *settlementServiceImpl) sendConfirmation(ctx context.Context, req models.SettlementRequest) {
	if s.email == nil {
		return
	}

	to, err := s.store.AccountEmail(ctx, req.UserID)
	if err != nil || to == "" {
		s.logger.Warn("Could not resolve buyer email for confirmation",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return
	}

	subject := "Your credit purchase"
	body := fmt.Sprintf(
		"<p>Your purchase of %d credits is complete.</p><p>Reference: %s</p>",
		req.Credits, req.TxID,
	)
	if err := s.email.SendEmail(ctx, to, subject, body); err != nil {
		s.logger.Warn("Confirmation email failed",
			zap.String("user_id", req.UserID),
			zap.String("tx_id", req.TxID),
			zap.Error(err),
		)
	}
}

func (s *settlementServiceImpl) publishEvent(ctx context.Context, eventType string, result models.SettlementResult, newBalance int64) {
	if s.events == nil {
		return
	}

	event := models.SettlementEvent{
		Type:       eventType,
		UserID:     result.UserID,
		Credits:    result.Credits,
		TxID:       result.TxID,
		NewBalance: newBalance,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish settlement event",
			zap.String("event_type", eventType),
			zap.String("tx_id", result.TxID),
			zap.Error(err),
		)
	}
}
