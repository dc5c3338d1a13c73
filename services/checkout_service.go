package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"credit-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CheckoutService builds external checkout sessions for credit purchases.
type CheckoutService interface {
	CreateSession(ctx context.Context, userID string, credits int64) (string, *ServiceError)
}

type checkoutServiceImpl struct {
	pricing       PricingService
	provider      CheckoutProvider
	currency      string
	publicBaseURL string
	frontendURL   string
	logger        *zap.Logger
}

func NewCheckoutService(
	pricing PricingService,
	provider CheckoutProvider,
	currency string,
	publicBaseURL string,
	frontendURL string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		pricing:       pricing,
		provider:      provider,
		currency:      currency,
		publicBaseURL: publicBaseURL,
		frontendURL:   frontendURL,
		logger:        logger,
	}
}

// CreateSession validates the request, resolves the charge total, mints a
// fresh tx_id and asks the provider for a hosted checkout URL. The
// settlement return URL carries the buyer, quantity and tx_id: it is the
// only state that survives the round trip through the provider.
func (s *checkoutServiceImpl) CreateSession(ctx context.Context, userID string, credits int64) (string, *ServiceError) {
	if userID == "" {
		return "", &ServiceError{StatusCode: 400, Message: "Missing buyer identity"}
	}
	if credits < models.MinimumCredits {
		return "", &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Minimum purchase is %d credits", models.MinimumCredits)}
	}

	quote := s.pricing.Resolve(ctx, credits)
	txID := uuid.NewString()

	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("credits", strconv.FormatInt(credits, 10))
	q.Set("amount", strconv.FormatFloat(quote.Total, 'f', 2, 64))
	q.Set("tx_id", txID)
	successURL := s.publicBaseURL + "/credits/settle?" + q.Encode()

	checkoutURL, err := s.provider.CreateCheckoutSession(ctx, ProviderSessionParams{
		AmountCents: int64(quote.Total*100 + 0.5),
		Currency:    s.currency,
		ProductName: fmt.Sprintf("%d credits", credits),
		SuccessURL:  successURL,
		CancelURL:   s.frontendURL + "/credits?canceled=true",
		Metadata: map[string]string{
			"user_id": userID,
			"credits": strconv.FormatInt(credits, 10),
			"tx_id":   txID,
		},
	})
	if err != nil {
		s.logger.Warn("Checkout session creation failed",
			zap.String("user_id", userID),
			zap.Int64("credits", credits),
			zap.Error(err),
		)
		return "", &ServiceError{StatusCode: 502, Message: err.Error()}
	}

	s.logger.Info("Checkout session created",
		zap.String("user_id", userID),
		zap.Int64("credits", credits),
		zap.String("tx_id", txID),
		zap.Float64("total", quote.Total),
	)
	return checkoutURL, nil
}
