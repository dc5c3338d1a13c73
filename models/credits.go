package models

import (
	"time"

	"github.com/google/uuid"
)

// MinimumCredits is the smallest quantity a buyer may purchase.
const MinimumCredits = 100

// Transaction type and status values recorded in the ledger.
const (
	TransactionTypeCreditsPurchase = "credits-purchase"
	TransactionStatusSucceeded     = "succeeded"
)

// Account is a buyer's account record. Credits is the authoritative
// balance; this service only ever increments it (consumption belongs to
// the generation proxy).
type Account struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:255"`
	Credits   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Account) TableName() string { return "accounts" }

// CreditTransaction is one completed credit purchase. TxID is the checkout
// token round-tripped through Stripe's redirect; its uniqueness is what
// makes settlement idempotent, so replayed redirects cannot credit twice.
// Amount records the resolved cost of the credits, excluding the
// processing fee.
type CreditTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;index;not null" json:"user_id"`
	TxID        string    `gorm:"uniqueIndex;size:64;not null" json:"tx_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Status      string    `gorm:"size:32;not null" json:"status"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName implements the GORM tabler interface.
func (CreditTransaction) TableName() string { return "credit_transactions" }

// CheckoutRequest is the body of POST /credits/checkout.
type CheckoutRequest struct {
	Credits int64  `json:"credits" binding:"required"`
	UserID  string `json:"user_id"`
}

// SettlementRequest carries the parameters read back from the payment
// provider's redirect. Amount is informational only; the ledger amount is
// re-resolved from the credit quantity.
type SettlementRequest struct {
	UserID  string
	Credits int64
	Amount  float64
	TxID    string
}

// SettlementOutcome tags what actually happened during reconciliation,
// independent of how the buyer is redirected afterwards.
type SettlementOutcome string

const (
	// OutcomeCredited means the privileged path incremented the balance
	// and appended the ledger row.
	OutcomeCredited SettlementOutcome = "credited"
	// OutcomeAlreadySettled means this tx_id was settled before; the
	// balance was not touched again.
	OutcomeAlreadySettled SettlementOutcome = "already_settled"
	// OutcomePendingFallback means the privileged path is unavailable and
	// the client-side fallback must apply the increment under the buyer's
	// own authorization.
	OutcomePendingFallback SettlementOutcome = "pending_fallback"
	// OutcomeInvalid means the request failed validation; nothing mutated.
	OutcomeInvalid SettlementOutcome = "invalid"
	// OutcomeFailed means an unexpected error left the settlement state
	// unknown; it needs operator reconciliation.
	OutcomeFailed SettlementOutcome = "failed"
)

// SettlementResult is the reconciler's answer for one return trip.
type SettlementResult struct {
	Outcome    SettlementOutcome
	UserID     string
	Credits    int64
	TxID       string
	NewBalance int64
}

// SettlementEvent is the payload published to the settlement SNS topic.
type SettlementEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Credits    int64     `json:"credits"`
	TxID       string    `json:"tx_id"`
	NewBalance int64     `json:"new_balance,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
