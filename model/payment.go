package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// PaymentAttempt is the durable record of one STK push prompt. It is created
// at initiation, resolved exactly once by the callback receiver and never
// deleted; resolved attempts double as the audit trail.
type PaymentAttempt struct {
	PaymentID        string                 `json:"payment_id"`
	CorrelationID    string                 `json:"correlation_id"`
	TournamentID     string                 `json:"tournament_id"`
	PlayerID         string                 `json:"player_id"`
	Amount           decimal.Decimal        `json:"amount"`
	Phone            string                 `json:"phone"`
	Status           string                 `json:"status"`
	ReceiptReference string                 `json:"receipt_reference,omitempty"`
	FailureReason    string                 `json:"failure_reason,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	ResolvedAt       *time.Time             `json:"resolved_at,omitempty"`
	MetaData         map[string]interface{} `json:"meta_data,omitempty"`
}

// IsTerminal reports whether the attempt has left the pending state.
// Terminal attempts are immutable.
func (p *PaymentAttempt) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}

// PaymentOutcome carries the terminal fields a resolve applies to a pending
// attempt. Status must be completed or failed.
type PaymentOutcome struct {
	Status           string `json:"status"`
	ReceiptReference string `json:"receipt_reference,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
}
