package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Client is the surface the payment service needs from the mobile-money
// gateway. AcquireToken is idempotent and safe to retry; InitiateSTKPush is
// not — every call may raise a real prompt on the payer's handset, so
// callers must de-duplicate at the payment-attempt level before retrying.
type Client interface {
	AcquireToken(ctx context.Context) (string, error)
	InitiateSTKPush(ctx context.Context, token string, push PushRequest) (*PushResponse, error)
}

type PushRequest struct {
	Amount           decimal.Decimal
	Phone            string
	AccountReference string
	Description      string
}

// PushResponse carries the gateway's acknowledgement of a push request.
// CorrelationID is the id the asynchronous result callback will quote.
type PushResponse struct {
	CorrelationID       string
	MerchantRequestID   string
	ResponseDescription string
	CustomerMessage     string
}

// AuthError means the gateway rejected our credentials or returned a
// malformed token response. Retryable after a delay; never carries the token.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway auth failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("gateway auth failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// GatewayError is a rejection of the push request itself. The provider's
// code and description are surfaced verbatim; the request is not retried
// automatically to avoid duplicate prompts.
type GatewayError struct {
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway declined push request (%s): %s", e.Code, e.Description)
}
