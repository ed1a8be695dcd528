package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

// CreatePaymentAttempt inserts a new pending attempt. Exactly one attempt
// may exist per correlation id; a duplicate insert is a conflict, which
// indicates a replayed initiation rather than a storage problem.
func (d Datasource) CreatePaymentAttempt(ctx context.Context, attempt *model.PaymentAttempt) (*model.PaymentAttempt, error) {
	metaDataJSON, err := json.Marshal(attempt.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	if attempt.PaymentID == "" {
		attempt.PaymentID = model.GenerateUUIDWithPrefix("pay")
	}
	attempt.Status = model.StatusPending
	attempt.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO arenapay.payment_attempts (payment_id, correlation_id, tournament_id, player_id, amount, phone, status, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, attempt.PaymentID, attempt.CorrelationID, attempt.TournamentID, attempt.PlayerID, attempt.Amount, attempt.Phone, attempt.Status, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Payment attempt with correlation ID '%s' already exists", attempt.CorrelationID), err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create payment attempt", err)
	}

	return attempt, nil
}

func (d Datasource) GetPaymentAttempt(ctx context.Context, paymentID string) (*model.PaymentAttempt, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, correlation_id, tournament_id, player_id, amount, phone, status, receipt_reference, failure_reason, created_at, resolved_at, meta_data
		FROM arenapay.payment_attempts
		WHERE payment_id = $1
	`, paymentID)

	attempt, err := scanPaymentAttempt(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payment attempt with ID '%s' not found", paymentID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment attempt", err)
	}
	return attempt, nil
}

func (d Datasource) GetPaymentAttemptByCorrelationID(ctx context.Context, correlationID string) (*model.PaymentAttempt, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, correlation_id, tournament_id, player_id, amount, phone, status, receipt_reference, failure_reason, created_at, resolved_at, meta_data
		FROM arenapay.payment_attempts
		WHERE correlation_id = $1
	`, correlationID)

	attempt, err := scanPaymentAttempt(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payment attempt with correlation ID '%s' not found", correlationID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment attempt", err)
	}
	return attempt, nil
}

// ResolvePaymentAttempt transitions the matching pending attempt to its
// terminal state in one conditional update. It is idempotent: resolving an
// already-terminal attempt returns the stored record untouched (resolved_at
// included), and an unknown correlation id returns (nil, nil) — the gateway
// retries callbacks, and a callback for an attempt we never persisted is a
// reconciliation note, not an error.
func (d Datasource) ResolvePaymentAttempt(ctx context.Context, correlationID string, outcome model.PaymentOutcome) (*model.PaymentAttempt, error) {
	if outcome.Status != model.StatusCompleted && outcome.Status != model.StatusFailed {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("'%s' is not a terminal payment status", outcome.Status), nil)
	}

	row := d.Conn.QueryRowContext(ctx, `
		UPDATE arenapay.payment_attempts
		SET status = $2, receipt_reference = $3, failure_reason = $4, resolved_at = NOW()
		WHERE correlation_id = $1 AND status = 'pending'
		RETURNING payment_id, correlation_id, tournament_id, player_id, amount, phone, status, receipt_reference, failure_reason, created_at, resolved_at, meta_data
	`, correlationID, outcome.Status, nullableString(outcome.ReceiptReference), nullableString(outcome.FailureReason))

	attempt, err := scanPaymentAttempt(row)
	if err == nil {
		return attempt, nil
	}
	if err != sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to resolve payment attempt", err)
	}

	// No pending row matched: either the attempt is already terminal
	// (duplicate callback) or it was never persisted. Both are no-ops.
	existing, err := d.GetPaymentAttemptByCorrelationID(ctx, correlationID)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPaymentAttempt(row rowScanner) (*model.PaymentAttempt, error) {
	attempt := model.PaymentAttempt{}
	var receiptReference, failureReason sql.NullString
	var resolvedAt sql.NullTime
	var metaDataJSON []byte

	err := row.Scan(
		&attempt.PaymentID,
		&attempt.CorrelationID,
		&attempt.TournamentID,
		&attempt.PlayerID,
		&attempt.Amount,
		&attempt.Phone,
		&attempt.Status,
		&receiptReference,
		&failureReason,
		&attempt.CreatedAt,
		&resolvedAt,
		&metaDataJSON,
	)
	if err != nil {
		return nil, err
	}

	attempt.ReceiptReference = receiptReference.String
	attempt.FailureReason = failureReason.String
	if resolvedAt.Valid {
		attempt.ResolvedAt = &resolvedAt.Time
	}
	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &attempt.MetaData); err != nil {
			return nil, err
		}
	}
	return &attempt, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
