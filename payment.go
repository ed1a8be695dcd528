package arenapay

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ukumbi/arenapay/gateway"
	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/internal/notification"
	"github.com/ukumbi/arenapay/model"
)

// InitiatePaymentRequest is one entry-fee payment for one registration.
type InitiatePaymentRequest struct {
	TournamentID string
	PlayerID     string
	Phone        string
	Amount       decimal.Decimal
}

// InitiatePayment triggers an STK push on the player's phone and persists
// the pending attempt keyed by the gateway's correlation id. The push is
// never retried here: a retry is a second real prompt, so de-duplication
// happens at the attempt level before anything goes out.
func (a *Arenapay) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*model.PaymentAttempt, error) {
	phone, err := model.NormalizePhone(req.Phone)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "amount must be positive", nil)
	}

	// the player registers first, then pays; a missing registration means
	// there is nothing for the callback to approve later
	registration, err := a.datasource.GetRegistration(ctx, req.TournamentID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if registration.PaymentStatus == model.StatusCompleted {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "registration is already paid for", nil)
	}

	token, err := a.gateway.AcquireToken(ctx)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrAuthFailed, "failed to authenticate with payment gateway", err)
	}

	paymentID := model.GenerateUUIDWithPrefix("pay")
	push, err := a.gateway.InitiateSTKPush(ctx, token, gateway.PushRequest{
		Amount:           req.Amount,
		Phone:            phone,
		AccountReference: paymentID,
		Description:      fmt.Sprintf("Entry fee %s", req.TournamentID),
	})
	if err != nil {
		if gwErr, ok := err.(*gateway.GatewayError); ok {
			return nil, apierror.NewAPIError(apierror.ErrGateway, gwErr.Description, gwErr)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "push initiation failed", err)
	}

	attempt, err := a.datasource.CreatePaymentAttempt(ctx, &model.PaymentAttempt{
		PaymentID:     paymentID,
		CorrelationID: push.CorrelationID,
		TournamentID:  req.TournamentID,
		PlayerID:      req.PlayerID,
		Amount:        req.Amount,
		Phone:         phone,
	})
	if err != nil {
		// the prompt is already on the payer's phone; losing the record
		// here means the callback will arrive unmatched, so make noise
		notification.NotifyError(fmt.Errorf("payment attempt %s (correlation %s) not persisted: %w", paymentID, push.CorrelationID, err))
		return nil, err
	}

	logrus.Infof("payment %s initiated for player %s, tournament %s", attempt.PaymentID, req.PlayerID, req.TournamentID)
	return attempt, nil
}

// ProcessCallback applies a gateway result callback. The HTTP layer has
// already acknowledged the gateway by the time this runs; nothing returned
// here reaches the provider. Resolution is idempotent, so duplicate
// deliveries of the same callback are harmless.
func (a *Arenapay) ProcessCallback(ctx context.Context, result model.CallbackResult) error {
	attempt, err := a.datasource.ResolvePaymentAttempt(ctx, result.CorrelationID, result.Outcome())
	if err != nil {
		return err
	}
	if attempt == nil {
		// nothing matched: the gateway may retry callbacks, or this attempt
		// was never persisted on our side
		logrus.Warnf("callback for unknown correlation id %s ignored", result.CorrelationID)
		return nil
	}

	if attempt.Status != model.StatusCompleted {
		logrus.Infof("payment %s failed: %s", attempt.PaymentID, attempt.FailureReason)
		return nil
	}

	// second step of the two-step update. Intentionally not atomic with the
	// resolve above; a failure lands in the reconciliation queue instead.
	if err := a.datasource.UpdateRegistrationPaymentStatus(ctx, attempt.TournamentID, attempt.PlayerID, model.StatusCompleted); err != nil {
		a.recordReconciliationGap(ctx, attempt, err)
		return err
	}

	logrus.Infof("payment %s completed with receipt %s, registration updated", attempt.PaymentID, attempt.ReceiptReference)
	return nil
}

// recordReconciliationGap logs, alerts and queues a retry for a completed
// attempt whose registration mirror failed.
func (a *Arenapay) recordReconciliationGap(ctx context.Context, attempt *model.PaymentAttempt, cause error) {
	gap := ReconciliationGap{
		PaymentID:     attempt.PaymentID,
		CorrelationID: attempt.CorrelationID,
		TournamentID:  attempt.TournamentID,
		PlayerID:      attempt.PlayerID,
		PaymentStatus: attempt.Status,
		Reason:        cause.Error(),
	}

	notification.NotifyError(fmt.Errorf("reconciliation gap: payment %s completed but registration (%s, %s) not updated: %w",
		attempt.PaymentID, attempt.TournamentID, attempt.PlayerID, cause))

	if a.queue == nil {
		return
	}
	if err := a.queue.EnqueueReconciliation(ctx, gap); err != nil {
		notification.NotifyError(fmt.Errorf("failed to queue reconciliation for payment %s: %w", attempt.PaymentID, err))
	}
}

// ReconcileRegistration is the worker-side retry of the registration
// mirror. Idempotent; safe to run for gaps that were fixed in the meantime.
func (a *Arenapay) ReconcileRegistration(ctx context.Context, gap ReconciliationGap) error {
	return a.datasource.UpdateRegistrationPaymentStatus(ctx, gap.TournamentID, gap.PlayerID, gap.PaymentStatus)
}

// GetPaymentAttempt returns one attempt by its local payment id.
func (a *Arenapay) GetPaymentAttempt(ctx context.Context, paymentID string) (*model.PaymentAttempt, error) {
	return a.datasource.GetPaymentAttempt(ctx, paymentID)
}
