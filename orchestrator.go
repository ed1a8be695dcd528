package arenapay

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

// Session states for a synchronous payment request. A session only ever
// moves forward; once terminal it never changes again.
const (
	SessionIdle             = "idle"
	SessionInitiating       = "initiating"
	SessionAwaitingCallback = "awaiting_callback"
	SessionResolvedSuccess  = "resolved_success"
	SessionResolvedFailure  = "resolved_failure"
	SessionTimedOut         = "timed_out"
)

// PaymentSession tracks one end-to-end payment request from initiation to a
// terminal state. It exists for callers that want to block until the payer
// acts on the prompt; fire-and-forget callers use InitiatePayment directly.
type PaymentSession struct {
	State   string                `json:"state"`
	Attempt *model.PaymentAttempt `json:"attempt,omitempty"`
}

func (s *PaymentSession) transition(state string) {
	logrus.Debugf("payment session %s -> %s", s.State, state)
	s.State = state
}

// RequestPayment runs the full flow: initiate the push, subscribe to the
// change feed and wait until the attempt resolves, the wait window lapses or
// the caller gives up. The subscription is released on every exit path.
//
// A timeout is a client-side decision only: the attempt stays pending in the
// store and a late callback still resolves it.
func (a *Arenapay) RequestPayment(ctx context.Context, req InitiatePaymentRequest) (*PaymentSession, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	session := &PaymentSession{State: SessionIdle}

	session.transition(SessionInitiating)
	attempt, err := a.InitiatePayment(ctx, req)
	if err != nil {
		return nil, err
	}
	session.Attempt = attempt

	sub := a.watcher.Watch(attempt.PaymentID)
	defer sub.Close()
	session.transition(SessionAwaitingCallback)

	// the callback may have landed between initiation and subscribing, in
	// which case the feed already fired without us; re-read once to cover it
	current, err := a.datasource.GetPaymentAttempt(ctx, attempt.PaymentID)
	if err == nil && current.IsTerminal() {
		return resolveSession(session, *current), nil
	}

	waitWindow := time.Duration(conf.Mpesa.WaitTimeoutSec) * time.Second
	timer := time.NewTimer(waitWindow)
	defer timer.Stop()

	select {
	case resolved := <-sub.C:
		return resolveSession(session, resolved), nil
	case <-timer.C:
		session.transition(SessionTimedOut)
		logrus.Warnf("payment %s still pending after %s", attempt.PaymentID, waitWindow)
		return session, apierror.NewAPIError(apierror.ErrTimeout, "payment confirmation timed out, it may still complete", nil)
	case <-ctx.Done():
		session.transition(SessionTimedOut)
		return session, apierror.NewAPIError(apierror.ErrTimeout, "payment request cancelled while awaiting confirmation", ctx.Err())
	}
}

func resolveSession(session *PaymentSession, attempt model.PaymentAttempt) *PaymentSession {
	session.Attempt = &attempt
	if attempt.Status == model.StatusCompleted {
		session.transition(SessionResolvedSuccess)
	} else {
		session.transition(SessionResolvedFailure)
	}
	return session
}
