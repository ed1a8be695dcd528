package arenapay

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/database/mocks"
	"github.com/ukumbi/arenapay/gateway"
	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

func mockSessionConfig(waitTimeoutSec int) {
	config.MockConfig(&config.Configuration{
		Mpesa: config.MpesaConfig{
			ShortCode:      "174379",
			WaitTimeoutSec: waitTimeoutSec,
		},
	})
}

func expectInitiation(ds *mocks.MockDataSource, gw *mockGateway) {
	ds.On("GetRegistration", mock.Anything, "trn_123", "plr_123").Return(pendingRegistration(), nil)
	gw.On("AcquireToken", mock.Anything).Return("token-abc", nil)
	gw.On("InitiateSTKPush", mock.Anything, "token-abc", mock.Anything).
		Return(&gateway.PushResponse{CorrelationID: "ws_CO_123"}, nil)
	ds.On("CreatePaymentAttempt", mock.Anything, mock.Anything).Return(&model.PaymentAttempt{
		PaymentID:     "pay_123",
		CorrelationID: "ws_CO_123",
		TournamentID:  "trn_123",
		PlayerID:      "plr_123",
		Status:        model.StatusPending,
	}, nil)
}

func sessionRequest() InitiatePaymentRequest {
	return InitiatePaymentRequest{
		TournamentID: "trn_123",
		PlayerID:     "plr_123",
		Phone:        "0712345678",
		Amount:       decimal.NewFromInt(500),
	}
}

func TestRequestPayment_ResolvedThroughChangeFeed(t *testing.T) {
	mockSessionConfig(5)
	ds := new(mocks.MockDataSource)
	gw := new(mockGateway)
	service := newTestService(ds, gw, nil)

	expectInitiation(ds, gw)
	ds.On("GetPaymentAttempt", mock.Anything, "pay_123").Return(&model.PaymentAttempt{
		PaymentID: "pay_123",
		Status:    model.StatusPending,
	}, nil)

	// play the callback's change-feed event once the session is waiting
	go func() {
		time.Sleep(50 * time.Millisecond)
		err := service.watcher.HandleNotification("payment_attempts", map[string]interface{}{
			"payment_id":        "pay_123",
			"correlation_id":    "ws_CO_123",
			"status":            model.StatusCompleted,
			"receipt_reference": "QAI12345XY",
		})
		assert.NoError(t, err)
	}()

	session, err := service.RequestPayment(context.Background(), sessionRequest())
	assert.NoError(t, err)
	assert.Equal(t, SessionResolvedSuccess, session.State)
	assert.Equal(t, "QAI12345XY", session.Attempt.ReceiptReference)
}

func TestRequestPayment_FailureResolvesSession(t *testing.T) {
	mockSessionConfig(5)
	ds := new(mocks.MockDataSource)
	gw := new(mockGateway)
	service := newTestService(ds, gw, nil)

	expectInitiation(ds, gw)
	ds.On("GetPaymentAttempt", mock.Anything, "pay_123").Return(&model.PaymentAttempt{
		PaymentID: "pay_123",
		Status:    model.StatusPending,
	}, nil)

	go func() {
		time.Sleep(50 * time.Millisecond)
		service.watcher.Notify(model.PaymentAttempt{
			PaymentID:     "pay_123",
			Status:        model.StatusFailed,
			FailureReason: "1032: Request cancelled by user",
		})
	}()

	session, err := service.RequestPayment(context.Background(), sessionRequest())
	assert.NoError(t, err)
	assert.Equal(t, SessionResolvedFailure, session.State)
	assert.Equal(t, "1032: Request cancelled by user", session.Attempt.FailureReason)
}

func TestRequestPayment_CallbackBeforeSubscription(t *testing.T) {
	mockSessionConfig(5)
	ds := new(mocks.MockDataSource)
	gw := new(mockGateway)
	service := newTestService(ds, gw, nil)

	expectInitiation(ds, gw)
	// the attempt is already terminal by the time the session re-reads it
	ds.On("GetPaymentAttempt", mock.Anything, "pay_123").Return(&model.PaymentAttempt{
		PaymentID:        "pay_123",
		Status:           model.StatusCompleted,
		ReceiptReference: "QAI12345XY",
	}, nil)

	session, err := service.RequestPayment(context.Background(), sessionRequest())
	assert.NoError(t, err)
	assert.Equal(t, SessionResolvedSuccess, session.State)
}

func TestRequestPayment_Timeout(t *testing.T) {
	mockSessionConfig(1)
	ds := new(mocks.MockDataSource)
	gw := new(mockGateway)
	service := newTestService(ds, gw, nil)

	expectInitiation(ds, gw)
	ds.On("GetPaymentAttempt", mock.Anything, "pay_123").Return(&model.PaymentAttempt{
		PaymentID: "pay_123",
		Status:    model.StatusPending,
	}, nil)

	session, err := service.RequestPayment(context.Background(), sessionRequest())
	assert.Equal(t, SessionTimedOut, session.State)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrTimeout, apiErr.Code)
	// the attempt is untouched: a timed-out session never resolves anything
	ds.AssertNotCalled(t, "ResolvePaymentAttempt", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPayment_SubscriptionReleasedOnExit(t *testing.T) {
	mockSessionConfig(1)
	ds := new(mocks.MockDataSource)
	gw := new(mockGateway)
	service := newTestService(ds, gw, nil)

	expectInitiation(ds, gw)
	ds.On("GetPaymentAttempt", mock.Anything, "pay_123").Return(&model.PaymentAttempt{
		PaymentID: "pay_123",
		Status:    model.StatusPending,
	}, nil)

	_, err := service.RequestPayment(context.Background(), sessionRequest())
	assert.Error(t, err)

	service.watcher.mu.Lock()
	remaining := len(service.watcher.subs)
	service.watcher.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestRequestPayment_ContextCancelled(t *testing.T) {
	mockSessionConfig(60)
	ds := new(mocks.MockDataSource)
	gw := new(mockGateway)
	service := newTestService(ds, gw, nil)

	expectInitiation(ds, gw)
	ds.On("GetPaymentAttempt", mock.Anything, "pay_123").Return(&model.PaymentAttempt{
		PaymentID: "pay_123",
		Status:    model.StatusPending,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	session, err := service.RequestPayment(ctx, sessionRequest())
	assert.Error(t, err)
	assert.Equal(t, SessionTimedOut, session.State)
}
