package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukumbi/arenapay/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Payment methods

func (m *MockDataSource) CreatePaymentAttempt(ctx context.Context, attempt *model.PaymentAttempt) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, attempt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

func (m *MockDataSource) GetPaymentAttempt(ctx context.Context, paymentID string) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

func (m *MockDataSource) GetPaymentAttemptByCorrelationID(ctx context.Context, correlationID string) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

func (m *MockDataSource) ResolvePaymentAttempt(ctx context.Context, correlationID string, outcome model.PaymentOutcome) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, correlationID, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

// Tournament methods

func (m *MockDataSource) CreateTournament(ctx context.Context, tournament *model.Tournament) (*model.Tournament, error) {
	args := m.Called(ctx, tournament)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tournament), args.Error(1)
}

func (m *MockDataSource) GetTournament(ctx context.Context, tournamentID string) (*model.Tournament, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tournament), args.Error(1)
}

func (m *MockDataSource) GetOpenTournaments(ctx context.Context, limit, offset int) ([]model.Tournament, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tournament), args.Error(1)
}

// Registration methods

func (m *MockDataSource) CreateRegistration(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockDataSource) GetRegistration(ctx context.Context, tournamentID, playerID string) (*model.Registration, error) {
	args := m.Called(ctx, tournamentID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockDataSource) GetRegistrationsByTournament(ctx context.Context, tournamentID string, limit, offset int) ([]model.Registration, error) {
	args := m.Called(ctx, tournamentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Registration), args.Error(1)
}

func (m *MockDataSource) UpdateRegistrationPaymentStatus(ctx context.Context, tournamentID, playerID, paymentStatus string) error {
	args := m.Called(ctx, tournamentID, playerID, paymentStatus)
	return args.Error(0)
}

func (m *MockDataSource) UpdateRegistrationStatus(ctx context.Context, tournamentID, playerID, status string) error {
	args := m.Called(ctx, tournamentID, playerID, status)
	return args.Error(0)
}

// Feedback methods

func (m *MockDataSource) CreateFeedback(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	args := m.Called(ctx, fb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feedback), args.Error(1)
}

func (m *MockDataSource) GetAllFeedback(ctx context.Context, limit, offset int) ([]model.Feedback, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Feedback), args.Error(1)
}
