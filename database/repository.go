package database

import (
	"context"

	"github.com/ukumbi/arenapay/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	payment
	tournament
	registration
	feedback
}

// payment defines methods for the pending-payment store. Only the callback
// path resolves attempts; everything else reads.
type payment interface {
	CreatePaymentAttempt(ctx context.Context, attempt *model.PaymentAttempt) (*model.PaymentAttempt, error)
	GetPaymentAttempt(ctx context.Context, paymentID string) (*model.PaymentAttempt, error)
	GetPaymentAttemptByCorrelationID(ctx context.Context, correlationID string) (*model.PaymentAttempt, error)
	ResolvePaymentAttempt(ctx context.Context, correlationID string, outcome model.PaymentOutcome) (*model.PaymentAttempt, error)
}

type tournament interface {
	CreateTournament(ctx context.Context, tournament *model.Tournament) (*model.Tournament, error)
	GetTournament(ctx context.Context, tournamentID string) (*model.Tournament, error)
	GetOpenTournaments(ctx context.Context, limit, offset int) ([]model.Tournament, error)
}

type registration interface {
	CreateRegistration(ctx context.Context, registration *model.Registration) (*model.Registration, error)
	GetRegistration(ctx context.Context, tournamentID, playerID string) (*model.Registration, error)
	GetRegistrationsByTournament(ctx context.Context, tournamentID string, limit, offset int) ([]model.Registration, error)
	UpdateRegistrationPaymentStatus(ctx context.Context, tournamentID, playerID, paymentStatus string) error
	UpdateRegistrationStatus(ctx context.Context, tournamentID, playerID, status string) error
}

type feedback interface {
	CreateFeedback(ctx context.Context, fb *model.Feedback) (*model.Feedback, error)
	GetAllFeedback(ctx context.Context, limit, offset int) ([]model.Feedback, error)
}
