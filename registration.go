package arenapay

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

// RegisterForTournament creates a pending, unpaid registration. Payment and
// approval are separate later steps.
func (a *Arenapay) RegisterForTournament(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	tournament, err := a.datasource.GetTournament(ctx, registration.TournamentID)
	if err != nil {
		return nil, err
	}
	if !tournament.RegistrationOpen {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "registration for this tournament is closed", nil)
	}
	return a.datasource.CreateRegistration(ctx, registration)
}

// ApproveRegistration admits a player into the bracket. Approval is gated on
// a completed entry-fee payment; everything else is a conflict.
func (a *Arenapay) ApproveRegistration(ctx context.Context, tournamentID, playerID string) error {
	registration, err := a.datasource.GetRegistration(ctx, tournamentID, playerID)
	if err != nil {
		return err
	}
	if registration.PaymentStatus != model.StatusCompleted {
		return apierror.NewAPIError(apierror.ErrConflict, "registration cannot be approved before payment completes", nil)
	}
	if registration.Status == model.RegistrationApproved {
		return nil
	}

	if err := a.datasource.UpdateRegistrationStatus(ctx, tournamentID, playerID, model.RegistrationApproved); err != nil {
		return err
	}
	logrus.Infof("registration approved for player %s in tournament %s", playerID, tournamentID)
	return nil
}

func (a *Arenapay) GetRegistration(ctx context.Context, tournamentID, playerID string) (*model.Registration, error) {
	return a.datasource.GetRegistration(ctx, tournamentID, playerID)
}

func (a *Arenapay) ListRegistrations(ctx context.Context, tournamentID string, limit, offset int) ([]model.Registration, error) {
	return a.datasource.GetRegistrationsByTournament(ctx, tournamentID, limit, offset)
}
