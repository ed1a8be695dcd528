package arenapay

import (
	"context"

	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

func (a *Arenapay) CreateTournament(ctx context.Context, tournament *model.Tournament) (*model.Tournament, error) {
	if tournament.Name == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "tournament name is required", nil)
	}
	if !tournament.EntryFee.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "entry fee must be positive", nil)
	}
	return a.datasource.CreateTournament(ctx, tournament)
}

func (a *Arenapay) GetTournament(ctx context.Context, tournamentID string) (*model.Tournament, error) {
	return a.datasource.GetTournament(ctx, tournamentID)
}

func (a *Arenapay) ListOpenTournaments(ctx context.Context, limit, offset int) ([]model.Tournament, error) {
	return a.datasource.GetOpenTournaments(ctx, limit, offset)
}
