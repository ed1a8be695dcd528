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

func (d Datasource) CreateTournament(ctx context.Context, tournament *model.Tournament) (*model.Tournament, error) {
	metaDataJSON, err := json.Marshal(tournament.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	tournament.TournamentID = model.GenerateUUIDWithPrefix("trn")
	tournament.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO arenapay.tournaments (tournament_id, name, game_title, entry_fee, capacity, registration_open, starts_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, tournament.TournamentID, tournament.Name, tournament.GameTitle, tournament.EntryFee, tournament.Capacity, tournament.RegistrationOpen, tournament.StartsAt, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Tournament with this ID already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create tournament", err)
	}

	return tournament, nil
}

func (d Datasource) GetTournament(ctx context.Context, tournamentID string) (*model.Tournament, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT tournament_id, name, game_title, entry_fee, capacity, registration_open, starts_at, created_at, meta_data
		FROM arenapay.tournaments
		WHERE tournament_id = $1
	`, tournamentID)

	tournament := model.Tournament{}
	var startsAt sql.NullTime
	var metaDataJSON []byte
	err := row.Scan(&tournament.TournamentID, &tournament.Name, &tournament.GameTitle, &tournament.EntryFee, &tournament.Capacity, &tournament.RegistrationOpen, &startsAt, &tournament.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Tournament with ID '%s' not found", tournamentID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tournament", err)
	}

	if startsAt.Valid {
		tournament.StartsAt = startsAt.Time
	}
	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &tournament.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}
	return &tournament, nil
}

func (d Datasource) GetOpenTournaments(ctx context.Context, limit, offset int) ([]model.Tournament, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT tournament_id, name, game_title, entry_fee, capacity, registration_open, starts_at, created_at, meta_data
		FROM arenapay.tournaments
		WHERE registration_open = TRUE
		ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tournaments", err)
	}
	defer rows.Close()

	tournaments := []model.Tournament{}
	for rows.Next() {
		tournament := model.Tournament{}
		var startsAt sql.NullTime
		var metaDataJSON []byte
		err = rows.Scan(&tournament.TournamentID, &tournament.Name, &tournament.GameTitle, &tournament.EntryFee, &tournament.Capacity, &tournament.RegistrationOpen, &startsAt, &tournament.CreatedAt, &metaDataJSON)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan tournament", err)
		}
		if startsAt.Valid {
			tournament.StartsAt = startsAt.Time
		}
		if len(metaDataJSON) > 0 {
			if err := json.Unmarshal(metaDataJSON, &tournament.MetaData); err != nil {
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
			}
		}
		tournaments = append(tournaments, tournament)
	}

	return tournaments, nil
}
