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

func (d Datasource) CreateRegistration(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	metaDataJSON, err := json.Marshal(registration.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	registration.RegistrationID = model.GenerateUUIDWithPrefix("reg")
	registration.PaymentStatus = model.StatusPending
	registration.Status = model.RegistrationPending
	registration.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO arenapay.tournament_registrations (registration_id, tournament_id, player_id, gamer_tag, payment_status, status, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, registration.RegistrationID, registration.TournamentID, registration.PlayerID, registration.GamerTag, registration.PaymentStatus, registration.Status, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Player '%s' is already registered for tournament '%s'", registration.PlayerID, registration.TournamentID), err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Tournament with ID '%s' not found", registration.TournamentID), err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create registration", err)
	}

	return registration, nil
}

func (d Datasource) GetRegistration(ctx context.Context, tournamentID, playerID string) (*model.Registration, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT registration_id, tournament_id, player_id, gamer_tag, payment_status, status, created_at, meta_data
		FROM arenapay.tournament_registrations
		WHERE tournament_id = $1 AND player_id = $2
	`, tournamentID, playerID)

	registration, err := scanRegistration(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Registration for player '%s' in tournament '%s' not found", playerID, tournamentID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve registration", err)
	}
	return registration, nil
}

func (d Datasource) GetRegistrationsByTournament(ctx context.Context, tournamentID string, limit, offset int) ([]model.Registration, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT registration_id, tournament_id, player_id, gamer_tag, payment_status, status, created_at, meta_data
		FROM arenapay.tournament_registrations
		WHERE tournament_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, tournamentID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve registrations", err)
	}
	defer rows.Close()

	registrations := []model.Registration{}
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan registration", err)
		}
		registrations = append(registrations, *registration)
	}
	return registrations, nil
}

// UpdateRegistrationPaymentStatus mirrors a payment attempt's terminal state
// onto the registration. Writing the same status twice is harmless, which
// keeps duplicate callback processing idempotent.
func (d Datasource) UpdateRegistrationPaymentStatus(ctx context.Context, tournamentID, playerID, paymentStatus string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE arenapay.tournament_registrations
		SET payment_status = $3
		WHERE tournament_id = $1 AND player_id = $2
	`, tournamentID, playerID, paymentStatus)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update registration payment status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Registration for player '%s' in tournament '%s' not found", playerID, tournamentID), nil)
	}
	return nil
}

func (d Datasource) UpdateRegistrationStatus(ctx context.Context, tournamentID, playerID, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE arenapay.tournament_registrations
		SET status = $3
		WHERE tournament_id = $1 AND player_id = $2
	`, tournamentID, playerID, status)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update registration status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Registration for player '%s' in tournament '%s' not found", playerID, tournamentID), nil)
	}
	return nil
}

func scanRegistration(row rowScanner) (*model.Registration, error) {
	registration := model.Registration{}
	var gamerTag sql.NullString
	var metaDataJSON []byte

	err := row.Scan(
		&registration.RegistrationID,
		&registration.TournamentID,
		&registration.PlayerID,
		&gamerTag,
		&registration.PaymentStatus,
		&registration.Status,
		&registration.CreatedAt,
		&metaDataJSON,
	)
	if err != nil {
		return nil, err
	}

	registration.GamerTag = gamerTag.String
	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &registration.MetaData); err != nil {
			return nil, err
		}
	}
	return &registration, nil
}
