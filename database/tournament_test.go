package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

func TestCreateTournament_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	tournament := &model.Tournament{
		Name:             "Freshers Cup 2024",
		GameTitle:        "eFootball 2024",
		EntryFee:         decimal.NewFromInt(500),
		Capacity:         64,
		RegistrationOpen: true,
		StartsAt:         time.Now().Add(72 * time.Hour),
	}

	mock.ExpectExec("INSERT INTO arenapay.tournaments").
		WithArgs(sqlmock.AnyArg(), tournament.Name, tournament.GameTitle, sqlmock.AnyArg(), tournament.Capacity, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateTournament(context.Background(), tournament)
	assert.NoError(t, err)
	assert.Contains(t, created.TournamentID, "trn_")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestGetTournament_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM arenapay.tournaments").
		WithArgs("trn_missing").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetTournament(context.Background(), "trn_missing")
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetOpenTournaments(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"tournament_id", "name", "game_title", "entry_fee", "capacity", "registration_open", "starts_at", "created_at", "meta_data"}).
		AddRow("trn_1", "Freshers Cup", "eFootball 2024", "500.00", 64, true, time.Now(), time.Now(), nil).
		AddRow("trn_2", "Alumni Shield", "eFootball 2024", "1000.00", 32, true, time.Now(), time.Now(), nil)

	mock.ExpectQuery("SELECT (.+) FROM arenapay.tournaments").
		WithArgs(20, 0).
		WillReturnRows(rows)

	tournaments, err := ds.GetOpenTournaments(context.Background(), 20, 0)
	assert.NoError(t, err)
	assert.Len(t, tournaments, 2)
	assert.True(t, tournaments[0].EntryFee.Equal(decimal.NewFromInt(500)))
}
