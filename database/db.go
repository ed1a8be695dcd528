package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/ukumbi/arenapay/cache"
	"github.com/ukumbi/arenapay/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con, Cache: nil}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "error opening database connection")
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error: %v", err)
		return nil, errors.Wrap(err, "error connecting to database")
	}
	err = Migrate(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate bootstraps the schema, tables and the payment change trigger.
// Everything is idempotent so it runs on every startup.
func Migrate(db *sql.DB) error {
	for _, stmt := range []string{
		createSchema,
		createTournamentTable,
		createRegistrationTable,
		createPaymentAttemptTable,
		createFeedbackTable,
		createPaymentNotifyFunction,
		createPaymentNotifyTrigger,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "error applying schema")
		}
	}
	return nil
}

const createSchema = `
	CREATE SCHEMA IF NOT EXISTS arenapay
`

const createTournamentTable = `
	CREATE TABLE IF NOT EXISTS arenapay.tournaments (
		id SERIAL PRIMARY KEY,
		tournament_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		game_title TEXT NOT NULL,
		entry_fee NUMERIC(12,2) NOT NULL,
		capacity INT NOT NULL DEFAULT 0,
		registration_open BOOLEAN NOT NULL DEFAULT TRUE,
		starts_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		meta_data JSONB
	)
`

const createRegistrationTable = `
	CREATE TABLE IF NOT EXISTS arenapay.tournament_registrations (
		id SERIAL PRIMARY KEY,
		registration_id TEXT NOT NULL UNIQUE,
		tournament_id TEXT NOT NULL REFERENCES arenapay.tournaments(tournament_id),
		player_id TEXT NOT NULL,
		gamer_tag TEXT,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		meta_data JSONB,
		UNIQUE (tournament_id, player_id)
	)
`

const createPaymentAttemptTable = `
	CREATE TABLE IF NOT EXISTS arenapay.payment_attempts (
		id SERIAL PRIMARY KEY,
		payment_id TEXT NOT NULL UNIQUE,
		correlation_id TEXT NOT NULL UNIQUE,
		tournament_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		phone TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		receipt_reference TEXT,
		failure_reason TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMP,
		meta_data JSONB
	)
`

const createFeedbackTable = `
	CREATE TABLE IF NOT EXISTS arenapay.feedback (
		id SERIAL PRIMARY KEY,
		feedback_id TEXT NOT NULL UNIQUE,
		player_id TEXT,
		email TEXT,
		message TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)
`

// The trigger feeds the watch subscriptions: every insert/update on
// payment_attempts is published on the payment_change channel as
// {table, data} JSON, the shape internal/pg-listener expects.
const createPaymentNotifyFunction = `
	CREATE OR REPLACE FUNCTION arenapay.notify_payment_change() RETURNS TRIGGER AS $$
	BEGIN
		PERFORM pg_notify(
			'payment_change',
			json_build_object(
				'table', 'payment_attempts',
				'data', row_to_json(NEW)
			)::text
		);
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql
`

const createPaymentNotifyTrigger = `
	DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_trigger WHERE tgname = 'payment_attempts_notify'
		) THEN
			CREATE TRIGGER payment_attempts_notify
			AFTER INSERT OR UPDATE ON arenapay.payment_attempts
			FOR EACH ROW EXECUTE FUNCTION arenapay.notify_payment_change();
		END IF;
	END
	$$
`
