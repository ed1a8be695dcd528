package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
)

type Tournament struct {
	TournamentID     string                 `json:"tournament_id"`
	Name             string                 `json:"name"`
	GameTitle        string                 `json:"game_title"`
	EntryFee         decimal.Decimal        `json:"entry_fee"`
	Capacity         int                    `json:"capacity"`
	RegistrationOpen bool                   `json:"registration_open"`
	StartsAt         time.Time              `json:"starts_at"`
	CreatedAt        time.Time              `json:"created_at"`
	MetaData         map[string]interface{} `json:"meta_data,omitempty"`
}

// Registration links a player to a tournament. PaymentStatus mirrors the
// terminal state of the linked PaymentAttempt; approval requires it to be
// completed.
type Registration struct {
	RegistrationID string                 `json:"registration_id"`
	TournamentID   string                 `json:"tournament_id"`
	PlayerID       string                 `json:"player_id"`
	GamerTag       string                 `json:"gamer_tag"`
	PaymentStatus  string                 `json:"payment_status"`
	Status         string                 `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

type Feedback struct {
	FeedbackID string    `json:"feedback_id"`
	PlayerID   string    `json:"player_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
