package model

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/ukumbi/arenapay/model"
)

// phonePattern accepts the payer formats normalization handles: an optional
// plus, an optional 254 or 0 prefix, then a nine-digit subscriber number
// starting with 7 or 1.
var phonePattern = regexp.MustCompile(`^\+?(?:254|0)?[17]\d{8}$`)

type CreateTournament struct {
	Name             string                 `json:"name"`
	GameTitle        string                 `json:"game_title"`
	EntryFee         decimal.Decimal        `json:"entry_fee"`
	Capacity         int                    `json:"capacity"`
	RegistrationOpen bool                   `json:"registration_open"`
	StartsAt         string                 `json:"starts_at"`
	MetaData         map[string]interface{} `json:"meta_data"`
}

func (t *CreateTournament) ValidateCreateTournament() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.GameTitle, validation.Required),
		validation.Field(&t.Capacity, validation.Required, validation.Min(2)),
	)
}

type CreateRegistration struct {
	PlayerID string                 `json:"player_id"`
	GamerTag string                 `json:"gamer_tag"`
	MetaData map[string]interface{} `json:"meta_data"`
}

func (r *CreateRegistration) ValidateCreateRegistration() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PlayerID, validation.Required),
		validation.Field(&r.GamerTag, validation.Required),
	)
}

type InitiatePayment struct {
	TournamentID string          `json:"tournament_id"`
	PlayerID     string          `json:"player_id"`
	Phone        string          `json:"phone"`
	Amount       decimal.Decimal `json:"amount"`
}

func (p *InitiatePayment) ValidateInitiatePayment() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.TournamentID, validation.Required),
		validation.Field(&p.PlayerID, validation.Required),
		validation.Field(&p.Phone, validation.Required, validation.Match(phonePattern).Error("phone must be a Kenyan mobile number")),
	)
}

type CreateFeedback struct {
	PlayerID string `json:"player_id"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

func (f *CreateFeedback) ValidateCreateFeedback() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Message, validation.Required, validation.Length(3, 2000)),
	)
}

func (t *CreateTournament) ToTournament() (*model.Tournament, error) {
	startsAt, err := time.Parse(time.RFC3339, t.StartsAt)
	if err != nil {
		return nil, errors.New("please format starts_at as 'YYYY-MM-DDTHH:MM:SS+00:00' (e.g., 2024-09-14T15:00:00+00:00)")
	}
	return &model.Tournament{
		Name:             t.Name,
		GameTitle:        t.GameTitle,
		EntryFee:         t.EntryFee,
		Capacity:         t.Capacity,
		RegistrationOpen: t.RegistrationOpen,
		StartsAt:         startsAt,
		MetaData:         t.MetaData,
	}, nil
}

func (r *CreateRegistration) ToRegistration(tournamentID string) *model.Registration {
	return &model.Registration{
		TournamentID: tournamentID,
		PlayerID:     r.PlayerID,
		GamerTag:     r.GamerTag,
		MetaData:     r.MetaData,
	}
}

func (f *CreateFeedback) ToFeedback() *model.Feedback {
	return &model.Feedback{
		PlayerID: f.PlayerID,
		Email:    f.Email,
		Message:  f.Message,
	}
}
