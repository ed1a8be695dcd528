package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ukumbi/arenapay/database/mocks"
	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

func TestCreateTournamentEndpoint(t *testing.T) {
	ds := new(mocks.MockDataSource)
	a := newTestApi(ds, new(mockGatewayClient))

	ds.On("CreateTournament", mock.Anything, mock.MatchedBy(func(tournament *model.Tournament) bool {
		return tournament.Name == "Freshers Cup" && tournament.Capacity == 64
	})).Return(&model.Tournament{
		TournamentID: "trn_1",
		Name:         "Freshers Cup",
		Capacity:     64,
	}, nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":              "Freshers Cup",
		"game_title":        "eFootball 2024",
		"entry_fee":         500,
		"capacity":          64,
		"registration_open": true,
		"starts_at":         time.Now().Add(72 * time.Hour).Format(time.RFC3339),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tournaments", bytes.NewBuffer(payload))
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateTournamentEndpoint_BadStartDate(t *testing.T) {
	a := newTestApi(new(mocks.MockDataSource), new(mockGatewayClient))

	payload, _ := json.Marshal(map[string]interface{}{
		"name":       "Freshers Cup",
		"game_title": "eFootball 2024",
		"capacity":   64,
		"starts_at":  "next friday",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tournaments", bytes.NewBuffer(payload))
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterForTournamentEndpoint(t *testing.T) {
	ds := new(mocks.MockDataSource)
	a := newTestApi(ds, new(mockGatewayClient))

	ds.On("GetTournament", mock.Anything, "trn_1").Return(&model.Tournament{
		TournamentID:     "trn_1",
		RegistrationOpen: true,
	}, nil)
	ds.On("CreateRegistration", mock.Anything, mock.Anything).Return(&model.Registration{
		RegistrationID: "reg_1",
		TournamentID:   "trn_1",
		PlayerID:       "plr_1",
		Status:         model.RegistrationPending,
	}, nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"player_id": "plr_1",
		"gamer_tag": "shadow_striker",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tournaments/trn_1/registrations", bytes.NewBuffer(payload))
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestApproveRegistrationEndpoint_UnpaidConflict(t *testing.T) {
	ds := new(mocks.MockDataSource)
	a := newTestApi(ds, new(mockGatewayClient))

	ds.On("GetRegistration", mock.Anything, "trn_1", "plr_1").Return(&model.Registration{
		TournamentID:  "trn_1",
		PlayerID:      "plr_1",
		PaymentStatus: model.StatusPending,
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/tournaments/trn_1/registrations/plr_1/approve", nil)
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetTournamentEndpoint_NotFound(t *testing.T) {
	ds := new(mocks.MockDataSource)
	a := newTestApi(ds, new(mockGatewayClient))

	ds.On("GetTournament", mock.Anything, "trn_missing").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "tournament not found", nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tournaments/trn_missing", nil)
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
