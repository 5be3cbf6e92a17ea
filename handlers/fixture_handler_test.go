package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/services"
)

type stubBracketService struct {
	services.BracketService
	result *services.RecordWinnerResult
	err    error

	gotFixture, gotWinner int
}

func (s *stubBracketService) RecordFixtureWinner(ctx context.Context, fixtureID, winnerID int) (*services.RecordWinnerResult, error) {
	s.gotFixture, s.gotWinner = fixtureID, winnerID
	return s.result, s.err
}

func recordWinner(t *testing.T, svc services.BracketService, fixtureID, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Patch("/fixtures/{fixtureID}/winner", NewFixtureHandler(svc).RecordWinnerHandler)

	req := httptest.NewRequest(http.MethodPatch, "/fixtures/"+fixtureID+"/winner", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordWinnerHandler(t *testing.T) {
	winner := 5
	champion := &services.TournamentChampionDecided{TournamentID: 1, ChampionRegistrationID: 5, PrizeAmount: 160}
	stub := &stubBracketService{result: &services.RecordWinnerResult{
		Fixture:  &models.Fixture{ID: 9, TournamentID: 1, WinnerID: &winner, Status: models.FixtureCompleted},
		Champion: champion,
	}}

	rec := recordWinner(t, stub, "9", `{"winner_id": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, stub.gotFixture)
	assert.Equal(t, 5, stub.gotWinner)

	var body struct {
		Fixture  models.Fixture                      `json:"fixture"`
		Champion *services.TournamentChampionDecided `json:"champion"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, *body.Fixture.WinnerID)
	require.NotNil(t, body.Champion)
	assert.Equal(t, 160.0, body.Champion.PrizeAmount)
}

func TestRecordWinnerHandlerOmitsMissingChampion(t *testing.T) {
	stub := &stubBracketService{result: &services.RecordWinnerResult{Fixture: &models.Fixture{ID: 9}}}

	rec := recordWinner(t, stub, "9", `{"winner_id": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "champion")
}

func TestRecordWinnerHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		fixture  string
		body     string
		err      error
		expected int
	}{
		{"bad fixture id", "abc", `{"winner_id": 5}`, nil, http.StatusBadRequest},
		{"missing winner", "9", `{}`, nil, http.StatusBadRequest},
		{"unknown field", "9", `{"winner": 5}`, nil, http.StatusBadRequest},
		{"invalid winner", "9", `{"winner_id": 5}`, fmt.Errorf("%w: registration 5", services.ErrInvalidWinner), http.StatusBadRequest},
		{"fixture not found", "9", `{"winner_id": 5}`, fmt.Errorf("%w: id 9", services.ErrFixtureNotFound), http.StatusNotFound},
		{"different winner", "9", `{"winner_id": 5}`, services.ErrWinnerAlreadyRecorded, http.StatusConflict},
		{"tournament closed", "9", `{"winner_id": 5}`, services.ErrTournamentClosed, http.StatusConflict},
		{"invariant", "9", `{"winner_id": 5}`, services.ErrInvariantViolation, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordWinner(t, &stubBracketService{err: tt.err}, tt.fixture, tt.body)
			assert.Equal(t, tt.expected, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{services.ErrBookingNotFound, http.StatusNotFound},
		{services.ErrValidationFailed, http.StatusBadRequest},
		{services.ErrPasswordTooShort, http.StatusBadRequest},
		{services.ErrUserEmailConflict, http.StatusConflict},
		{services.ErrRoundAlreadySeeded, http.StatusConflict},
		{services.ErrCancellationWindowExpired, http.StatusConflict},
		{services.ErrRegistrationNotOpen, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrStorageDisabled, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.expected, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
