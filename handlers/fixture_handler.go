package handlers

import (
	"errors"
	"net/http"

	"github.com/infinity-hospitality/event-system/services"
)

type FixtureHandler struct {
	bracketService services.BracketService
}

func NewFixtureHandler(bs services.BracketService) *FixtureHandler {
	return &FixtureHandler{bracketService: bs}
}

type recordWinnerRequest struct {
	WinnerID int `json:"winner_id"`
}

// RecordWinnerHandler godoc
// @Summary Record the winner of a fixture
// @Description Eliminates the loser and completes the tournament when one registration is left. Repeating the same winner is a no-op.
// @Tags bracket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fixtureID path int true "Fixture ID"
// @Param input body recordWinnerRequest true "Winner"
// @Success 200 {object} services.RecordWinnerResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /fixtures/{fixtureID}/winner [patch]
func (h *FixtureHandler) RecordWinnerHandler(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordWinnerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	result, err := h.bracketService.RecordFixtureWinner(r.Context(), fixtureID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
