package handlers

import (
	"net/http"

	"github.com/infinity-hospitality/event-system/middleware"
	"github.com/infinity-hospitality/event-system/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// RegisterHandler godoc
// @Summary Sign a team or a player up for a tournament
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.RegistrationInput true "Registration"
// @Success 201 {object} map[string]models.Registration
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/registrations [post]
func (h *RegistrationHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to register")
		return
	}

	var input services.RegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.Register(r.Context(), userID, tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": reg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List registrations visible to the caller
// @Description Anonymous callers see winners, users see their own, admins see everything.
// @Tags registrations
// @Produce json
// @Param tournament_id query int false "Tournament ID"
// @Param deleted query bool false "Withdrawn registrations (admin only)"
// @Success 200 {object} map[string][]models.Registration
// @Router /registrations [get]
func (h *RegistrationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := queryInt(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	deleted, err := queryBool(r, "deleted")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	regs, err := h.registrationService.ListRegistrations(r.Context(), viewerFromRequest(r),
		services.ListRegistrationsInput{TournamentID: tournamentID, Deleted: deleted})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"registrations": regs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler godoc
// @Summary Registration details
// @Tags registrations
// @Produce json
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} map[string]models.Registration
// @Router /registrations/{registrationID} [get]
func (h *RegistrationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.GetRegistration(r.Context(), viewerFromRequest(r), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"registration": reg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// WithdrawHandler godoc
// @Summary Withdraw a registration
// @Tags registrations
// @Security BearerAuth
// @Param registrationID path int true "Registration ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Router /registrations/{registrationID} [delete]
func (h *RegistrationHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.WithdrawRegistration(r.Context(), viewerFromRequest(r), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
