package handlers

import (
	"net/http"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/services"
)

type JobHandler struct {
	jobService services.JobApplicationService
}

func NewJobHandler(js services.JobApplicationService) *JobHandler {
	return &JobHandler{jobService: js}
}

// ApplyHandler godoc
// @Summary Apply for a staff position
// @Tags jobs
// @Accept json
// @Produce json
// @Param input body services.JobApplicationInput true "Application"
// @Success 201 {object} map[string]models.JobApplication
// @Router /jobs/applications [post]
func (h *JobHandler) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	var input services.JobApplicationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.jobService.Apply(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List job applications
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param position query string false "Position"
// @Param deleted query bool false "Recycle bin"
// @Success 200 {object} map[string][]models.JobApplication
// @Router /jobs/applications [get]
func (h *JobHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var position *string
	if p := r.URL.Query().Get("position"); p != "" {
		position = &p
	}
	deleted, err := queryBool(r, "deleted")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	apps, err := h.jobService.ListApplications(r.Context(), position, deleted)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatusHandler godoc
// @Summary Move an application through hiring
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationID path int true "Application ID"
// @Param input body object{status=string} true "Applied, Interviewing or Hired"
// @Success 200 {object} map[string]models.JobApplication
// @Router /jobs/applications/{applicationID}/status [patch]
func (h *JobHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.JobApplicationStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.jobService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler godoc
// @Summary Move an application to the recycle bin
// @Tags jobs
// @Security BearerAuth
// @Param applicationID path int true "Application ID"
// @Success 204
// @Router /jobs/applications/{applicationID} [delete]
func (h *JobHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.jobService.DeleteApplication(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
