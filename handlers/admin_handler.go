package handlers

import (
	"net/http"

	"github.com/infinity-hospitality/event-system/services"
)

type AdminHandler struct {
	recycleBin services.RecycleBinService
}

func NewAdminHandler(rb services.RecycleBinService) *AdminHandler {
	return &AdminHandler{recycleBin: rb}
}

type restoreRequest struct {
	Type string `json:"type"`
}

// RestoreHandler godoc
// @Summary Restore an item from the recycle bin
// @Description A cancelled booking goes back to Pending.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemID path int true "Item ID"
// @Param input body restoreRequest true "Item type: wedding, booking, tournament, sports-registration or job"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/restore/{itemID} [post]
func (h *AdminHandler) RestoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "itemID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input restoreRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	kind, err := services.ParseRestoreKind(input.Type)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := h.recycleBin.Restore(r.Context(), kind, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "item restored", "type": kind}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
