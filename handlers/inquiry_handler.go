package handlers

import (
	"net/http"

	"github.com/infinity-hospitality/event-system/services"
)

type InquiryHandler struct {
	inquiryService services.InquiryService
}

func NewInquiryHandler(is services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: is}
}

// SubmitHandler godoc
// @Summary Send a custom event inquiry
// @Tags inquiries
// @Accept json
// @Produce json
// @Param input body services.InquiryInput true "Inquiry"
// @Success 202 {object} map[string]string
// @Router /inquiries [post]
func (h *InquiryHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var input services.InquiryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.inquiryService.Submit(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "inquiry received"}
	if err := writeJSON(w, http.StatusAccepted, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
