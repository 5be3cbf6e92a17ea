package handlers

import (
	"net/http"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/services"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// CreateHandler godoc
// @Summary Request a custom event
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.BookingInput true "Booking"
// @Success 201 {object} map[string]models.Booking
// @Router /bookings [post]
func (h *BookingHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFromRequest(r)
	if viewer.IsAnonymous() {
		unauthorizedResponse(w, r, "authentication required to book an event")
		return
	}

	var input services.BookingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), viewer.UserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"booking": booking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List bookings
// @Description Users see their own bookings. Admins see all of them and may open the recycle bin.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param recycle_bin query bool false "Cancelled and deleted bookings"
// @Success 200 {object} map[string][]models.Booking
// @Router /bookings [get]
func (h *BookingHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	recycleBin, err := queryBool(r, "recycle_bin")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bookings, err := h.bookingService.ListBookings(r.Context(), viewerFromRequest(r), recycleBin)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bookings": bookings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatusHandler godoc
// @Summary Approve or reject a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookingID path int true "Booking ID"
// @Param input body object{status=string} true "Approved or Rejected"
// @Success 200 {object} map[string]models.Booking
// @Router /bookings/{bookingID}/status [patch]
func (h *BookingHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "bookingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"booking": booking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelHandler godoc
// @Summary Cancel an own booking within 24 hours
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingID path int true "Booking ID"
// @Success 200 {object} map[string]models.Booking
// @Failure 409 {object} map[string]string
// @Router /bookings/{bookingID}/cancel [post]
func (h *BookingHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "bookingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.CancelBooking(r.Context(), viewerFromRequest(r), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"booking": booking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
