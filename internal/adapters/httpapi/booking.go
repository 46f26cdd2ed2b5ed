package httpapi

import (
	"net/http"

	"affordhostel/pkg/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings := h.svc.ListBookings()
	if student := r.URL.Query().Get("student"); student != "" {
		bookings = h.svc.BookingsForStudent(student)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	booking, res, err := h.svc.CreateBooking(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"booking": booking, "violations": res.Violations})
}

func (h *Handler) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.BookingStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	booking, _, err := h.svc.UpdateBookingStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (h *Handler) buildReceipt(w http.ResponseWriter, r *http.Request) {
	var req domain.ReceiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, err := h.svc.BuildReceipt(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"receipt": receipt})
}
