// Package handler is the thinnest possible demonstration of the
// operation surface in spec.md §6. Transport is explicitly out of
// scope (spec.md §1); this exists only so the core is reachable over
// the same bare net/http.ServeMux the teacher wires in cmd/api, not as
// a real HTTP API surface.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/srgjo27/scalable_ticket/internal/core/failure"
	"github.com/srgjo27/scalable_ticket/internal/core/services"
)

type BookingHandler struct {
	svc *services.BookingService
}

func NewBookingHandler(svc *services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingRequest struct {
	UserID          string   `json:"user_id"`
	EventID         string   `json:"event_id"`
	SeatIDs         []string `json:"seat_ids"`
	LockIDs         []string `json:"lock_ids"`
	PaymentIntentID string   `json:"payment_intent_id,omitempty"`
}

type failureResponse struct {
	Success       bool   `json:"success"`
	FailureReason string `json:"failure_reason"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, failure.InvalidRequest)
		return
	}

	userID, err1 := uuid.Parse(req.UserID)
	eventID, err2 := uuid.Parse(req.EventID)
	seatIDs, err3 := parseUUIDs(req.SeatIDs)
	if err1 != nil || err2 != nil || err3 != nil {
		writeFailure(w, http.StatusBadRequest, failure.InvalidRequest)
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), services.CreateBookingRequest{
		UserID:          userID,
		EventID:         eventID,
		SeatIDs:         seatIDs,
		LockIDs:         req.LockIDs,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		writeFailure(w, statusFor(failure.ReasonOf(err)), failure.ReasonOf(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "booking": booking})
}

func (h *BookingHandler) GetAvailableSeats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	eventID, err := uuid.Parse(r.URL.Query().Get("event_id"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, failure.InvalidRequest)
		return
	}

	seats, err := h.svc.ListAvailableSeats(r.Context(), eventID)
	if err != nil {
		writeFailure(w, statusFor(failure.ReasonOf(err)), failure.ReasonOf(err))
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"seats": seats})
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func writeFailure(w http.ResponseWriter, status int, reason failure.Reason) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failureResponse{Success: false, FailureReason: string(reason)})
}

func statusFor(reason failure.Reason) int {
	switch reason {
	case failure.InvalidRequest, failure.InvalidLocks:
		return http.StatusBadRequest
	case failure.EventNotFound, failure.BookingNotFound:
		return http.StatusNotFound
	case failure.SalesClosed, failure.SeatsNotAvailable, failure.AlreadyCancelled, failure.InvalidStatus:
		return http.StatusConflict
	case failure.SeatsNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
