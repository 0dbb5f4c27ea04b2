package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingArtistID    = "missing artist id"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgIllegalTransition  = "booking is no longer pending"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	artistID, ok := middleware.GetArtistID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingArtistID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Transition(r.Context(), req.ToServiceRequest(bookingID, artistID))
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%d, artist_id=%s",
				bookingID, artistID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrIllegalTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Illegal transition: booking_id=%d, %v", bookingID, err)
			handlers.RespondConflict(w, handlers.CodeIllegalTransition, msgIllegalTransition)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("PATCH /bookings/{id}/status - Store unavailable: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Booking updated: booking_id=%d, status=%s", bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
