package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID  = "invalid booking id"
	msgMissingArtistID   = "missing artist id"
	msgNotFound          = "booking not found"
	msgForbidden         = "access denied"
	msgIllegalTransition = "only confirmed bookings whose time has passed can be completed"
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

// Handle POST /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("POST /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	artistID, ok := middleware.GetArtistID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingArtistID)
		return
	}

	booking, err := h.service.Complete(r.Context(), &models.CompleteRequest{BookingID: bookingID, ArtistID: artistID})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /bookings/{id}/complete - Access denied: booking_id=%d, artist_id=%s",
				bookingID, artistID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrIllegalTransition):
			handlers.RespondConflict(w, handlers.CodeIllegalTransition, msgIllegalTransition)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("POST /bookings/{id}/complete - Store unavailable: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("POST /bookings/{id}/complete - Failed to complete booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/complete - Booking completed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
