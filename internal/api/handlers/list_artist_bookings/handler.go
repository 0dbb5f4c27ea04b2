package list_artist_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/bookings/models"
)

const (
	msgMissingArtistID = "missing artist id"
	msgForbidden       = "access denied"
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

// Handle GET /api/v1/artists/{artistId}/bookings
// Query params: status (pending|confirmed|completed|declined|all), q (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["artistId"]

	// Получаем вызывающего артиста из контекста (через middleware ArtistAuth)
	callerID, ok := middleware.GetArtistID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingArtistID)
		return
	}

	query := r.URL.Query()
	result, err := h.service.ListBookings(r.Context(), &models.ListBookingsRequest{
		ArtistID: artistID,
		CallerID: callerID,
		Status:   query.Get("status"),
		Query:    query.Get("q"),
	})
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /artists/{id}/bookings - Access denied: artist_id=%s, caller_id=%s", artistID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("GET /artists/{id}/bookings - Store unavailable: artist_id=%s, error=%v", artistID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("GET /artists/{id}/bookings - Failed to list bookings: artist_id=%s, error=%v", artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /artists/{id}/bookings - Bookings retrieved: artist_id=%s, count=%d",
		artistID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
