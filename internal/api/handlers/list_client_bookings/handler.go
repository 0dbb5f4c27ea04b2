package list_client_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/bookings/models"
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

// Handle GET /api/v1/bookings?email=&status=&q=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := h.service.ListBookings(r.Context(), &models.ListBookingsRequest{
		ClientEmail: query.Get("email"),
		Status:      query.Get("status"),
		Query:       query.Get("q"),
	})
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("GET /bookings - Store unavailable: error=%v", err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
