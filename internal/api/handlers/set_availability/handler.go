package set_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingArtistID    = "missing artist id"
	msgForbidden          = "only the artist can change their availability"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/artists/{artistId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["artistId"]

	// Получаем вызывающего артиста из контекста (через middleware ArtistAuth)
	callerID, ok := middleware.GetArtistID(r.Context())
	if !ok {
		h.logger.Warn("PUT /artists/{id}/availability - Missing artist ID")
		handlers.RespondUnauthorized(w, msgMissingArtistID)
		return
	}

	var req SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /artists/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetAvailability(r.Context(), req.ToServiceRequest(artistID, callerID))
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			h.logger.Warn("PUT /artists/{id}/availability - Validation failed: artist_id=%s, %v", artistID, err)
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PUT /artists/{id}/availability - Forbidden: artist_id=%s, caller_id=%s", artistID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("PUT /artists/{id}/availability - Store unavailable: artist_id=%s, error=%v", artistID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("PUT /artists/{id}/availability - Failed to set availability: artist_id=%s, error=%v",
				artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /artists/{id}/availability - Availability updated: artist_id=%s, days=%d",
		artistID, len(result.UpdatedDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
