package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/bookings/models"
)

const (
	// HeaderIdempotencyKey необязательный ключ повтора запроса
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderReplayed выставляется, когда ответ - ранее созданное бронирование
	HeaderReplayed = "Idempotent-Replayed"

	msgInvalidRequestBody = "invalid request body"
	msgSlotConflict       = "the selected time slot is no longer available"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(r.Header.Get(HeaderIdempotencyKey)))
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			h.logger.Warn("POST /bookings - Validation failed: artist_id=%s, %v", req.ArtistID, err)
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: artist_id=%s, date=%s, time=%s",
				req.ArtistID, req.Date, req.Time)
			handlers.RespondConflict(w, handlers.CodeSlotConflict, msgSlotConflict)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Store unavailable: artist_id=%s, error=%v", req.ArtistID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: artist_id=%s, error=%v", req.ArtistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := models.FromDomainBooking(result.Booking)

	if result.Replayed {
		w.Header().Set(HeaderReplayed, "true")
		handlers.RespondJSON(w, http.StatusOK, response)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, artist_id=%s",
		result.Booking.ID, result.Booking.ArtistID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
