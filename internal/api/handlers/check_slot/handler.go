package check_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	checkSlot "github.com/m04kA/SMC-ArtistBooking/internal/usecase/check_slot"
)

type Handler struct {
	useCase CheckSlotUseCase
	logger  Logger
}

func NewHandler(useCase CheckSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/artists/{artistId}/slots/check?date=YYYY-MM-DD&time=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["artistId"]
	query := r.URL.Query()

	result, err := h.useCase.Execute(r.Context(), &checkSlot.Request{
		ArtistID: artistID,
		Date:     query.Get("date"),
		Time:     query.Get("time"),
	})
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			h.logger.Warn("GET /artists/{id}/slots/check - Validation failed: artist_id=%s, %v", artistID, err)
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("GET /artists/{id}/slots/check - Store unavailable: artist_id=%s, error=%v", artistID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("GET /artists/{id}/slots/check - Failed to check slot: artist_id=%s, error=%v", artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
