package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-ArtistBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/artists/{artistId}/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["artistId"]
	query := r.URL.Query()

	// Ошибки разбора дат собираются вместе с остальными ошибками полей
	verr := domain.NewValidationError()
	start := parseDateParam(verr, "start", query.Get("start"))
	end := parseDateParam(verr, "end", query.Get("end"))
	if verr.HasErrors() {
		h.logger.Warn("GET /artists/{id}/availability - Invalid query: artist_id=%s, %v", artistID, verr)
		handlers.RespondValidationError(w, verr)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ArtistID: artistID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			h.logger.Warn("GET /artists/{id}/availability - Validation failed: artist_id=%s, %v", artistID, err)
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("GET /artists/{id}/availability - Store unavailable: artist_id=%s, error=%v", artistID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("GET /artists/{id}/availability - Failed to get availability: artist_id=%s, error=%v",
				artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}

func parseDateParam(verr *domain.ValidationError, field, value string) time.Time {
	if value == "" {
		verr.Add(field, field+" is required")
		return time.Time{}
	}
	date, err := types.ParseDate(value)
	if err != nil {
		verr.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}
	}
	return date
}
