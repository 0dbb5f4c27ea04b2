package get_calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ArtistBooking/internal/calendar"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-ArtistBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

type Handler struct {
	useCase CalendarUseCase
	logger  Logger
}

func NewHandler(useCase CalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/artists/{artistId}/calendar?view=month|week|day&date=YYYY-MM-DD
// Без date календарь строится вокруг текущей даты в часовом поясе бронирований.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["artistId"]
	query := r.URL.Query()

	verr := domain.NewValidationError()

	view, err := calendar.ParseView(query.Get("view"))
	if err != nil {
		verr.Add("view", "view must be one of month, week, day")
	}

	var anchor time.Time
	if raw := query.Get("date"); raw != "" {
		if anchor, err = types.ParseDate(raw); err != nil {
			verr.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	if verr.HasErrors() {
		h.logger.Warn("GET /artists/{id}/calendar - Invalid query: artist_id=%s, %v", artistID, verr)
		handlers.RespondValidationError(w, verr)
		return
	}

	result, err := h.useCase.Calendar(r.Context(), &getAvailability.CalendarRequest{
		ArtistID: artistID,
		View:     view,
		Anchor:   anchor,
	})
	if err != nil {
		if verr, ok := handlers.AsValidationError(err); ok {
			handlers.RespondValidationError(w, verr)
			return
		}

		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("GET /artists/{id}/calendar - Store unavailable: artist_id=%s, error=%v", artistID, err)
			handlers.RespondStoreUnavailable(w)

		default:
			h.logger.Error("GET /artists/{id}/calendar - Failed to build calendar: artist_id=%s, error=%v",
				artistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
