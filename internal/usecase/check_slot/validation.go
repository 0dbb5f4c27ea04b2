package check_slot

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// validateRequest разбирает дату и время, ошибки собираются по полям
func validateRequest(req *Request) (time.Time, types.TimeString, error) {
	verr := domain.NewValidationError()

	if id := strings.TrimSpace(req.ArtistID); id == "" {
		verr.Add("artistId", "artist id is required")
	} else if len(id) > domain.MaxArtistIDLength {
		verr.Add("artistId", "artist id is too long")
	}

	date, err := types.ParseDate(req.Date)
	if err != nil {
		verr.Add("date", "date must be in YYYY-MM-DD format")
	}

	at, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		verr.Add("time", "time must be in HH:MM format")
	}

	return date, at, verr.ErrOrNil()
}
