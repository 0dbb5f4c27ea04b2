package get_availability

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// validateRequest валидирует период и артиста, ошибки собираются по полям
func validateRequest(req *Request, maxRangeDays int) error {
	verr := domain.NewValidationError()

	validateArtistID(verr, req.ArtistID)

	if req.Start.IsZero() {
		verr.Add("start", "start date is required")
	}
	if req.End.IsZero() {
		verr.Add("end", "end date is required")
	}

	if !req.Start.IsZero() && !req.End.IsZero() {
		if req.End.Before(req.Start) {
			verr.Add("end", "end must not be before start")
		} else if days := int(req.End.Sub(req.Start).Hours()/24) + 1; days > maxRangeDays {
			verr.Add("end", fmt.Sprintf("range must not exceed %d days", maxRangeDays))
		}
	}

	return verr.ErrOrNil()
}

func validateArtistID(verr *domain.ValidationError, artistID string) {
	id := strings.TrimSpace(artistID)
	if id == "" {
		verr.Add("artistId", "artist id is required")
		return
	}
	if len(id) > domain.MaxArtistIDLength {
		verr.Add("artistId", fmt.Sprintf("artist id must be at most %d characters", domain.MaxArtistIDLength))
	}
}
