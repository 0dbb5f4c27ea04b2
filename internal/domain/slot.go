package domain

import (
	"time"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// Slot is a single bookable (date, time-of-day) pair for one artist
type Slot struct {
	ArtistID string
	Date     time.Time
	Time     types.TimeString
}

// Key identifies the slot in maps and logs
func (s Slot) Key() string {
	return s.ArtistID + "|" + types.DateKey(s.Date) + "|" + s.Time.String()
}
