package domain

import "github.com/m04kA/SMC-ArtistBooking/pkg/types"

// Default configuration values
const (
	DefaultMaxRangeDays = 92
	DefaultTimezone     = "UTC"
)

// Business validation constants
const (
	MinClientNameLength = 2
	MaxClientNameLength = 200
	MinMessageLength    = 10
	MaxMessageLength    = 2000
	MaxServiceLength    = 200
	MaxArtistIDLength   = 64
)

// Time format constants
const (
	TimeFormat     = "15:04"               // HH:MM
	DateFormat     = "2006-01-02"          // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04:05" // literal slot instant, no offset
)

// DefaultSlotTokens nine hourly slots 09:00-17:00
var DefaultSlotTokens = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00",
}

// DefaultSlots returns DefaultSlotTokens as TimeStrings
func DefaultSlots() []types.TimeString {
	slots := make([]types.TimeString, len(DefaultSlotTokens))
	for i, s := range DefaultSlotTokens {
		slots[i] = types.TimeString(s)
	}
	return slots
}

// ActiveStatuses statuses that reserve a slot.
// Used by the booked-slot index and the partial unique index.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses every booking status in lifecycle order
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusDeclined,
}
