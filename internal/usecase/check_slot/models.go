package check_slot

import (
	"time"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// Reason причина результата проверки
type Reason string

const (
	ReasonAvailable Reason = "available"
	ReasonPast      Reason = "past"
	ReasonNotOpen   Reason = "not_open"
	ReasonBooked    Reason = "booked"
)

// Request проверка одного слота
type Request struct {
	ArtistID string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM
}

// Response результат проверки
type Response struct {
	ArtistID  string
	Date      time.Time
	Time      types.TimeString
	Available bool
	Reason    Reason
}
