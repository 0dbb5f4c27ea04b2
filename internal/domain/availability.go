package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// DayStatus is the artist's setting for a calendar date
type DayStatus string

const (
	DayAvailable   DayStatus = "available"
	DayUnavailable DayStatus = "unavailable"
)

// IsValid reports whether s is a known day status
func (s DayStatus) IsValid() bool {
	return s == DayAvailable || s == DayUnavailable
}

// AvailabilityDay is an explicit artist setting for one date.
// Dates without a row fall back to the default template.
type AvailabilityDay struct {
	ArtistID  string
	Date      time.Time
	Status    DayStatus
	OpenSlots []types.TimeString // empty with DayAvailable - default template
	UpdatedAt time.Time
}

// Slots returns the open slots of the day given the default template
func (d *AvailabilityDay) Slots(defaults []types.TimeString) []types.TimeString {
	if d == nil {
		return cloneSlots(defaults)
	}
	if d.Status == DayUnavailable {
		return []types.TimeString{}
	}
	if len(d.OpenSlots) == 0 {
		return cloneSlots(defaults)
	}
	return cloneSlots(d.OpenSlots)
}

// DayUpdate is one entry of a SetAvailability request
type DayUpdate struct {
	Status DayStatus
	Slots  []types.TimeString // optional, only for DayAvailable
}

// Availability is the read model of an artist calendar over a date range.
// Maps are keyed by YYYY-MM-DD and contain every date of the range.
type Availability struct {
	ArtistID          string
	Start             time.Time
	End               time.Time
	OpenSlotsByDate   map[string][]types.TimeString
	BookedSlotsByDate map[string][]types.TimeString
	// Degraded is set when the data is the default template rather than the store
	Degraded bool
}

// DefaultAvailability fills every date in [start, end] with the default template and no bookings
func DefaultAvailability(artistID string, start, end time.Time, defaults []types.TimeString) *Availability {
	a := &Availability{
		ArtistID:          artistID,
		Start:             types.DateOnly(start),
		End:               types.DateOnly(end),
		OpenSlotsByDate:   make(map[string][]types.TimeString),
		BookedSlotsByDate: make(map[string][]types.TimeString),
	}
	for _, day := range types.DaysBetween(start, end) {
		key := types.DateKey(day)
		a.OpenSlotsByDate[key] = cloneSlots(defaults)
		a.BookedSlotsByDate[key] = []types.TimeString{}
	}
	return a
}

// NormalizeSlots validates HH:MM tokens, removes duplicates and sorts them
func NormalizeSlots(slots []types.TimeString) ([]types.TimeString, error) {
	seen := make(map[types.TimeString]struct{}, len(slots))
	result := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("slot %q: %w", s.String(), err)
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	SortSlots(result)
	return result, nil
}

// SortSlots orders slot tokens by time of day
func SortSlots(slots []types.TimeString) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].IsBefore(slots[j]) })
}

// ContainsSlot reports whether t is one of slots
func ContainsSlot(slots []types.TimeString, t types.TimeString) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

func cloneSlots(slots []types.TimeString) []types.TimeString {
	out := make([]types.TimeString, len(slots))
	copy(out, slots)
	return out
}
