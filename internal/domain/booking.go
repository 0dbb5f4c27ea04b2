package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusDeclined  BookingStatus = "declined"
)

// ParseBookingStatus returns the status named by s
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// ReservesSlot returns true while the booking holds its slot
func (s BookingStatus) ReservesSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCompleted
}

// Action is an artist decision on a pending booking
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

// ParseAction returns the action named by s
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	return a, a == ActionAccept || a == ActionDecline
}

// Next returns the status reached by applying a to s.
// Only pending bookings accept artist actions.
func (s BookingStatus) Next(a Action) (BookingStatus, error) {
	if s != StatusPending {
		return s, NewTransitionError(s, string(a))
	}
	switch a {
	case ActionAccept:
		return StatusConfirmed, nil
	case ActionDecline:
		return StatusDeclined, nil
	}
	return s, NewTransitionError(s, string(a))
}

// Booking represents a request to book one artist slot
type Booking struct {
	ID          int64
	ArtistID    string
	ClientName  string
	ClientEmail string
	Date        time.Time // calendar date, UTC midnight
	Time        types.TimeString
	Service     string
	Message     string
	Status      BookingStatus

	// IdempotencyKey is set when the client supplied one on create
	IdempotencyKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateTime returns the literal slot instant (artist wall clock, no zone)
func (b *Booking) DateTime() time.Time {
	dt, err := types.Combine(b.Date, b.Time)
	if err != nil {
		return types.DateOnly(b.Date)
	}
	return dt
}

// IsActive returns true if the booking reserves its slot
func (b *Booking) IsActive() bool {
	return b.Status.ReservesSlot()
}

// Slot returns the slot held (or once held) by the booking
func (b *Booking) Slot() Slot {
	return Slot{ArtistID: b.ArtistID, Date: types.DateOnly(b.Date), Time: b.Time}
}

// CanBeCompleted returns true if the booking is confirmed and its slot has passed.
// wallNow must already be converted to the artist's wall clock.
func (b *Booking) CanBeCompleted(wallNow time.Time) bool {
	return b.Status == StatusConfirmed && b.DateTime().Before(wallNow)
}

// Matches reports whether query occurs in any searchable text field (case-insensitive)
func (b *Booking) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{b.ClientName, b.ClientEmail, b.Service, b.Message} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// BookingDraft is the client-entered data before a booking is created
type BookingDraft struct {
	ArtistID       string
	ClientName     string
	ClientEmail    string
	Date           time.Time
	Time           types.TimeString
	Service        string
	Message        string
	IdempotencyKey *string
}

// BookingFilter selects bookings of one owner: an artist or a client email
type BookingFilter struct {
	ArtistID    string
	ClientEmail string
	Status      *BookingStatus // nil - all statuses
	Query       string         // free-text search, empty - none
}

// StatusCounts is the per-status summary of an owner's bookings
type StatusCounts struct {
	Pending   int
	Confirmed int
	Completed int
	Declined  int
	Total     int
}

// Add counts one booking with the given status
func (c *StatusCounts) Add(s BookingStatus) {
	switch s {
	case StatusPending:
		c.Pending++
	case StatusConfirmed:
		c.Confirmed++
	case StatusCompleted:
		c.Completed++
	case StatusDeclined:
		c.Declined++
	}
	c.Total++
}
