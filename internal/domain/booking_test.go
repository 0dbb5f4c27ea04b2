package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

func TestBookingStatus_Next(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		action  Action
		want    BookingStatus
		wantErr bool
	}{
		{"pending accept", StatusPending, ActionAccept, StatusConfirmed, false},
		{"pending decline", StatusPending, ActionDecline, StatusDeclined, false},
		{"pending unknown action", StatusPending, Action("complete"), StatusPending, true},
		{"confirmed accept", StatusConfirmed, ActionAccept, StatusConfirmed, true},
		{"confirmed decline", StatusConfirmed, ActionDecline, StatusConfirmed, true},
		{"declined accept", StatusDeclined, ActionAccept, StatusDeclined, true},
		{"declined decline", StatusDeclined, ActionDecline, StatusDeclined, true},
		{"completed accept", StatusCompleted, ActionAccept, StatusCompleted, true},
		{"completed decline", StatusCompleted, ActionDecline, StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Next(tt.action)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrIllegalTransition))
				var te *TransitionError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, tt.from, te.From)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBookingStatus_Predicates(t *testing.T) {
	assert.True(t, StatusPending.ReservesSlot())
	assert.True(t, StatusConfirmed.ReservesSlot())
	assert.False(t, StatusDeclined.ReservesSlot())
	assert.False(t, StatusCompleted.ReservesSlot())

	assert.True(t, StatusDeclined.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())

	status, ok := ParseBookingStatus(" Confirmed ")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	_, ok = ParseBookingStatus("cancelled")
	assert.False(t, ok)
}

func TestBooking_CanBeCompleted(t *testing.T) {
	b := &Booking{
		Date:   time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Time:   types.MustTimeString("14:00"),
		Status: StatusConfirmed,
	}

	assert.False(t, b.CanBeCompleted(time.Date(2025, 7, 15, 13, 59, 0, 0, time.UTC)))
	assert.False(t, b.CanBeCompleted(time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)))
	assert.True(t, b.CanBeCompleted(time.Date(2025, 7, 15, 14, 1, 0, 0, time.UTC)))

	b.Status = StatusPending
	assert.False(t, b.CanBeCompleted(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBooking_Matches(t *testing.T) {
	b := &Booking{
		ClientName:  "Alice Moreau",
		ClientEmail: "alice@example.com",
		Service:     "Portrait commission",
		Message:     "Looking for a large oil portrait",
	}

	assert.True(t, b.Matches(""))
	assert.True(t, b.Matches("  "))
	assert.True(t, b.Matches("MOREAU"))
	assert.True(t, b.Matches("example.com"))
	assert.True(t, b.Matches("commission"))
	assert.True(t, b.Matches("oil"))
	assert.False(t, b.Matches("sculpture"))
}

func TestStatusCounts_Add(t *testing.T) {
	var c StatusCounts
	for _, s := range []BookingStatus{StatusPending, StatusPending, StatusConfirmed, StatusDeclined} {
		c.Add(s)
	}

	assert.Equal(t, StatusCounts{Pending: 2, Confirmed: 1, Declined: 1, Total: 4}, c)
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.ErrOrNil())

	verr.Add("message", "too short")
	verr.Add("clientEmail", "invalid email")
	verr.Add("message", "ignored")

	err := verr.ErrOrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "too short", verr.Fields["message"])
	assert.Equal(t, "validation failed: clientEmail: invalid email; message: too short", err.Error())
}
