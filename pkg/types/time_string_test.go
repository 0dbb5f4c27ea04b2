package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "9:00", want: "09:00"},
		{in: "17:30:00", want: "17:30"},
		{in: "24:00", wantErr: true},
		{in: "nine", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.Equal(t, 0, TimeString("12:00").Compare("12:00"))
	assert.Equal(t, -1, TimeString("bad").Compare("00:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("11:00")))
	assert.Equal(t, TimeString("11:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:00"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestCombineAndWallClock(t *testing.T) {
	date := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	got, err := Combine(date, "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC), got)

	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 7, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 15, 11, 0, 0, 0, time.UTC), WallClock(now, loc))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	days := DaysBetween(start, end)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-03-01", DateKey(days[2]))

	assert.Empty(t, DaysBetween(end, start))
}
