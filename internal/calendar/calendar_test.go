package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slots(tokens ...string) []types.TimeString {
	out := make([]types.TimeString, len(tokens))
	for i, t := range tokens {
		out[i] = types.TimeString(t)
	}
	return out
}

// subsets возвращает все подмножества universe
func subsets(universe []types.TimeString) [][]types.TimeString {
	result := make([][]types.TimeString, 0, 1<<len(universe))
	for mask := 0; mask < 1<<len(universe); mask++ {
		var set []types.TimeString
		for i, s := range universe {
			if mask&(1<<i) != 0 {
				set = append(set, s)
			}
		}
		result = append(result, set)
	}
	return result
}

func TestDayStatus_Exhaustive(t *testing.T) {
	universe := slots("09:00", "10:00", "11:00", "12:00")
	asOf := date(2025, 7, 10)
	future := date(2025, 7, 15)

	for _, open := range subsets(universe) {
		for _, booked := range subsets(universe) {
			status, available := DayStatus(future, open, booked, asOf)

			expected := 0
			for _, s := range open {
				taken := false
				for _, b := range booked {
					if b == s {
						taken = true
					}
				}
				if !taken {
					expected++
				}
			}

			assert.Equal(t, expected, available)
			assert.Equal(t, available == 0, status == StatusFullyBooked, "open=%v booked=%v", open, booked)
			assert.Equal(t, available == len(open) && len(open) > 0, status == StatusAvailable, "open=%v booked=%v", open, booked)
			assert.Equal(t, available > 0 && available < len(open), status == StatusPartiallyBooked, "open=%v booked=%v", open, booked)

			pastStatus, _ := DayStatus(date(2025, 7, 9), open, booked, asOf)
			assert.Equal(t, StatusPast, pastStatus)
		}
	}
}

func TestBuild_MonthGrid(t *testing.T) {
	cells, err := Build(Input{
		DefaultSlots: slots("09:00", "10:00"),
		AsOf:         date(2025, 7, 10),
		Anchor:       date(2025, 7, 15),
	}, ViewMonth)
	require.NoError(t, err)

	// Июль 2025 начинается во вторник, сетка с понедельника 30 июня по воскресенье 3 августа
	require.Len(t, cells, 35)
	assert.Equal(t, date(2025, 6, 30), cells[0].Date)
	assert.False(t, cells[0].InMonth)
	assert.Equal(t, date(2025, 7, 1), cells[1].Date)
	assert.True(t, cells[1].InMonth)
	assert.Equal(t, date(2025, 8, 3), cells[34].Date)
	assert.False(t, cells[34].InMonth)

	assert.Equal(t, StatusPast, cells[9].Status) // 9 июля
	assert.Equal(t, StatusAvailable, cells[10].Status)
	assert.True(t, cells[10].Selectable())
	assert.False(t, cells[9].Selectable())
}

func TestBuild_WeekAndDay(t *testing.T) {
	in := Input{
		DefaultSlots: slots("09:00"),
		AsOf:         date(2025, 7, 1),
		Anchor:       date(2025, 7, 15),
	}

	week, err := Build(in, ViewWeek)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, date(2025, 7, 14), week[0].Date)
	assert.Equal(t, date(2025, 7, 20), week[6].Date)

	day, err := Build(in, ViewDay)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, date(2025, 7, 15), day[0].Date)

	_, err = Build(in, View("year"))
	assert.Error(t, err)
}

func TestBuild_HappyPathScenario(t *testing.T) {
	cells, err := Build(Input{
		OpenSlotsByDate:   map[string][]types.TimeString{"2025-07-15": slots("09:00", "10:00")},
		BookedSlotsByDate: map[string][]types.TimeString{"2025-07-15": slots("10:00")},
		DefaultSlots:      slots("09:00", "10:00", "11:00"),
		AsOf:              date(2025, 7, 1),
		Anchor:            date(2025, 7, 15),
	}, ViewDay)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	cell := cells[0]
	assert.Equal(t, StatusPartiallyBooked, cell.Status)
	assert.Equal(t, 1, cell.AvailableCount)
	assert.Equal(t, 2, cell.TotalCount)
	assert.Equal(t, slots("09:00"), cell.FreeSlots())
	assert.Equal(t, []SlotCell{{Time: "09:00", State: SlotFree}, {Time: "10:00", State: SlotBooked}}, cell.Slots)
}

func TestBuild_ClosedDay(t *testing.T) {
	cells, err := Build(Input{
		OpenSlotsByDate: map[string][]types.TimeString{"2025-07-15": {}},
		DefaultSlots:    slots("09:00"),
		AsOf:            date(2025, 7, 1),
		Anchor:          date(2025, 7, 15),
	}, ViewDay)
	require.NoError(t, err)

	assert.True(t, cells[0].Closed)
	assert.Equal(t, StatusFullyBooked, cells[0].Status)
	assert.False(t, cells[0].Selectable())
}

func TestBuild_Idempotent(t *testing.T) {
	in := Input{
		OpenSlotsByDate:   map[string][]types.TimeString{"2025-07-15": slots("11:00", "09:00", "10:00")},
		BookedSlotsByDate: map[string][]types.TimeString{"2025-07-15": slots("10:00", "15:00")},
		DefaultSlots:      slots("09:00", "10:00"),
		AsOf:              date(2025, 7, 12),
		Anchor:            date(2025, 7, 15),
	}

	first, err := Build(in, ViewMonth)
	require.NoError(t, err)
	second, err := Build(in, ViewMonth)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, slots("11:00", "09:00", "10:00"), in.OpenSlotsByDate["2025-07-15"])
}

func TestFreeSlots(t *testing.T) {
	free := FreeSlots(slots("14:00", "09:00", "10:00", "09:00"), slots("10:00", "18:00"))
	assert.Equal(t, slots("09:00", "14:00"), free)
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewMonth, v)

	v, err = ParseView("week")
	require.NoError(t, err)
	assert.Equal(t, ViewWeek, v)

	_, err = ParseView("fortnight")
	assert.Error(t, err)
}
