package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// View гранулярность календаря
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView возвращает вид по строке, пустая строка - месяц
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewMonth:
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("calendar: unknown view %q", s)
}

// Status статус ячейки календаря
type Status string

const (
	StatusPast            Status = "past"
	StatusFullyBooked     Status = "fully-booked"
	StatusPartiallyBooked Status = "partially-booked"
	StatusAvailable       Status = "available"
)

// SlotState состояние отдельного слота внутри дня
type SlotState string

const (
	SlotFree   SlotState = "free"
	SlotBooked SlotState = "booked"
)

// SlotCell слот дня с его состоянием
type SlotCell struct {
	Time  types.TimeString
	State SlotState
}

// Input данные для построения календаря.
// Ключи карт - даты YYYY-MM-DD. Отсутствующая в OpenSlotsByDate дата получает DefaultSlots,
// присутствующая с пустым списком считается закрытой.
type Input struct {
	OpenSlotsByDate   map[string][]types.TimeString
	BookedSlotsByDate map[string][]types.TimeString
	DefaultSlots      []types.TimeString
	AsOf              time.Time // текущая дата (по настенным часам артиста)
	Anchor            time.Time // дата, вокруг которой строится вид
}

// Cell ячейка календаря
type Cell struct {
	Date           time.Time
	InMonth        bool // false для дней соседних месяцев в сетке месяца
	Status         Status
	Closed         bool // у дня нет открытых слотов
	AvailableCount int
	TotalCount     int
	Slots          []SlotCell
}

// Selectable можно ли выбрать день для бронирования
func (c Cell) Selectable() bool {
	return c.Status == StatusAvailable || c.Status == StatusPartiallyBooked
}

// FreeSlots свободные слоты ячейки по порядку
func (c Cell) FreeSlots() []types.TimeString {
	free := make([]types.TimeString, 0, c.AvailableCount)
	for _, s := range c.Slots {
		if s.State == SlotFree {
			free = append(free, s.Time)
		}
	}
	return free
}

// Range возвращает первую и последнюю дату, которые покрывает вид
func Range(anchor time.Time, view View) (time.Time, time.Time) {
	anchor = types.DateOnly(anchor)

	switch view {
	case ViewDay:
		return anchor, anchor
	case ViewWeek:
		start := startOfWeek(anchor)
		return start, start.AddDate(0, 0, 6)
	default:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return startOfWeek(first), startOfWeek(last).AddDate(0, 0, 6)
	}
}

// Build строит ячейки календаря. Функция чистая: одинаковый вход дает одинаковый выход.
func Build(in Input, view View) ([]Cell, error) {
	if view != ViewMonth && view != ViewWeek && view != ViewDay {
		return nil, fmt.Errorf("calendar: unknown view %q", view)
	}

	anchor := types.DateOnly(in.Anchor)
	asOf := types.DateOnly(in.AsOf)
	start, end := Range(anchor, view)

	days := types.DaysBetween(start, end)
	cells := make([]Cell, 0, len(days))
	for _, day := range days {
		key := types.DateKey(day)

		open, ok := in.OpenSlotsByDate[key]
		if !ok {
			open = in.DefaultSlots
		}

		cell := buildCell(day, open, in.BookedSlotsByDate[key], asOf)
		cell.InMonth = view != ViewMonth || day.Month() == anchor.Month()
		cells = append(cells, cell)
	}

	return cells, nil
}

// DayStatus вычисляет статус дня и количество свободных слотов
func DayStatus(date time.Time, open, booked []types.TimeString, asOf time.Time) (Status, int) {
	cell := buildCell(types.DateOnly(date), open, booked, types.DateOnly(asOf))
	return cell.Status, cell.AvailableCount
}

// FreeSlots возвращает open - booked по порядку времени
func FreeSlots(open, booked []types.TimeString) []types.TimeString {
	bookedSet := toSet(booked)
	free := make([]types.TimeString, 0, len(open))
	for _, s := range uniqueSorted(open) {
		if _, taken := bookedSet[s]; !taken {
			free = append(free, s)
		}
	}
	return free
}

func buildCell(day time.Time, open, booked []types.TimeString, asOf time.Time) Cell {
	openSorted := uniqueSorted(open)
	bookedSet := toSet(booked)

	cell := Cell{
		Date:       day,
		TotalCount: len(openSorted),
		Closed:     len(openSorted) == 0,
		Slots:      make([]SlotCell, 0, len(openSorted)),
	}

	// Учитываем только пересечение booked с open
	for _, s := range openSorted {
		state := SlotFree
		if _, taken := bookedSet[s]; taken {
			state = SlotBooked
		} else {
			cell.AvailableCount++
		}
		cell.Slots = append(cell.Slots, SlotCell{Time: s, State: state})
	}

	switch {
	case day.Before(asOf):
		cell.Status = StatusPast
	case cell.AvailableCount == 0:
		cell.Status = StatusFullyBooked
	case cell.AvailableCount == cell.TotalCount:
		cell.Status = StatusAvailable
	default:
		cell.Status = StatusPartiallyBooked
	}

	return cell
}

// startOfWeek понедельник недели, содержащей day
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func uniqueSorted(slots []types.TimeString) []types.TimeString {
	set := toSet(slots)
	out := make([]types.TimeString, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Compare(out[j]); c != 0 {
			return c < 0
		}
		return out[i] < out[j]
	})
	return out
}

func toSet(slots []types.TimeString) map[types.TimeString]struct{} {
	set := make(map[types.TimeString]struct{}, len(slots))
	for _, s := range slots {
		set[s] = struct{}{}
	}
	return set
}
