package get_calendar

import (
	"github.com/m04kA/SMC-ArtistBooking/internal/calendar"
	getAvailability "github.com/m04kA/SMC-ArtistBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	ArtistID string         `json:"artistId"`
	View     string         `json:"view"`
	Anchor   string         `json:"anchor"`
	AsOf     string         `json:"asOf"`
	Cells    []CellResponse `json:"cells"`
}

// CellResponse ячейка календаря
type CellResponse struct {
	Date           string         `json:"date"`
	InMonth        bool           `json:"inMonth"`
	Status         string         `json:"status"`
	Selectable     bool           `json:"selectable"`
	Closed         bool           `json:"closed"`
	AvailableCount int            `json:"availableCount"`
	TotalCount     int            `json:"totalCount"`
	Slots          []SlotResponse `json:"slots"`
}

// SlotResponse слот внутри дня
type SlotResponse struct {
	Time  string `json:"time"`
	State string `json:"state"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.CalendarResponse) *CalendarResponse {
	out := &CalendarResponse{
		ArtistID: resp.ArtistID,
		View:     string(resp.View),
		Anchor:   types.DateKey(resp.Anchor),
		AsOf:     types.DateKey(resp.AsOf),
		Cells:    make([]CellResponse, 0, len(resp.Cells)),
	}
	for _, c := range resp.Cells {
		out.Cells = append(out.Cells, fromCell(c))
	}
	return out
}

func fromCell(c calendar.Cell) CellResponse {
	cell := CellResponse{
		Date:           types.DateKey(c.Date),
		InMonth:        c.InMonth,
		Status:         string(c.Status),
		Selectable:     c.Selectable(),
		Closed:         c.Closed,
		AvailableCount: c.AvailableCount,
		TotalCount:     c.TotalCount,
		Slots:          make([]SlotResponse, 0, len(c.Slots)),
	}
	for _, s := range c.Slots {
		cell.Slots = append(cell.Slots, SlotResponse{Time: s.Time.String(), State: string(s.State)})
	}
	return cell
}
