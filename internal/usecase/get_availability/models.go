package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/calendar"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// Config параметры чтения доступности
type Config struct {
	DefaultSlots []types.TimeString // шаблон для дней без настроек
	MaxRangeDays int                // максимальная длина запрашиваемого периода
	Location     *time.Location     // часовой пояс настенных часов артистов
}

// Request запрос доступности за период
type Request struct {
	ArtistID string
	Start    time.Time
	End      time.Time
}

// CalendarRequest запрос календаря
type CalendarRequest struct {
	ArtistID string
	View     calendar.View
	Anchor   time.Time // нулевой - текущая дата в Config.Location
}

// CalendarResponse календарь артиста
type CalendarResponse struct {
	ArtistID string
	View     calendar.View
	Anchor   time.Time
	AsOf     time.Time
	Cells    []calendar.Cell
}
