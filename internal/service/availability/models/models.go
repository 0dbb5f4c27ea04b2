package models

// DayInput настройка одного дня в запросе
type DayInput struct {
	Status string   `json:"status"`          // available | unavailable
	Slots  []string `json:"slots,omitempty"` // только для available, пусто - шаблон по умолчанию
}

// SetAvailabilityRequest массовое обновление дней артиста
type SetAvailabilityRequest struct {
	ArtistID string              // из пути
	CallerID string              // из заголовка X-Artist-ID
	Days     map[string]DayInput // ключ - дата YYYY-MM-DD
}

// SetAvailabilityResponse результат обновления
type SetAvailabilityResponse struct {
	ArtistID     string   `json:"artistId"`
	UpdatedDates []string `json:"updatedDates"`
	// AffectedBookings активные бронирования на днях, ставших недоступными (не отменяются)
	AffectedBookings int `json:"affectedBookings"`
}
