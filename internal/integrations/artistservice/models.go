package artistservice

// Artist модель артиста из каталога маркетплейса
type Artist struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Bookable    bool   `json:"bookable"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
