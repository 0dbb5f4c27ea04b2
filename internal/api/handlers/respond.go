package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// Коды ошибок в теле ответа. Клиенты различают конфликт слота и недопустимый переход по коду,
// а не по тексту сообщения.
const (
	CodeBadRequest        = "bad_request"
	CodeValidation        = "validation_failed"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeSlotConflict      = "slot_conflict"
	CodeIllegalTransition = "illegal_transition"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternal          = "internal_error"
)

const (
	msgInternalError    = "internal server error"
	msgStoreUnavailable = "booking store is temporarily unavailable"
	msgValidationFailed = "validation failed"

	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// RespondJSON пишет data в формате JSON
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError пишет ошибку с кодом
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, CodeForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, CodeNotFound, message)
}

func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

func RespondStoreUnavailable(w http.ResponseWriter) {
	RespondError(w, http.StatusServiceUnavailable, CodeStoreUnavailable, msgStoreUnavailable)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

// RespondValidationError пишет 400 с ошибками по полям
func RespondValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  msgValidationFailed,
		Code:   CodeValidation,
		Fields: verr.Fields,
	})
}

// AsValidationError достает *domain.ValidationError из цепочки ошибок
func AsValidationError(err error) (*domain.ValidationError, bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
