package create_booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const maxIdempotencyKeyLength = 64

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalize обрезает пробелы по краям всех полей
func normalize(req *Request) *Request {
	return &Request{
		ArtistID:       strings.TrimSpace(req.ArtistID),
		ClientName:     strings.TrimSpace(req.ClientName),
		ClientEmail:    strings.TrimSpace(req.ClientEmail),
		Date:           strings.TrimSpace(req.Date),
		Time:           strings.TrimSpace(req.Time),
		Service:        strings.TrimSpace(req.Service),
		Message:        strings.TrimSpace(req.Message),
		IdempotencyKey: strings.TrimSpace(req.IdempotencyKey),
	}
}

// validateRequest проверяет черновик целиком и возвращает все ошибки полей сразу.
// При успехе возвращает черновик в доменных типах.
func validateRequest(req *Request, wallNow time.Time) (*domain.BookingDraft, error) {
	verr := domain.NewValidationError()

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("%w: validateRequest - %v", ErrInternal, err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	}

	draft := &domain.BookingDraft{
		ArtistID:    req.ArtistID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Service:     req.Service,
		Message:     req.Message,
	}

	date, dateErr := types.ParseDate(req.Date)
	at, timeErr := types.NewTimeStringFromString(req.Time)
	if dateErr == nil && timeErr == nil {
		draft.Date, draft.Time = date, at
		slotAt, err := types.Combine(date, at)
		if err == nil && !slotAt.After(wallNow) {
			verr.Add("dateTime", "booking must be in the future")
		}
	}

	if req.IdempotencyKey != "" {
		if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
			verr.Add("idempotencyKey", "idempotency key is too long")
		} else if _, err := uuid.Parse(req.IdempotencyKey); err != nil {
			verr.Add("idempotencyKey", "idempotency key must be a UUID")
		} else {
			key := req.IdempotencyKey
			draft.IdempotencyKey = &key
		}
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	return draft, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return "clientEmail must be a valid email address"
	case "datetime":
		if fe.Field() == "time" {
			return "time must be in HH:MM format"
		}
		return "date must be in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
