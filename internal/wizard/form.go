package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form поля клиента на шаге Details
type Form struct {
	ClientName  string `json:"clientName" validate:"required,min=2,max=200"`
	ClientEmail string `json:"clientEmail" validate:"required,email"`
	Service     string `json:"service" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,min=10,max=2000"`
}

var formValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

func (f Form) trimmed() Form {
	return Form{
		ClientName:  strings.TrimSpace(f.ClientName),
		ClientEmail: strings.TrimSpace(f.ClientEmail),
		Service:     strings.TrimSpace(f.Service),
		Message:     strings.TrimSpace(f.Message),
	}
}

// validate возвращает ошибки по полям, пустая карта - форма корректна
func (f Form) validate() map[string]string {
	fields := make(map[string]string)

	err := formValidator.Struct(f)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fields
	}

	for _, fe := range fieldErrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "required"
		case "email":
			fields[fe.Field()] = "enter a valid email address"
		case "min":
			fields[fe.Field()] = fmt.Sprintf("at least %s characters", fe.Param())
		case "max":
			fields[fe.Field()] = fmt.Sprintf("at most %s characters", fe.Param())
		default:
			fields[fe.Field()] = "invalid value"
		}
	}
	return fields
}
