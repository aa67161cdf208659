package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s characters long",
	"gt":       "%s must be greater than %s",
}

// validateStruct devuelve un *ValidationError con un mensaje por campo JSON.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalid(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		switch {
		case !ok:
			fields[fe.Field()] = fmt.Sprintf("%s is invalid", fe.Field())
		case strings.Count(msg, "%s") == 2:
			fields[fe.Field()] = fmt.Sprintf(msg, fe.Field(), fe.Param())
		default:
			fields[fe.Field()] = fmt.Sprintf(msg, fe.Field())
		}
	}
	return &ValidationError{Fields: fields}
}
