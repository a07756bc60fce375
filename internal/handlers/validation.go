package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/littlesprouts/preschool-api/internal/models"
	"github.com/littlesprouts/preschool-api/pkg/validate"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterValidators installs the enquiry tags on v and makes field errors
// report JSON names
func RegisterValidators(v *validator.Validate, clock func() time.Time) error {
	if err := validate.Register(v, clock); err != nil {
		return err
	}

	if err := v.RegisterValidation("visitslot", func(fl validator.FieldLevel) bool {
		return models.IsVisitSlot(fl.Field().String())
	}); err != nil {
		return err
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	return nil
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
		return errs
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []ValidationError{{Field: typeErr.Field, Message: typeErr.Field + " must be a " + jsonKind(typeErr.Type.Kind())}}
	}

	// Malformed or oversized bodies never reach the validator
	return []ValidationError{{Field: "body", Message: "Request body must be a JSON object"}}
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "number"
	}
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "leademail":
		return "Please enter a valid email address"
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "notpast":
		return fe.Field() + " cannot be in the past"
	case "visitslot":
		return fe.Field() + " must be one of: " + strings.Join(models.VisitSlots, ", ")
	default:
		return fe.Field() + " is invalid"
	}
}
