// Package schema wraps go-playground/validator with the HikeSafe custom
// rules. The same validator checks form input (ValidationError) and API
// responses (SchemaError).
package schema

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages match the wire and the form fields.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("transaction_status", func(fl validator.FieldLevel) bool {
			return model.TransactionStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("hikesafe_email", func(fl validator.FieldLevel) bool {
			return common.IsEmail(fl.Field().String())
		})

		instance = v
	})
	return instance
}

// Check validates s and returns the failing fields keyed by their JSON name
// path (for example "tickets[0].ticketPrice"), or nil.
func Check(s any) (map[string]string, error) {
	return collect(s, describe)
}

// CheckTags is Check but maps each failing field to the validation tag that
// failed, so callers can pick their own wording.
func CheckTags(s any) (map[string]string, error) {
	return collect(s, validator.FieldError.Tag)
}

func collect(s any, render func(validator.FieldError) string) (map[string]string, error) {
	err := Validator().Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = render(fe)
	}
	return fields, nil
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "transaction_status":
		return "unknown status"
	case "hikesafe_email", "email":
		return "Invalid email format"
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
