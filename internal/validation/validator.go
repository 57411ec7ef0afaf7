package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()

		// Report fields by their json or env name instead of the Go name.
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("env"); name != "" {
				return name
			}

			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

			if name == "-" {
				return ""
			}

			return name
		})

		validatorInstance.RegisterValidation("pow2", func(fl validator.FieldLevel) bool {
			value := fl.Field().Int()

			return value > 0 && value&(value-1) == 0
		})
	})

	return validatorInstance
}

// Validate the input struct. Failures are returned keyed by field name, with
// the message taken from messages["<field>.<tag>"] when present.
func Validate(input any, messages map[string]string) map[string][]string {
	err := getValidator().Struct(input)

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		slog.Error("Validation failed", "error", err)

		return map[string][]string{"_": {err.Error()}}
	}

	e := make(map[string][]string)

	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		messageKey := fmt.Sprintf("%s.%s", field, fieldError.Tag())
		message, ok := messages[messageKey]

		if !ok {
			slog.Debug("Validation error message not found", "key", messageKey)
			message = fmt.Sprintf("The %s field failed the %s rule", field, fieldError.Tag())
		}

		e[field] = append(e[field], message)
	}

	return e
}

// Collapse validation failures into a single error with a stable field order.
func Error(failures map[string][]string) error {
	if len(failures) == 0 {
		return nil
	}

	fields := make([]string, 0, len(failures))

	for field := range failures {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))

	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(failures[field], ", ")))
	}

	return errors.New(strings.Join(parts, "; "))
}
