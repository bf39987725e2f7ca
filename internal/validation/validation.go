// Package validation runs struct tag validation and maps the first failing field to
// a user-facing message.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/herdbook/internal/apperr"
)

// Messages maps struct field names to the message reported when that field fails.
type Messages map[string]string

type enum interface {
	Valid() bool
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			v, ok := fl.Field().Interface().(enum)
			return ok && v.Valid()
		})
	})
	return instance
}

// Struct validates v and returns an apperr.ValidationError for the first failing
// field. Fields without a message fall back to "<Field> is invalid".
func Struct(v interface{}, msgs Messages) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Internal("Validation failed", err)
	}

	fe := fieldErrs[0]
	if msg, ok := msgs[fe.StructField()]; ok {
		return apperr.Validation(msg)
	}
	return apperr.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts an RFC 3339 timestamp or a bare date. Bare dates and
// timestamps without an offset are read in loc. The result is in UTC.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// OptionalDate parses raw when it is non-nil and non-empty.
func OptionalDate(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
