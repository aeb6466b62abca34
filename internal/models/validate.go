package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var avatarPattern = regexp.MustCompile(`(?i)^https?://`)

// dateLayouts are the calendar date shapes accepted for birthDate.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "avatar", func(fl validator.FieldLevel) bool {
		return IsAvatar(fl.Field().String())
	})
	mustRegister(v, "birthdate", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("failed to register validation " + tag + ": " + err.Error())
	}
}

// IsAvatar reports whether s is empty or an absolute http(s) URL.
func IsAvatar(s string) bool {
	if s == "" {
		return true
	}
	if !avatarPattern.MatchString(s) {
		return false
	}
	u, err := url.Parse(s)

	return err == nil && u.Host != ""
}

// IsDate reports whether s parses as a calendar date in one of the accepted layouts.
func IsDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}

	return false
}

// Normalize trims the avatar before validation. A missing avatar becomes empty.
func (p *CreatePayload) Normalize() {
	p.Avatar = strings.TrimSpace(p.Avatar)
}

// Normalize trims the avatar when present.
func (p *UpdatePayload) Normalize() {
	if p.Avatar != nil {
		trimmed := strings.TrimSpace(*p.Avatar)
		p.Avatar = &trimmed
	}
}

// Validate checks the payload against the creation rules.
func (p CreatePayload) Validate() error {
	return check(p)
}

// Validate checks the present fields of the patch.
func (p UpdatePayload) Validate() error {
	return check(p)
}

// DecodeCreate parses, normalizes and validates a creation payload.
func DecodeCreate(data []byte) (CreatePayload, error) {
	data = orEmptyObject(data)

	var payload CreatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return CreatePayload{}, Invalid(fmt.Sprintf("invalid JSON body: %v", err))
	}
	if payload.Salary == nil && salaryIsNull(data) {
		payload.Salary = Amount(0).Ptr()
	}
	payload.Normalize()

	if err := payload.Validate(); err != nil {
		return CreatePayload{}, err
	}

	return payload, nil
}

// DecodeUpdate parses, normalizes and validates a partial payload.
func DecodeUpdate(data []byte) (UpdatePayload, error) {
	data = orEmptyObject(data)

	var payload UpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return UpdatePayload{}, Invalid(fmt.Sprintf("invalid JSON body: %v", err))
	}
	if payload.Salary == nil && salaryIsNull(data) {
		payload.Salary = Amount(0).Ptr()
	}
	payload.Normalize()

	if err := payload.Validate(); err != nil {
		return UpdatePayload{}, err
	}

	return payload, nil
}

// orEmptyObject treats a missing body as an empty object.
func orEmptyObject(data []byte) []byte {
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}")
	}
	return data
}

// salaryIsNull reports whether the body sets salary to an explicit null, which counts as 0.
func salaryIsNull(data []byte) bool {
	var fields struct {
		Salary json.RawMessage `json:"salary"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}

	return bytes.Equal(bytes.TrimSpace(fields.Salary), []byte("null"))
}

func check(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Invalid(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}

	return Invalid(strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must not be empty"
	case "avatar":
		return field + " must be a URL or empty"
	case "birthdate":
		return field + " must be ISO date string"
	case "gte", "finite":
		return field + " must be a non-negative finite number"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
