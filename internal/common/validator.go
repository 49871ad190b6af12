package common

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
	phoneSeparator = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// NormalizePhone strips the separators people type between digits.
func NormalizePhone(phone string) string {
	return phoneSeparator.Replace(strings.TrimSpace(phone))
}

// ValidPhone accepts 10 to 15 digits with an optional leading plus once separators are removed.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// NewValidator returns a validator that reports json field names and knows the
// "phone" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// ValidationError converts validator output into a VALIDATION_ERROR AppError.
// A single failing field keeps its message; several are reported as details.
func ValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return NewValidationError("", err.Error())
	}

	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe))
	}
	if len(details) == 1 {
		for field, msg := range details {
			return NewValidationError(field, msg)
		}
	}
	return NewValidationErrors(details)
}

// DetailFields returns the fields of a multi-field validation error in a stable order.
func DetailFields(appErr *AppError) []string {
	fields := make([]string, 0, len(appErr.Details))
	for f := range appErr.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "must be a valid UUID"
	}
	return "is invalid"
}
