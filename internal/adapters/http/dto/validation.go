package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every failure returned by Validate.
var ErrValidation = errors.New("validation failed")

// validate names fields by their json tag, the same spelling the frontend
// config keys use.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("regexp", validateRegexp)

	return v
}()

// Validator returns the shared validator.
func Validator() *validator.Validate {
	return validate
}

// Validate checks v's struct tags. Failures wrap ErrValidation.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// ValidationErrors maps each failing field to a readable message. Errors that
// did not come from the validator yield an empty map.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = validationMessage(fe)
		}
	}

	return out
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"notempty": "must not be empty",
	"regexp":   "must be a valid regular expression",
	"ip":       "must be a valid IP address",
	"hostname": "must be a valid hostname",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"gt":       "must be greater than %s",
	"lt":       "must be less than %s",
	"oneof":    "must be one of: %s",
}

func validationMessage(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "min", "max":
		return minMaxMessage(tag, fe.Param(), fe.Type().Kind())
	case "ip|hostname":
		return "must be an IP address or hostname"
	default:
		msg, ok := validationMessages[tag]
		if !ok {
			return "failed validation: " + tag
		}

		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, fe.Param())
		}

		return msg
	}
}

// minMaxMessage counts characters for strings and values otherwise.
func minMaxMessage(tag, param string, kind reflect.Kind) string {
	bound := "at most"
	if tag == "min" {
		bound = "at least"
	}

	if kind == reflect.String {
		return fmt.Sprintf("must be %s %s characters", bound, param)
	}

	return fmt.Sprintf("must be %s %s", bound, param)
}

// validateRegexp accepts the empty string and anything regexp.Compile does.
func validateRegexp(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	_, err := regexp.Compile(s)

	return err == nil
}
