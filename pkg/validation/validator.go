package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	// Upbit KRW market codes look like KRW-BTC.
	marketPattern = regexp.MustCompile(`^KRW-[A-Z0-9]{1,10}$`)
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func init() {
	validate.RegisterValidation("market", validateMarket)
}

// validateMarket validates upbit market code format
func validateMarket(fl validator.FieldLevel) bool {
	market, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return marketPattern.MatchString(market)
}

// ValidateStruct validates a struct using tags
func ValidateStruct(s interface{}) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	for _, err := range err.(validator.ValidationErrors) {
		errors = append(errors, ValidationError{
			Field:   err.Field(),
			Message: getErrorMessage(err.Field(), err.Tag()),
			Value:   err.Value(),
		})
	}
	return errors
}

func getErrorMessage(field, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "market":
		return fmt.Sprintf("%s must be a KRW market code like KRW-BTC", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}

// IsMarketCode reports whether s is a well-formed KRW market code.
func IsMarketCode(s string) bool {
	return marketPattern.MatchString(s)
}

// SanitizeString removes null bytes and control characters and trims whitespace.
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
