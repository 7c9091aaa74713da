package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// DATE_LAYOUT is the wire format of birthdays.
const DATE_LAYOUT = "2006-01-02"

var ErrInvalidFormat = errors.New("invalid format")

var (
	phonePattern = regexp.MustCompile(`^(?:\+\d{1,3})?\s*(?:\(\d{2,5}\)|\d{2,5})?` +
		`\s*\d{1,3}(?:\s*-)?\s*\d{1,3}(?:\s*-)?\s*\d{1,3}\s*$`)

	spacedHyphens = strings.NewReplacer(" - ", "-", " -", "-", "- ", "-")
)

// InvalidFormatError describes a single field that failed validation.
// Value holds what was checked, i.e. the normalized value for phones.
type InvalidFormatError struct {
	Field string
	Value string
	Rule  string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("wrong %s '%s': %s", e.Field, e.Value, e.Rule)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// FormatErrors collects every failing field of one input.
type FormatErrors []*InvalidFormatError

func (fe FormatErrors) Error() string {
	return strings.Join(fe.Messages(), "\n")
}

func (fe FormatErrors) Is(target error) bool {
	return target == ErrInvalidFormat
}

func (fe FormatErrors) Messages() []string {
	messages := make([]string, 0, len(fe))
	for _, err := range fe {
		messages = append(messages, err.Error())
	}
	return messages
}

// NormalizePhone collapses whitespace and tightens spaced hyphens,
// e.g. "+1 (202)  555 - 0172" becomes "+1 (202) 555-0172".
func NormalizePhone(phone string) string {
	phone = strings.Join(strings.Fields(phone), " ")
	return spacedHyphens.Replace(phone)
}

func IsPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Phone returns the normalized form of 'phone', or an InvalidFormatError carrying it.
func Phone(phone string) (string, error) {
	normalized := NormalizePhone(phone)
	if !IsPhoneNumber(normalized) {
		return "", &InvalidFormatError{Field: "phone", Value: normalized, Rule: ruleMessage("phone_number", "")}
	}

	return normalized, nil
}

// New returns a validator with the custom 'phone_number' and 'iso_date' tags registered.
// Field names in errors come from the json tag.
func New() (*validator.Validate, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})
	if err != nil {
		return nil, err
	}

	err = validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DATE_LAYOUT, fl.Field().String())
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return validate, nil
}

// Struct validates 's' and turns validator failures into FormatErrors.
func Struct(validate *validator.Validate, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	formatErrors := FormatErrors{}
	for _, fe := range fieldErrors {
		formatErrors = append(formatErrors, &InvalidFormatError{
			Field: fe.Field(),
			Value: fmt.Sprintf("%v", fe.Value()),
			Rule:  ruleMessage(fe.Tag(), fe.Param()),
		})
	}

	return formatErrors
}

func ruleMessage(tag, param string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "max":
		return "should be at most " + param + " characters long"
	case "email":
		return "should be a valid email address"
	case "phone_number":
		return "should be a valid phone number"
	case "iso_date":
		return "should be a date formatted as YYYY-MM-DD"
	}

	return "failed the '" + tag + "' check"
}
