// Package validate wraps go-playground/validator with the portal's rules and
// converts failures into field errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
)

// PasswordSymbols lists the special characters a password must draw from.
const PasswordSymbols = "@$!%*?&"

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Validator checks request structs tagged with `validate`.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator reporting fields by their json names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration of a well-formed tag on a fresh validator cannot fail
	_ = v.RegisterValidation("password_policy", passwordPolicy)
	_ = v.RegisterValidation("max_bytes", maxBytes)
	return &Validator{v: v}
}

// Struct validates s and returns a Validation error listing every failing field.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Server("validation failed", err)
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return apperror.Validation("validation failed", fields...)
}

// PasswordCompliant reports whether plain satisfies the password policy.
func PasswordCompliant(plain string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func passwordPolicy(fl validator.FieldLevel) bool {
	return PasswordCompliant(fl.Field().String())
}

// maxBytes limits the UTF-8 length of a string, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "email":
		return "please provide a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "max_bytes":
		return fmt.Sprintf("%s must be at most %s bytes long", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "password_policy":
		return "password must contain at least one uppercase letter, one lowercase letter, one number and one special character (" + PasswordSymbols + ")"
	default:
		return field + " is invalid"
	}
}
