package middleware

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps the binding errors of a form struct to messages keyed
// by the field's `form` tag. Errors that are not validation errors (for
// example a malformed number) are reported under "".
func FieldErrors(err error, form interface{}) map[string]string {
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[""] = err.Error()
		return out
	}

	t := reflect.TypeOf(form)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for _, fe := range verrs {
		key, label := fe.Field(), humanize(fe.StructField())
		if t != nil && t.Kind() == reflect.Struct {
			if sf, ok := t.FieldByName(fe.StructField()); ok {
				if tag := strings.Split(sf.Tag.Get("form"), ",")[0]; tag != "" && tag != "-" {
					key = tag
				}
				if l := sf.Tag.Get("label"); l != "" {
					label = l
				}
			}
		}
		if _, exists := out[key]; !exists {
			out[key] = formatValidationError(fe, label)
		}
	}
	return out
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError, field string) string {
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_without":
		return field + " is required unless " + e.Param() + " is given"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gte":
		return field + " must be " + e.Param() + " or more"
	case "lte":
		return field + " must be " + e.Param() + " or less"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	case "eqfield":
		return field + " must match " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// humanize turns a Go field name into a label: "FirstName" -> "First name",
// "ClassID" -> "Class ID".
func humanize(name string) string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))

	for i := 1; i < len(words); i++ {
		if strings.ToUpper(words[i]) != words[i] {
			words[i] = strings.ToLower(words[i])
		}
	}
	return strings.Join(words, " ")
}
