package form

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"cardiochat/internal/catalog"
	stderrors "cardiochat/internal/common/errors"
)

const minTextLength = 2

var (
	integerLiteral = regexp.MustCompile(`^[+-]?\d+$`)
	decimalLiteral = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)$`)
)

// Normalize validates raw against field and returns the value to store plus
// the text to show in the transcript. Failures are VALIDATION_ERROR
// StandardErrors carrying the field's message.
func Normalize(field catalog.FieldSpec, raw string) (value interface{}, display string, err error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return nil, "", stderrors.NewValidationError(field.Key, field.RequiredMessage())
	}

	switch field.Kind {
	case catalog.KindText:
		if utf8.RuneCountInString(input) < minTextLength {
			return nil, "", invalid(field)
		}
		return input, input, nil

	case catalog.KindInteger:
		if !integerLiteral.MatchString(input) {
			return nil, "", invalid(field)
		}
		n, convErr := strconv.Atoi(input)
		if convErr != nil || !inRange(field, float64(n)) {
			return nil, "", invalid(field)
		}
		return n, strconv.Itoa(n), nil

	case catalog.KindDecimal:
		input = strings.Replace(input, ",", ".", 1)
		if !decimalLiteral.MatchString(input) {
			return nil, "", invalid(field)
		}
		f, convErr := strconv.ParseFloat(input, 64)
		if convErr != nil || math.IsNaN(f) || math.IsInf(f, 0) || !inRange(field, f) {
			return nil, "", invalid(field)
		}
		return f, strconv.FormatFloat(f, 'f', -1, 64), nil

	case catalog.KindChoice:
		opt, ok := field.Option(input)
		if !ok {
			return nil, "", invalid(field)
		}
		return opt.Value, opt.Label, nil

	default:
		return nil, "", fmt.Errorf("field %s: unsupported kind %s", field.Key, field.Kind)
	}
}

func invalid(field catalog.FieldSpec) error {
	return stderrors.NewValidationError(field.Key, field.InvalidMessage())
}

// inRange checks the inclusive [Min, Max] bounds.
func inRange(field catalog.FieldSpec, v float64) bool {
	if field.Min != nil && v < *field.Min {
		return false
	}
	if field.Max != nil && v > *field.Max {
		return false
	}
	return true
}

// Hint describes what a field accepts, for input prompts.
func Hint(field catalog.FieldSpec) string {
	switch field.Kind {
	case catalog.KindText:
		return field.Placeholder
	case catalog.KindInteger, catalog.KindDecimal:
		var rng string
		switch {
		case field.Min != nil && field.Max != nil:
			rng = fmt.Sprintf("%s–%s", formatBound(*field.Min), formatBound(*field.Max))
		case field.Min != nil:
			rng = fmt.Sprintf("≥ %s", formatBound(*field.Min))
		case field.Max != nil:
			rng = fmt.Sprintf("≤ %s", formatBound(*field.Max))
		}
		switch {
		case field.Placeholder != "" && rng != "":
			return fmt.Sprintf("%s (%s)", field.Placeholder, rng)
		case rng != "":
			return rng
		default:
			return field.Placeholder
		}
	case catalog.KindChoice:
		parts := make([]string, len(field.Options))
		for i, opt := range field.Options {
			parts[i] = fmt.Sprintf("%s = %s", opt.Key(), opt.Label)
		}
		return strings.Join(parts, " | ")
	default:
		return ""
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
