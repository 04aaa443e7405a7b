// Package datatype implements the scalar value checks of spec component C:
// bool/integer/float/string parsing, range/length bounds, unit-pattern
// matching, and allowed-value enumeration.
package datatype

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/stackabletech/product-config/pkg/outcome"
	"github.com/stackabletech/product-config/pkg/unit"
)

// Kind identifies which scalar datatype a Constraint checks against.
type Kind string

const (
	KindBool    Kind = "bool"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindString  Kind = "string"
)

// Constraint is the datatype-specific validation rule attached to a schema
// property, corresponding to spec.md's per-property "datatype" block.
type Constraint struct {
	Kind Kind

	// Integer/Float bounds. Nil means unbounded on that side.
	Min *decimal.Decimal
	Max *decimal.Decimal

	// String length bounds, in normalized grapheme-approximate rune count.
	MinLength *int
	MaxLength *int

	// UnitName, if non-empty, names a unit.Unit the value must fully match.
	// For integer/float it is applied to the value's string form before
	// numeric parsing is attempted — many units embed the number itself,
	// e.g. "512mib"; for string it is applied to the value as is.
	UnitName string
	Unit     *unit.Unit

	// AllowedValues, if non-empty, restricts the value to this exact set
	// (compared as exact, case-sensitive strings).
	AllowedValues []string
}

// Check validates value against c, returning nil on success or a
// *outcome.CheckError describing every distinct failure found.
func (c Constraint) Check(value string) *outcome.CheckError {
	switch c.Kind {
	case KindBool:
		return c.checkBool(value)
	case KindInteger:
		return c.checkNumeric(value, true)
	case KindFloat:
		return c.checkNumeric(value, false)
	case KindString:
		return c.checkString(value)
	default:
		return &outcome.CheckError{
			Kind:    outcome.ErrInvalidType,
			Kinds:   []outcome.ErrorKind{outcome.ErrInvalidType},
			Message: "unknown datatype kind " + string(c.Kind),
		}
	}
}

// checkBool accepts only the exact literals "true" and "false". Unlike
// strconv.ParseBool, it rejects "1", "t", "T", "TRUE", "0", "f", "F" and
// "FALSE" — the schema's boolean datatype is case-sensitive and has no
// numeric or abbreviated spellings.
func (c Constraint) checkBool(value string) *outcome.CheckError {
	if value != "true" && value != "false" {
		return &outcome.CheckError{
			Kind:    outcome.ErrInvalidType,
			Kinds:   []outcome.ErrorKind{outcome.ErrInvalidType},
			Message: "value " + strconv.Quote(value) + ` is not one of "true"/"false"`,
		}
	}
	return c.checkAllowed(value)
}

// checkNumeric handles both integer and float kinds: if a unit is
// configured, it first matches the value against it and then keeps only the
// value's leading numeric prefix (whether or not the unit matched); it then
// parses that number, checks it against Min/Max, and checks the allowed values.
func (c Constraint) checkNumeric(value string, integral bool) *outcome.CheckError {
	var merged *outcome.CheckError

	numeric := value
	if c.Unit != nil {
		ok, err := c.Unit.Matches(value)
		if err != nil || !ok {
			merged = merged.Merge(&outcome.CheckError{
				Kind:    outcome.ErrUnitMismatch,
				Kinds:   []outcome.ErrorKind{outcome.ErrUnitMismatch},
				Message: "value " + strconv.Quote(value) + " does not match unit " + strconv.Quote(c.UnitName),
			})
		}
		numeric = leadingNumericPrefix(value)
	}

	dec, err := decimal.NewFromString(numeric)
	if err != nil {
		merged = merged.Merge(&outcome.CheckError{
			Kind:    outcome.ErrInvalidType,
			Kinds:   []outcome.ErrorKind{outcome.ErrInvalidType},
			Message: "value " + strconv.Quote(value) + " is not numeric",
		})
		if allowedErr := c.checkAllowed(value); allowedErr != nil {
			merged = merged.Merge(allowedErr)
		}
		return merged
	}
	if integral && !dec.Equal(dec.Truncate(0)) {
		merged = merged.Merge(&outcome.CheckError{
			Kind:    outcome.ErrInvalidType,
			Kinds:   []outcome.ErrorKind{outcome.ErrInvalidType},
			Message: "value " + strconv.Quote(value) + " is not an integer",
		})
	}

	if c.Min != nil && dec.LessThan(*c.Min) {
		merged = merged.Merge(&outcome.CheckError{
			Kind:    outcome.ErrOutOfBounds,
			Kinds:   []outcome.ErrorKind{outcome.ErrOutOfBounds},
			Message: "value " + strconv.Quote(value) + " is below the minimum of " + c.Min.String(),
		})
	}
	if c.Max != nil && dec.GreaterThan(*c.Max) {
		merged = merged.Merge(&outcome.CheckError{
			Kind:    outcome.ErrOutOfBounds,
			Kinds:   []outcome.ErrorKind{outcome.ErrOutOfBounds},
			Message: "value " + strconv.Quote(value) + " is above the maximum of " + c.Max.String(),
		})
	}

	if allowedErr := c.checkAllowed(value); allowedErr != nil {
		merged = merged.Merge(allowedErr)
	}
	return merged
}

func (c Constraint) checkString(value string) *outcome.CheckError {
	var merged *outcome.CheckError

	length := len([]rune(norm.NFC.String(value)))
	if c.MinLength != nil && length < *c.MinLength {
		merged = merged.Merge(&outcome.CheckError{
			Kind:    outcome.ErrOutOfBounds,
			Kinds:   []outcome.ErrorKind{outcome.ErrOutOfBounds},
			Message: "value is shorter than the minimum length of " + strconv.Itoa(*c.MinLength),
		})
	}
	if c.MaxLength != nil && length > *c.MaxLength {
		merged = merged.Merge(&outcome.CheckError{
			Kind:    outcome.ErrOutOfBounds,
			Kinds:   []outcome.ErrorKind{outcome.ErrOutOfBounds},
			Message: "value is longer than the maximum length of " + strconv.Itoa(*c.MaxLength),
		})
	}
	if c.Unit != nil {
		ok, err := c.Unit.Matches(value)
		if err != nil || !ok {
			merged = merged.Merge(&outcome.CheckError{
				Kind:    outcome.ErrUnitMismatch,
				Kinds:   []outcome.ErrorKind{outcome.ErrUnitMismatch},
				Message: "value " + strconv.Quote(value) + " does not match unit " + strconv.Quote(c.UnitName),
			})
		}
	}
	if allowedErr := c.checkAllowed(value); allowedErr != nil {
		merged = merged.Merge(allowedErr)
	}
	return merged
}

func (c Constraint) checkAllowed(value string) *outcome.CheckError {
	if len(c.AllowedValues) == 0 {
		return nil
	}
	for _, av := range c.AllowedValues {
		if av == value {
			return nil
		}
	}
	return &outcome.CheckError{
		Kind:    outcome.ErrNotAllowed,
		Kinds:   []outcome.ErrorKind{outcome.ErrNotAllowed},
		Message: "value " + strconv.Quote(value) + " is not one of the allowed values",
	}
}

// leadingNumericPrefix returns the longest prefix of value that parses as a
// signed decimal number, for values like "512mib" where a unit suffix
// follows the number. If value has no leading digits (after an optional sign
// and decimal point), it is returned unchanged.
func leadingNumericPrefix(value string) string {
	i := 0
	if i < len(value) && (value[i] == '+' || value[i] == '-') {
		i++
	}
	sawDigit := false
	sawDot := false
	for ; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' && !sawDot:
			sawDot = true
		default:
			if !sawDigit {
				return value
			}
			return strings.TrimSuffix(value[:i], ".")
		}
	}
	return value
}
