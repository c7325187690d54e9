// Package services provides the quantity calculation, aggregation and
// export logic for quantity tables and itemized statements.
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Numeric ranges shared by client- and server-side validation.
const (
	// MinStandardQuantity is the lower bound for directly entered quantities.
	MinStandardQuantity = -999999.99
	// MaxQuantity is the upper bound for every quantity, entered or derived.
	MaxQuantity = 9999999.99
	// MinDimension is the lower bound for dimension inputs. Dimensions are
	// strictly positive; a stored 0 means the field is blank.
	MinDimension = 0.01

	DefaultAdjustmentFactor = 1.00
	DefaultRoundingUnit     = 0.01
)

// ErrInvalidNumber is returned when an input contains non-numeric characters.
// The edit is refused outright; no partial value is produced.
var ErrInvalidNumber = errors.New("invalid numeric input")

// ErrOutOfRange is returned when a numeric input falls outside its valid range.
var ErrOutOfRange = errors.New("value out of range")

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseDecimalInput parses a numeric literal: optional sign, digits and at
// most one decimal point. Anything else yields ErrInvalidNumber.
func ParseDecimalInput(raw string) (float64, error) {
	if !decimalPattern.MatchString(raw) {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// FormatForDisplay renders a numeric field for the UI: blank fields stay
// blank, populated fields always get exactly 2 decimal places.
func FormatForDisplay(v float64, present bool) string {
	if !present {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

// IsWithinRange reports whether v lies in [min, max].
func IsWithinRange(v, min, max float64) bool {
	return v >= min && v <= max
}

// ValidateStandardQuantity checks a directly entered quantity against the
// STANDARD input range.
func ValidateStandardQuantity(v float64) error {
	if !IsWithinRange(v, MinStandardQuantity, MaxQuantity) {
		return ErrOutOfRange
	}
	return nil
}

// ValidateDimension checks a dimension input. Negative and zero values are
// rejected; blank fields are handled by the caller before parsing.
func ValidateDimension(v float64) error {
	if !IsWithinRange(v, MinDimension, MaxQuantity) {
		return ErrOutOfRange
	}
	return nil
}
