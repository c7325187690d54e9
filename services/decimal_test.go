package services

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func TestParseDecimalInput_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"integer", "100", 100},
		{"decimal", "100.5", 100.5},
		{"two decimals", "0.01", 0.01},
		{"leading dot", ".5", 0.5},
		{"trailing dot", "5.", 5},
		{"negative", "-10", -10},
		{"negative decimal", "-10.25", -10.25},
		{"explicit plus", "+3.5", 3.5},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalInput(tt.input)
			if err != nil {
				t.Fatalf("ParseDecimalInput(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalInput(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimalInput_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"letters", "abc"},
		{"trailing letter", "10a"},
		{"embedded space", "1 0"},
		{"two dots", "1.2.3"},
		{"sign only", "-"},
		{"full-width digits", "１２３"},
		{"comma separator", "1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecimalInput(tt.input)
			if !errors.Is(err, ErrInvalidNumber) {
				t.Errorf("ParseDecimalInput(%q) error = %v, want ErrInvalidNumber", tt.input, err)
			}
		})
	}
}

func TestFormatForDisplay(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		present bool
		want    string
	}{
		{"blank stays blank", 0, false, ""},
		{"zero", 0, true, "0.00"},
		{"whole number", 100, true, "100.00"},
		{"negative", -10, true, "-10.00"},
		{"one decimal", 5.5, true, "5.50"},
		{"rounds to 2 decimals", 1.005, true, "1.00"},
		{"max quantity", 9999999.99, true, "9999999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatForDisplay(tt.value, tt.present)
			if got != tt.want {
				t.Errorf("FormatForDisplay(%v, %v) = %q, want %q", tt.value, tt.present, got, tt.want)
			}
		})
	}
}

// Parsing a valid decimal string and formatting it back must yield a
// 2-decimal string numerically equal to the original.
func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{"0", "1", "100", "-10", "53", "0.01", "123.45", "-999999.99", "9999999.99"}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			v, err := ParseDecimalInput(s)
			if err != nil {
				t.Fatalf("ParseDecimalInput(%q) error = %v", s, err)
			}
			display := FormatForDisplay(v, true)
			back, err := strconv.ParseFloat(display, 64)
			if err != nil {
				t.Fatalf("display %q is not numeric: %v", display, err)
			}
			want, _ := strconv.ParseFloat(s, 64)
			if back != want {
				t.Errorf("round trip of %q = %q (%v), want value %v", s, display, back, want)
			}
			if fmt.Sprintf("%.2f", back) != display {
				t.Errorf("display %q is not a 2-decimal string", display)
			}
		})
	}
}

func TestValidateStandardQuantity(t *testing.T) {
	if err := ValidateStandardQuantity(-999999.99); err != nil {
		t.Errorf("lower bound should be valid, got %v", err)
	}
	if err := ValidateStandardQuantity(9999999.99); err != nil {
		t.Errorf("upper bound should be valid, got %v", err)
	}
	if err := ValidateStandardQuantity(-1000000); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("below range error = %v, want ErrOutOfRange", err)
	}
	if err := ValidateStandardQuantity(10000000); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("above range error = %v, want ErrOutOfRange", err)
	}
}

func TestValidateDimension(t *testing.T) {
	if err := ValidateDimension(0.01); err != nil {
		t.Errorf("minimum dimension should be valid, got %v", err)
	}
	if err := ValidateDimension(0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("zero dimension error = %v, want ErrOutOfRange", err)
	}
	if err := ValidateDimension(-5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative dimension error = %v, want ErrOutOfRange", err)
	}
}
