package services

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/width"
)

// Field length limits, counted in half-width units: a full-width character
// (kanji, kana, full-width punctuation) counts as 2, everything else as 1.
// 50 half-width therefore allows 25 full-width characters.
const (
	MaxCategoryLen      = 50
	MaxNameLen          = 50
	MaxSpecificationLen = 50
	MaxWorkTypeLen      = 16
	MaxUnitLen          = 6
)

// HalfWidthLen returns the length of s in half-width units.
func HalfWidthLen(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// halfWidthMax builds an ozzo rule enforcing a half-width length limit.
func halfWidthMax(limit int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if HalfWidthLen(s) > limit {
			return fmt.Errorf("must be at most %d half-width characters", limit)
		}
		return nil
	})
}

// ItemFields holds the classification fields of a quantity item for
// validation. Name is the only required field; everything else is optional
// but length-limited.
type ItemFields struct {
	MajorCategory  string
	MediumCategory string
	MinorCategory  string
	CustomCategory string
	WorkType       string
	Name           string
	Specification  string
	Unit           string
}

// ValidateItemFields enforces the persisted field limits. These are the same
// limits whether validation happens client-side or server-side.
func ValidateItemFields(f ItemFields) error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.MajorCategory, halfWidthMax(MaxCategoryLen)),
		validation.Field(&f.MediumCategory, halfWidthMax(MaxCategoryLen)),
		validation.Field(&f.MinorCategory, halfWidthMax(MaxCategoryLen)),
		validation.Field(&f.CustomCategory, halfWidthMax(MaxCategoryLen)),
		validation.Field(&f.WorkType, halfWidthMax(MaxWorkTypeLen)),
		validation.Field(&f.Name, validation.Required, halfWidthMax(MaxNameLen)),
		validation.Field(&f.Specification, halfWidthMax(MaxSpecificationLen)),
		validation.Field(&f.Unit, halfWidthMax(MaxUnitLen)),
	)
}

// ValidateRequiredName checks a table, statement or project name.
func ValidateRequiredName(name string) error {
	return validation.Validate(name, validation.Required, halfWidthMax(MaxNameLen))
}
