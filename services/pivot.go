package services

import (
	"errors"
	"sort"
)

// ErrQuantityOverflow is returned when a summed quantity leaves the
// representable range. Statement creation fails as a whole; no partial
// statement is ever persisted.
var ErrQuantityOverflow = errors.New("summed quantity exceeds representable range")

// PivotSource is one quantity item as seen by the pivot aggregator.
type PivotSource struct {
	CustomCategory string
	WorkType       string
	Name           string
	Specification  string
	Unit           string
	Quantity       float64
}

// StatementLine is one itemized-statement line item produced by the pivot.
type StatementLine struct {
	CustomCategory string
	WorkType       string
	Name           string
	Specification  string
	Unit           string
	Quantity       float64
}

type pivotKey struct {
	customCategory string
	workType       string
	name           string
	specification  string
	unit           string
}

// AggregateStatementItems groups quantity items by the composite key
// (customCategory, workType, name, specification, unit) and sums their
// quantities. All five fields must match exactly; two blank fields match
// each other. Output order is the input order of each group's first
// occurrence, so repeated runs over the same input produce identical output.
func AggregateStatementItems(items []PivotSource) ([]StatementLine, error) {
	index := make(map[pivotKey]int, len(items))
	lines := make([]StatementLine, 0, len(items))

	for _, it := range items {
		key := pivotKey{
			customCategory: it.CustomCategory,
			workType:       it.WorkType,
			name:           it.Name,
			specification:  it.Specification,
			unit:           it.Unit,
		}
		if i, ok := index[key]; ok {
			lines[i].Quantity += it.Quantity
		} else {
			index[key] = len(lines)
			lines = append(lines, StatementLine{
				CustomCategory: it.CustomCategory,
				WorkType:       it.WorkType,
				Name:           it.Name,
				Specification:  it.Specification,
				Unit:           it.Unit,
				Quantity:       it.Quantity,
			})
		}
	}

	for _, l := range lines {
		if !IsWithinRange(l.Quantity, MinStandardQuantity, MaxQuantity) {
			return nil, ErrQuantityOverflow
		}
	}
	return lines, nil
}

// SortStatementLines applies the statement detail page's default sort:
// customCategory, workType, name, specification ascending, blanks last.
// The sort is stable so equal lines keep their aggregation order.
func SortStatementLines(lines []StatementLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if c := compareBlanksLast(a.CustomCategory, b.CustomCategory); c != 0 {
			return c < 0
		}
		if c := compareBlanksLast(a.WorkType, b.WorkType); c != 0 {
			return c < 0
		}
		if c := compareBlanksLast(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return compareBlanksLast(a.Specification, b.Specification) < 0
	})
}

// compareBlanksLast orders non-blank strings ascending and sorts blank
// values after everything else.
func compareBlanksLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	case a < b:
		return -1
	default:
		return 1
	}
}
