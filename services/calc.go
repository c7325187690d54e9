package services

import "math"

// CalculationMethod selects how an item's quantity is derived.
type CalculationMethod string

const (
	MethodStandard   CalculationMethod = "STANDARD"
	MethodAreaVolume CalculationMethod = "AREA_VOLUME"
	MethodPitch      CalculationMethod = "PITCH"
)

// IsValidMethod reports whether s names a known calculation method.
// Any method may switch to any other at any time.
func IsValidMethod(s string) bool {
	switch CalculationMethod(s) {
	case MethodStandard, MethodAreaVolume, MethodPitch:
		return true
	}
	return false
}

// Dim is an optional numeric input. The zero value means the field is blank.
type Dim struct {
	Value float64
	Set   bool
}

// DimOf wraps a populated dimension value.
func DimOf(v float64) Dim { return Dim{Value: v, Set: true} }

// CalcInput carries everything the calculator needs for one item. Only the
// fields belonging to Method participate in the result; the exhaustive switch
// in ComputeQuantity keeps stale dimensions of other modes from leaking in.
type CalcInput struct {
	Method           CalculationMethod
	ManualQuantity   Dim // STANDARD
	Width            Dim // AREA_VOLUME
	Depth            Dim
	Height           Dim
	RangeLength      Dim // PITCH
	Edge1            Dim
	Edge2            Dim
	PitchLength      Dim
	AdjustmentFactor float64
	RoundingUnit     float64
}

// FieldVisibility describes which inputs the editor row exposes for a method.
type FieldVisibility struct {
	ManualQuantity bool
	Dimensions     bool // width / depth / height
	Pitch          bool // range length / edges / pitch length
	Adjustment     bool // adjustment factor and rounding unit in the primary row
}

// VisibleFields returns the editor field visibility for a calculation method.
// STANDARD hides the adjustment factor and rounding unit from the primary row.
func VisibleFields(m CalculationMethod) FieldVisibility {
	switch m {
	case MethodAreaVolume:
		return FieldVisibility{Dimensions: true, Adjustment: true}
	case MethodPitch:
		return FieldVisibility{Pitch: true, Adjustment: true}
	default:
		return FieldVisibility{ManualQuantity: true}
	}
}

// NewItemInput returns the calculator state for a freshly created item:
// STANDARD, factor 1.00, rounding unit 0.01, no manual quantity.
func NewItemInput() CalcInput {
	return CalcInput{
		Method:           MethodStandard,
		AdjustmentFactor: DefaultAdjustmentFactor,
		RoundingUnit:     DefaultRoundingUnit,
	}
}

// ComputeQuantity derives the persisted quantity for one item.
//
// STANDARD passes the manually entered value through untouched. AREA_VOLUME
// and PITCH multiply their base by the adjustment factor and round the result
// up to the nearest multiple of the rounding unit. An incomplete dimension set
// is a valid state, not an error: the quantity is simply 0.
func ComputeQuantity(in CalcInput) float64 {
	switch in.Method {
	case MethodAreaVolume:
		if !in.Width.Set || !in.Depth.Set || !in.Height.Set {
			return 0
		}
		base := in.Width.Value * in.Depth.Value * in.Height.Value
		return CeilToUnit(base*in.AdjustmentFactor, in.RoundingUnit)
	case MethodPitch:
		if !in.RangeLength.Set || !in.PitchLength.Set || in.PitchLength.Value <= 0 {
			return 0
		}
		span := in.RangeLength.Value - in.Edge1.Value - in.Edge2.Value
		count := span/in.PitchLength.Value + 1
		if count < 0 {
			count = 0
		}
		return CeilToUnit(count*in.AdjustmentFactor, in.RoundingUnit)
	default:
		if !in.ManualQuantity.Set {
			return 0
		}
		return in.ManualQuantity.Value
	}
}

// CeilToUnit rounds v up to the smallest multiple of unit >= v.
// A non-positive unit falls back to the default 0.01.
func CeilToUnit(v, unit float64) float64 {
	if unit <= 0 {
		unit = DefaultRoundingUnit
	}
	// The tolerance keeps exact multiples (base 100, unit 10 -> 100) from
	// being pushed up a step by float noise. It scales with the ratio so
	// large quantities over small units stay stable too.
	ratio := v / unit
	eps := 1e-9 * math.Max(1, math.Abs(ratio))
	steps := math.Ceil(ratio - eps)
	return roundTo2(steps * unit)
}

// roundTo2 snaps a derived quantity to the 2-decimal grid it is persisted
// and displayed on. Rounding units are themselves 2-decimal values, so this
// never moves the result off a unit multiple.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckAdjustmentFactor reports a soft warning for a factor <= 0. The value
// is kept as entered.
func CheckAdjustmentFactor(v float64) (warned bool) {
	return v <= 0
}

// NormalizeRoundingUnit enforces the hard rule for rounding units: a value
// <= 0 is warned about and reset to the default 0.01 on blur.
func NormalizeRoundingUnit(v float64) (normalized float64, warned bool) {
	if v <= 0 {
		return DefaultRoundingUnit, true
	}
	return v, false
}
