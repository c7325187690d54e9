package services

import (
	"strings"
	"testing"
)

func TestHalfWidthLen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"ascii", "abc123", 6},
		{"full-width kanji", "工事", 4},
		{"full-width katakana", "コンクリート", 12},
		{"half-width katakana", "ｺﾝｸﾘｰﾄ", 6},
		{"mixed", "W600工", 6},
		{"full-width digits", "１２３", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HalfWidthLen(tt.input); got != tt.want {
				t.Errorf("HalfWidthLen(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateItemFields(t *testing.T) {
	valid := ItemFields{
		MajorCategory: "土工事",
		WorkType:      "掘削",
		Name:          "床付け",
		Specification: "W600",
		Unit:          "m3",
	}
	if err := ValidateItemFields(valid); err != nil {
		t.Fatalf("valid fields rejected: %v", err)
	}

	// 25 full-width characters fit the 50 half-width name limit exactly.
	atLimit := valid
	atLimit.Name = strings.Repeat("あ", 25)
	if err := ValidateItemFields(atLimit); err != nil {
		t.Errorf("25 full-width name should pass: %v", err)
	}

	overLimit := valid
	overLimit.Name = strings.Repeat("あ", 26)
	if err := ValidateItemFields(overLimit); err == nil {
		t.Error("26 full-width name should fail the 50 half-width limit")
	}

	missingName := valid
	missingName.Name = ""
	if err := ValidateItemFields(missingName); err == nil {
		t.Error("blank name should block save")
	}

	longWorkType := valid
	longWorkType.WorkType = strings.Repeat("型", 9) // 18 half-width, limit 16
	if err := ValidateItemFields(longWorkType); err == nil {
		t.Error("work type over 16 half-width should fail")
	}

	longUnit := valid
	longUnit.Unit = "pieces!" // 7 half-width, limit 6
	if err := ValidateItemFields(longUnit); err == nil {
		t.Error("unit over 6 half-width should fail")
	}

	// 3 full-width characters fit the unit limit exactly.
	fullWidthUnit := valid
	fullWidthUnit.Unit = "立米個"
	if err := ValidateItemFields(fullWidthUnit); err != nil {
		t.Errorf("3 full-width unit should pass: %v", err)
	}
}

func TestValidateRequiredName(t *testing.T) {
	if err := ValidateRequiredName("基礎工事数量表"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateRequiredName(""); err == nil {
		t.Error("blank name should be rejected")
	}
	if err := ValidateRequiredName(strings.Repeat("x", 51)); err == nil {
		t.Error("51 half-width name should be rejected")
	}
}
