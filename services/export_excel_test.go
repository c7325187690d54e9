package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateTableExcel_Basic(t *testing.T) {
	data := TableExportData{
		Title:       "Foundation Quantities",
		ProjectName: "Office Building A",
		CreatedDate: "2026-08-30",
		Groups: []TableExportGroup{
			{
				Title: "Group 1",
				Items: []TableExportItem{
					{Index: "1", MajorCategory: "Earthwork", WorkType: "Excavation", Name: "Trench", Specification: "W600", Unit: "m3", Method: MethodAreaVolume, Quantity: 100},
					{Index: "2", Name: "Backfill", Unit: "m3", Method: MethodStandard, Quantity: 42.5},
				},
			},
		},
	}

	result, err := GenerateTableExcel(data)
	if err != nil {
		t.Fatalf("GenerateTableExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateTableExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Foundation Quantities" {
		t.Errorf("expected sheet name 'Foundation Quantities', got %v", sheets)
	}

	title, _ := f.GetCellValue(sheets[0], "A1")
	if title != "Foundation Quantities" {
		t.Errorf("expected title in A1, got %q", title)
	}

	// Group section row sits above the first item row.
	group, _ := f.GetCellValue(sheets[0], "A6")
	if group != "Group 1" {
		t.Errorf("expected group title in A6, got %q", group)
	}

	qty, _ := f.GetCellValue(sheets[0], "J7")
	if qty != "100.00" {
		t.Errorf("expected 2-decimal quantity in J7, got %q", qty)
	}
}

func TestGenerateTableExcel_Empty(t *testing.T) {
	result, err := GenerateTableExcel(TableExportData{CreatedDate: "2026-08-30"})
	if err != nil {
		t.Fatalf("GenerateTableExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("empty table should still produce a workbook")
	}
}

func TestGenerateStatementExcel_Basic(t *testing.T) {
	data := StatementExportData{
		Title:           "Statement 1",
		SourceTableName: "Foundation Quantities",
		CreatedDate:     "2026-08-30",
		Lines: []StatementLine{
			{CustomCategory: "Earthwork", WorkType: "Excavation", Name: "Trench", Specification: "W600", Unit: "m3", Quantity: 15.5},
			{Name: "Backfill", Unit: "m3", Quantity: 42.5},
		},
	}

	result, err := GenerateStatementExcel(data)
	if err != nil {
		t.Fatalf("GenerateStatementExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	name, _ := f.GetCellValue(sheet, "D6")
	if name != "Trench" {
		t.Errorf("expected first line name in D6, got %q", name)
	}
	qty, _ := f.GetCellValue(sheet, "G7")
	if qty != "42.50" {
		t.Errorf("expected 2-decimal quantity in G7, got %q", qty)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal", "normal"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
