package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateTableExcel renders a quantity table as an Excel workbook: one
// section row per group followed by its items, in display order.
func GenerateTableExcel(data TableExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "QuantityTable"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 14, 14, 14, 14, 12, 24, 20, 8, 12, 20}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	titleStyle, headerStyle, groupStyle, itemStyle, qtyStyle, err := tableStyles(f)
	if err != nil {
		return nil, err
	}

	// Title and metadata rows.
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Project: "+data.ProjectName)
	f.SetCellValue(sheetName, "A3", "Date: "+data.CreatedDate)

	// Column headers.
	headers := []string{"#", "Major", "Medium", "Minor", "Custom", "Work Type", "Name", "Specification", "Unit", "Quantity", "Remarks"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, g := range data.Groups {
		rowStr := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
			return nil, fmt.Errorf("merge group row: %w", err)
		}
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(g.Title))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, groupStyle)
		row++

		for _, it := range g.Items {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, it.Index)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(it.MajorCategory))
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(it.MediumCategory))
			f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(it.MinorCategory))
			f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(it.CustomCategory))
			f.SetCellValue(sheetName, "F"+rowStr, sanitizeExcelCell(it.WorkType))
			f.SetCellValue(sheetName, "G"+rowStr, sanitizeExcelCell(it.Name))
			f.SetCellValue(sheetName, "H"+rowStr, sanitizeExcelCell(it.Specification))
			f.SetCellValue(sheetName, "I"+rowStr, sanitizeExcelCell(it.Unit))
			f.SetCellValue(sheetName, "J"+rowStr, FormatForDisplay(it.Quantity, true))
			f.SetCellValue(sheetName, "K"+rowStr, sanitizeExcelCell(it.Remarks))
			f.SetCellStyle(sheetName, "A"+rowStr, "I"+rowStr, itemStyle)
			f.SetCellStyle(sheetName, "J"+rowStr, "J"+rowStr, qtyStyle)
			f.SetCellStyle(sheetName, "K"+rowStr, "K"+rowStr, itemStyle)
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateStatementExcel renders an itemized statement as an Excel workbook.
func GenerateStatementExcel(data StatementExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Statement"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 16, 14, 26, 22, 8, 12}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	titleStyle, headerStyle, _, itemStyle, qtyStyle, err := tableStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Source: "+data.SourceTableName)
	f.SetCellValue(sheetName, "A3", "Date: "+data.CreatedDate)

	headers := []string{"#", "Custom Category", "Work Type", "Name", "Specification", "Unit", "Quantity"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for i, l := range data.Lines {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, i+1)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(l.CustomCategory))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(l.WorkType))
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(l.Name))
		f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(l.Specification))
		f.SetCellValue(sheetName, "F"+rowStr, sanitizeExcelCell(l.Unit))
		f.SetCellValue(sheetName, "G"+rowStr, FormatForDisplay(l.Quantity, true))
		f.SetCellStyle(sheetName, "A"+rowStr, "F"+rowStr, itemStyle)
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, qtyStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// tableStyles builds the shared style set: title, column header, group
// section row, item cell and right-aligned quantity cell.
func tableStyles(f *excelize.File) (title, header, group, item, qty int, err error) {
	title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("create title style: %w", err)
	}

	header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("create header style: %w", err)
	}

	group, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EEEEEE"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("create group style: %w", err)
	}

	item, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("create item style: %w", err)
	}

	// Numeric columns are right-aligned, matching the editor display contract.
	qty, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders(),
	})
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("create quantity style: %w", err)
	}
	return title, header, group, item, qty, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
