package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateStatementPDF creates a PDF document for an itemized statement
// using maroto/v2. It returns the raw PDF bytes or an error.
func GenerateStatementPDF(data StatementExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addStatementHeader(m, data)
	addStatementTableHeader(m)
	for i, l := range data.Lines {
		addStatementRow(m, i, l)
	}
	addStatementFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addStatementHeader adds the title, source table and date lines.
func addStatementHeader(m core.Maroto, data StatementExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Source: %s", data.SourceTableName), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addStatementTableHeader adds the column header row.
func addStatementTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Custom Category", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Work Type", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Name", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Specification", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addStatementRow adds one statement line, zebra-striped by row index.
func addStatementRow(m core.Maroto, idx int, l StatementLine) {
	var cellStyle *props.Cell
	if idx%2 == 1 {
		bg := &props.Color{Red: 245, Green: 245, Blue: 245}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colIndex := col.New(1).Add(text.New(fmt.Sprintf("%d", idx+1), baseText))
	colCustom := col.New(2).Add(text.New(l.CustomCategory, leftText))
	colWork := col.New(2).Add(text.New(l.WorkType, leftText))
	colName := col.New(3).Add(text.New(l.Name, leftText))
	colSpec := col.New(2).Add(text.New(l.Specification, leftText))
	colUnit := col.New(1).Add(text.New(l.Unit, baseText))
	colQty := col.New(1).Add(text.New(FormatForDisplay(l.Quantity, true), rightText))

	if cellStyle != nil {
		colIndex = colIndex.WithStyle(cellStyle)
		colCustom = colCustom.WithStyle(cellStyle)
		colWork = colWork.WithStyle(cellStyle)
		colName = colName.WithStyle(cellStyle)
		colSpec = colSpec.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex,
			colCustom,
			colWork,
			colName,
			colSpec,
			colUnit,
			colQty,
		),
	)
}

// addStatementFooter adds the generated-date line at the bottom.
func addStatementFooter(m core.Maroto, data StatementExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
