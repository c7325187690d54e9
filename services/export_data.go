package services

// TableExportItem is one quantity item row in a table export.
type TableExportItem struct {
	Index          string
	MajorCategory  string
	MediumCategory string
	MinorCategory  string
	CustomCategory string
	WorkType       string
	Name           string
	Specification  string
	Unit           string
	Method         CalculationMethod
	Quantity       float64
	Remarks        string
}

// TableExportGroup is one quantity group with its items in display order.
type TableExportGroup struct {
	Title string
	Items []TableExportItem
}

// TableExportData is everything the Excel builder needs for one table.
type TableExportData struct {
	Title       string
	ProjectName string
	CreatedDate string
	Groups      []TableExportGroup
}

// StatementExportData is everything the Excel/PDF builders need for one
// itemized statement.
type StatementExportData struct {
	Title           string
	ProjectName     string
	SourceTableName string
	CreatedDate     string
	Lines           []StatementLine
}
