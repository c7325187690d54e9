package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// buildTableExportData fetches a quantity table with all groups and items
// for the Excel builder.
func buildTableExportData(app *pocketbase.PocketBase, tableID string) (services.TableExportData, error) {
	table, err := app.FindRecordById("quantity_tables", tableID)
	if err != nil || table.GetBool("deleted") {
		return services.TableExportData{}, fmt.Errorf("table not found: %w", err)
	}

	projectName := ""
	if project, err := app.FindRecordById("projects", table.GetString("project")); err == nil {
		projectName = project.GetString("name")
	}

	createdDate := ""
	if dt := table.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	data := services.TableExportData{
		Title:       table.GetString("name"),
		ProjectName: projectName,
		CreatedDate: createdDate,
	}

	groups, err := app.FindRecordsByFilter(
		"quantity_groups",
		"table = {:tableId}",
		"sort_order",
		0,
		0,
		map[string]any{"tableId": table.Id},
	)
	if err != nil {
		return data, fmt.Errorf("query groups of table %s: %w", table.Id, err)
	}

	rowNum := 0
	for gi, g := range groups {
		title := g.GetString("title")
		if title == "" {
			title = fmt.Sprintf("Group %d", gi+1)
		}
		eg := services.TableExportGroup{Title: title}

		items, err := app.FindRecordsByFilter(
			"quantity_items",
			"group = {:groupId}",
			"sort_order",
			0,
			0,
			map[string]any{"groupId": g.Id},
		)
		if err != nil {
			return data, fmt.Errorf("query items of group %s: %w", g.Id, err)
		}

		for _, it := range items {
			rowNum++
			eg.Items = append(eg.Items, services.TableExportItem{
				Index:          fmt.Sprintf("%d", rowNum),
				MajorCategory:  it.GetString("major_category"),
				MediumCategory: it.GetString("medium_category"),
				MinorCategory:  it.GetString("minor_category"),
				CustomCategory: it.GetString("custom_category"),
				WorkType:       it.GetString("work_type"),
				Name:           it.GetString("name"),
				Specification:  it.GetString("specification"),
				Unit:           it.GetString("unit"),
				Method:         services.CalculationMethod(it.GetString("calculation_method")),
				Quantity:       it.GetFloat("quantity"),
				Remarks:        it.GetString("remarks"),
			})
		}
		data.Groups = append(data.Groups, eg)
	}
	return data, nil
}

// buildStatementExportData fetches a statement with its lines in the default
// detail sort for the Excel and PDF builders.
func buildStatementExportData(app *pocketbase.PocketBase, statementID string) (services.StatementExportData, error) {
	statement, err := app.FindRecordById("itemized_statements", statementID)
	if err != nil || statement.GetBool("deleted") {
		return services.StatementExportData{}, fmt.Errorf("statement not found: %w", err)
	}

	projectName := ""
	if project, err := app.FindRecordById("projects", statement.GetString("project")); err == nil {
		projectName = project.GetString("name")
	}

	createdDate := ""
	if dt := statement.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	lines, err := loadStatementLines(app, statement.Id)
	if err != nil {
		return services.StatementExportData{}, fmt.Errorf("query lines of statement %s: %w", statement.Id, err)
	}
	services.SortStatementLines(lines)

	return services.StatementExportData{
		Title:           statement.GetString("name"),
		ProjectName:     projectName,
		SourceTableName: statement.GetString("source_table_name"),
		CreatedDate:     createdDate,
		Lines:           lines,
	}, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleTableExportExcel generates and downloads an Excel file for a quantity table.
func HandleTableExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tableID := e.Request.PathValue("id")
		if tableID == "" {
			return e.String(http.StatusBadRequest, "Missing table ID")
		}

		data, err := buildTableExportData(app, tableID)
		if err != nil {
			log.Printf("table_export_excel: %v", err)
			return e.String(http.StatusNotFound, "Table not found")
		}

		xlsxBytes, err := services.GenerateTableExcel(data)
		if err != nil {
			log.Printf("table_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("QuantityTable_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleStatementExportExcel generates and downloads an Excel file for an
// itemized statement.
func HandleStatementExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		statementID := e.Request.PathValue("id")
		if statementID == "" {
			return e.String(http.StatusBadRequest, "Missing statement ID")
		}

		data, err := buildStatementExportData(app, statementID)
		if err != nil {
			log.Printf("statement_export_excel: %v", err)
			return e.String(http.StatusNotFound, "Statement not found")
		}

		xlsxBytes, err := services.GenerateStatementExcel(data)
		if err != nil {
			log.Printf("statement_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Statement_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleStatementExportPDF generates and downloads a PDF file for an
// itemized statement.
func HandleStatementExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		statementID := e.Request.PathValue("id")
		if statementID == "" {
			return e.String(http.StatusBadRequest, "Missing statement ID")
		}

		data, err := buildStatementExportData(app, statementID)
		if err != nil {
			log.Printf("statement_export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Statement not found")
		}

		pdfBytes, err := services.GenerateStatementPDF(data)
		if err != nil {
			log.Printf("statement_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Statement_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
