package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// StatementLineView is one formatted statement line.
type StatementLineView struct {
	CustomCategory string `json:"custom_category"`
	WorkType       string `json:"work_type"`
	Name           string `json:"name"`
	Specification  string `json:"specification"`
	Unit           string `json:"unit"`
	Quantity       string `json:"quantity"`
}

// HandleStatementView returns a statement with its lines in the default
// detail sort: custom category, work type, name, specification ascending,
// blank values last.
func HandleStatementView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		statementID := e.Request.PathValue("id")
		if statementID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing statement ID")
		}

		statement, err := app.FindRecordById("itemized_statements", statementID)
		if err != nil || statement.GetBool("deleted") {
			return ErrorToast(e, http.StatusNotFound, "Statement not found")
		}

		lines, err := loadStatementLines(app, statement.Id)
		if err != nil {
			log.Printf("statement_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		services.SortStatementLines(lines)

		views := make([]StatementLineView, 0, len(lines))
		for _, l := range lines {
			views = append(views, StatementLineView{
				CustomCategory: l.CustomCategory,
				WorkType:       l.WorkType,
				Name:           l.Name,
				Specification:  l.Specification,
				Unit:           l.Unit,
				Quantity:       services.FormatForDisplay(l.Quantity, true),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                statement.Id,
			"name":              statement.GetString("name"),
			"source_table_name": statement.GetString("source_table_name"),
			"updated":           statement.GetString("updated"),
			"lines":             views,
		})
	}
}

// loadStatementLines reads a statement's persisted lines in creation order.
func loadStatementLines(app core.App, statementID string) ([]services.StatementLine, error) {
	records, err := app.FindRecordsByFilter(
		"itemized_statement_items",
		"statement = {:statementId}",
		"sort_order",
		0,
		0,
		map[string]any{"statementId": statementID},
	)
	if err != nil {
		return nil, err
	}

	lines := make([]services.StatementLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, services.StatementLine{
			CustomCategory: r.GetString("custom_category"),
			WorkType:       r.GetString("work_type"),
			Name:           r.GetString("name"),
			Specification:  r.GetString("specification"),
			Unit:           r.GetString("unit"),
			Quantity:       r.GetFloat("quantity"),
		})
	}
	return lines, nil
}
