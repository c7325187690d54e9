package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// HandleStatementCreate builds an itemized statement from a quantity table.
// Items are aggregated by (custom category, work type, name, specification,
// unit) with quantities summed. The statement and all its lines are written
// in one transaction: on any failure nothing is persisted.
//
// The statement is a snapshot. It keeps only a denormalized reference to the
// source table and never changes when the table is edited later.
func HandleStatementCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		activeProj := GetActiveProject(e.Request)
		if activeProj == nil {
			return ErrorToast(e, http.StatusBadRequest, "Select a project first")
		}

		name := e.Request.FormValue("name")
		if err := services.ValidateRequiredName(name); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Statement name is required")
		}

		tableID := e.Request.FormValue("table")
		table, err := app.FindRecordById("quantity_tables", tableID)
		if err != nil || table.GetBool("deleted") {
			return ErrorToast(e, http.StatusNotFound, "Source table not found")
		}
		if table.GetString("project") != activeProj.ID {
			return ErrorToast(e, http.StatusNotFound, "Source table not found")
		}

		dupes, err := app.FindRecordsByFilter(
			"itemized_statements",
			"project = {:projectId} && name = {:name} && deleted = false",
			"",
			1,
			0,
			map[string]any{"projectId": activeProj.ID, "name": name},
		)
		if err != nil {
			log.Printf("statement_create: duplicate check failed: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if len(dupes) > 0 {
			return ErrorToast(e, http.StatusConflict, "A statement with this name already exists")
		}

		sources, err := collectPivotSources(app, table.Id)
		if err != nil {
			log.Printf("statement_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		lines, err := services.AggregateStatementItems(sources)
		if err != nil {
			if errors.Is(err, services.ErrQuantityOverflow) {
				return ErrorToast(e, http.StatusUnprocessableEntity, "A summed quantity exceeds the allowed range")
			}
			log.Printf("statement_create: aggregation failed: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		statementsCol, err := app.FindCollectionByNameOrId("itemized_statements")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		linesCol, err := app.FindCollectionByNameOrId("itemized_statement_items")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		statement := core.NewRecord(statementsCol)
		statement.Set("project", activeProj.ID)
		statement.Set("name", name)
		statement.Set("source_table", table.Id)
		statement.Set("source_table_name", table.GetString("name"))
		statement.Set("item_count", len(lines))

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(statement); err != nil {
				return err
			}
			for i, l := range lines {
				line := core.NewRecord(linesCol)
				line.Set("statement", statement.Id)
				line.Set("sort_order", i)
				line.Set("custom_category", l.CustomCategory)
				line.Set("work_type", l.WorkType)
				line.Set("name", l.Name)
				line.Set("specification", l.Specification)
				line.Set("unit", l.Unit)
				line.Set("quantity", l.Quantity)
				if err := txApp.Save(line); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("statement_create: transaction failed: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Statement created")
		return e.JSON(http.StatusOK, map[string]any{
			"id":         statement.Id,
			"item_count": len(lines),
		})
	}
}

// collectPivotSources flattens a table's groups and items, both in display
// order, into pivot input.
func collectPivotSources(app core.App, tableID string) ([]services.PivotSource, error) {
	groups, err := app.FindRecordsByFilter(
		"quantity_groups",
		"table = {:tableId}",
		"sort_order",
		0,
		0,
		map[string]any{"tableId": tableID},
	)
	if err != nil {
		return nil, err
	}

	var sources []services.PivotSource
	for _, g := range groups {
		items, err := app.FindRecordsByFilter(
			"quantity_items",
			"group = {:groupId}",
			"sort_order",
			0,
			0,
			map[string]any{"groupId": g.Id},
		)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			sources = append(sources, services.PivotSource{
				CustomCategory: it.GetString("custom_category"),
				WorkType:       it.GetString("work_type"),
				Name:           it.GetString("name"),
				Specification:  it.GetString("specification"),
				Unit:           it.GetString("unit"),
				Quantity:       it.GetFloat("quantity"),
			})
		}
	}
	return sources, nil
}
