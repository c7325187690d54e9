package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// HandleTableCreate creates a quantity table in the active project. The new
// table starts with one empty group so the editor has a row to type into.
func HandleTableCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		activeProj := GetActiveProject(e.Request)
		if activeProj == nil {
			return ErrorToast(e, http.StatusBadRequest, "Select a project first")
		}

		name := e.Request.FormValue("name")
		if err := services.ValidateRequiredName(name); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Table name is required")
		}

		tablesCol, err := app.FindCollectionByNameOrId("quantity_tables")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		groupsCol, err := app.FindCollectionByNameOrId("quantity_groups")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		table := core.NewRecord(tablesCol)
		table.Set("project", activeProj.ID)
		table.Set("name", name)
		if err := app.Save(table); err != nil {
			log.Printf("table_create: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		group := core.NewRecord(groupsCol)
		group.Set("table", table.Id)
		group.Set("sort_order", 0)
		if err := app.Save(group); err != nil {
			log.Printf("table_create: error saving initial group: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Table created")
		return e.JSON(http.StatusOK, map[string]any{"id": table.Id})
	}
}
