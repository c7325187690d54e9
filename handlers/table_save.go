package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// HandleTableSave renames a quantity table. The client echoes the "updated"
// token it last saw; a mismatch means another session saved in between and
// the request is rejected with 409 instead of silently overwriting.
func HandleTableSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tableID := e.Request.PathValue("id")
		if tableID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing table ID")
		}

		record, err := app.FindRecordById("quantity_tables", tableID)
		if err != nil || record.GetBool("deleted") {
			return ErrorToast(e, http.StatusNotFound, "Table not found")
		}

		if staleToken(e, record) {
			return ErrorToast(e, http.StatusConflict, "This table was changed by someone else. Reload and try again.")
		}

		name := e.Request.FormValue("name")
		if err := services.ValidateRequiredName(name); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Table name is required")
		}

		record.Set("name", name)
		if err := app.Save(record); err != nil {
			log.Printf("table_save: error saving %s: %v", tableID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Table saved")
		return e.JSON(http.StatusOK, map[string]any{"updated": record.GetString("updated")})
	}
}
