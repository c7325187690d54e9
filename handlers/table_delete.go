package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleTableDelete soft-deletes a quantity table. The rows stay in place so
// statements created from the table keep working; the table just disappears
// from lists and the editor. Protected by the same concurrency token as save.
func HandleTableDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		record.Set("deleted", true)
		if err := app.Save(record); err != nil {
			log.Printf("table_delete: error saving %s: %v", tableID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Table deleted")
		return e.NoContent(http.StatusOK)
	}
}
