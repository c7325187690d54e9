package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleStatementDelete soft-deletes an itemized statement. Its lines stay in
// place in case the deletion needs to be audited; the statement disappears
// from lists. Protected by the "updated" concurrency token.
func HandleStatementDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		statementID := e.Request.PathValue("id")
		if statementID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing statement ID")
		}

		record, err := app.FindRecordById("itemized_statements", statementID)
		if err != nil || record.GetBool("deleted") {
			return ErrorToast(e, http.StatusNotFound, "Statement not found")
		}

		if staleToken(e, record) {
			return ErrorToast(e, http.StatusConflict, "This statement was changed by someone else. Reload and try again.")
		}

		record.Set("deleted", true)
		if err := app.Save(record); err != nil {
			log.Printf("statement_delete: error saving %s: %v", statementID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Statement deleted")
		return e.NoContent(http.StatusOK)
	}
}
