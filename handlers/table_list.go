package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// TableListEntry is one row in the quantity table list.
type TableListEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

// HandleTableList lists the live (not soft-deleted) quantity tables of the
// active project, newest first.
func HandleTableList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		activeProj := GetActiveProject(e.Request)
		if activeProj == nil {
			return ErrorToast(e, http.StatusBadRequest, "Select a project first")
		}

		records, err := app.FindRecordsByFilter(
			"quantity_tables",
			"project = {:projectId} && deleted = false",
			"-created",
			0,
			0,
			map[string]any{"projectId": activeProj.ID},
		)
		if err != nil {
			log.Printf("table_list: could not query tables of project %s: %v", activeProj.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]TableListEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, TableListEntry{
				ID:      r.Id,
				Name:    r.GetString("name"),
				Created: r.GetString("created"),
				Updated: r.GetString("updated"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"tables": entries})
	}
}
