package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// StatementListEntry is one row in the itemized statement list.
type StatementListEntry struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SourceTableName string `json:"source_table_name"`
	ItemCount       int    `json:"item_count"`
	Created         string `json:"created"`
}

// HandleStatementList lists the live statements of the active project,
// newest first.
func HandleStatementList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		activeProj := GetActiveProject(e.Request)
		if activeProj == nil {
			return ErrorToast(e, http.StatusBadRequest, "Select a project first")
		}

		records, err := app.FindRecordsByFilter(
			"itemized_statements",
			"project = {:projectId} && deleted = false",
			"-created",
			0,
			0,
			map[string]any{"projectId": activeProj.ID},
		)
		if err != nil {
			log.Printf("statement_list: could not query statements of project %s: %v", activeProj.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]StatementListEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, StatementListEntry{
				ID:              r.Id,
				Name:            r.GetString("name"),
				SourceTableName: r.GetString("source_table_name"),
				ItemCount:       int(r.GetFloat("item_count")),
				Created:         r.GetString("created"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"statements": entries})
	}
}
