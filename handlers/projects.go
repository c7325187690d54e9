package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// ProjectListEntry is one row in the project list.
type ProjectListEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Client  string `json:"client"`
	Status  string `json:"status"`
	Updated string `json:"updated"`
}

// HandleProjectList lists all projects, newest first.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("projects", "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]ProjectListEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, ProjectListEntry{
				ID:      r.Id,
				Name:    r.GetString("name"),
				Client:  r.GetString("client"),
				Status:  r.GetString("status"),
				Updated: r.GetString("updated"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"projects": entries})
	}
}

// HandleProjectCreate creates a project.
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name := e.Request.FormValue("name")
		if err := services.ValidateRequiredName(name); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Project name is required")
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("name", name)
		record.Set("client", e.Request.FormValue("client"))
		record.Set("status", "active")

		if err := app.Save(record); err != nil {
			log.Printf("project_create: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Project created")
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandleProjectEdit updates individual fields on a project.
func HandleProjectEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing project ID")
		}

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		for key, values := range e.Request.Form {
			if len(values) == 0 {
				continue
			}
			val := values[0]
			switch key {
			case "name":
				if err := services.ValidateRequiredName(val); err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Project name is required")
				}
				record.Set("name", val)
			case "client":
				record.Set("client", val)
			case "status":
				record.Set("status", val)
			}
		}

		if err := app.Save(record); err != nil {
			log.Printf("project_edit: error saving %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "info", "Project saved")
		return e.NoContent(http.StatusOK)
	}
}

// HandleProjectDelete deletes a project. PocketBase cascade removes its
// surveys, tables and statements.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing project ID")
		}

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("project_delete: error deleting %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Project deleted")
		return e.NoContent(http.StatusOK)
	}
}

// HandleProjectSwitch sets the active project cookie used by the
// project-scoped list and create handlers.
func HandleProjectSwitch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing project ID")
		}

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_project",
			Value:    record.Id,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, "success", "Switched to "+record.GetString("name"))
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}
