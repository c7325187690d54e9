package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const ActiveProjectKey contextKey = "activeProject"

// ActiveProject identifies the project the editing session is scoped to.
type ActiveProject struct {
	ID   string
	Name string
}

// GetActiveProject extracts the active project from the request context.
func GetActiveProject(r *http.Request) *ActiveProject {
	if val, ok := r.Context().Value(ActiveProjectKey).(*ActiveProject); ok {
		return val
	}
	return nil
}

// ActiveProjectMiddleware reads the "active_project" cookie, loads the
// project record and stores it in the request context so handlers can scope
// queries and redirects without re-resolving it.
func ActiveProjectMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var activeProj *ActiveProject

		cookie, err := e.Request.Cookie("active_project")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("projects", cookie.Value)
			if err == nil {
				activeProj = &ActiveProject{
					ID:   rec.Id,
					Name: rec.GetString("name"),
				}
			} else {
				log.Printf("middleware: active project %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_project",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		ctx := context.WithValue(e.Request.Context(), ActiveProjectKey, activeProj)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
