package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// withActiveProject injects the active project into the request context the
// way ActiveProjectMiddleware would.
func withActiveProject(req *http.Request, id, name string) *http.Request {
	ctx := context.WithValue(req.Context(), ActiveProjectKey, &ActiveProject{ID: id, Name: name})
	return req.WithContext(ctx)
}
