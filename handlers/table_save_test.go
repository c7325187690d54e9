package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sekisan/testhelpers"
)

func TestHandleTableSave_Renames(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Save Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Old Name")

	handler := HandleTableSave(app)
	form := url.Values{}
	form.Set("name", "New Name")
	form.Set("updated", table.GetString("updated"))
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tables/%s/save", table.Id), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", table.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := app.FindRecordById("quantity_tables", table.Id)
	if got := saved.GetString("name"); got != "New Name" {
		t.Errorf("expected renamed table, got %q", got)
	}

	// The response carries the fresh token for the next save.
	var resp struct {
		Updated string `json:"updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Updated == "" {
		t.Error("expected a fresh updated token in the response")
	}
}

func TestHandleTableSave_StaleTokenConflicts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Conflict Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Contested")

	handler := HandleTableSave(app)
	form := url.Values{}
	form.Set("name", "Losing Edit")
	form.Set("updated", "2000-01-01 00:00:00.000Z")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tables/%s/save", table.Id), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", table.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stale token, got %d", rec.Code)
	}

	saved, _ := app.FindRecordById("quantity_tables", table.Id)
	if got := saved.GetString("name"); got != "Contested" {
		t.Errorf("expected name unchanged after conflict, got %q", got)
	}
}
