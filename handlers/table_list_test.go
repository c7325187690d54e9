package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sekisan/testhelpers"
)

func TestHandleTableList_ExcludesDeletedAndOtherProjects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "List Project")
	other := testhelpers.CreateTestProject(t, app, "Other Project")
	testhelpers.CreateTestTable(t, app, proj.Id, "Visible Table")
	deleted := testhelpers.CreateTestTable(t, app, proj.Id, "Deleted Table")
	deleted.Set("deleted", true)
	if err := app.Save(deleted); err != nil {
		t.Fatalf("setup save: %v", err)
	}
	testhelpers.CreateTestTable(t, app, other.Id, "Foreign Table")

	handler := HandleTableList(app)
	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req = withActiveProject(req, proj.Id, proj.GetString("name"))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Tables []TableListEntry `json:"tables"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(resp.Tables))
	}
	if resp.Tables[0].Name != "Visible Table" {
		t.Errorf("expected the live table of the active project, got %q", resp.Tables[0].Name)
	}
}
