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

func TestHandleAddGroup_Appends(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Group Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Group Table")
	testhelpers.CreateTestGroup(t, app, table.Id, 0)

	handler := HandleAddGroup(app)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tables/%s/groups", table.Id), nil)
	req.SetPathValue("id", table.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID        string `json:"id"`
		SortOrder int    `json:"sort_order"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.SortOrder != 1 {
		t.Errorf("expected sort_order 1, got %d", resp.SortOrder)
	}
}

func TestHandleAddGroup_DeletedTable(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Gone Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Gone Table")
	table.Set("deleted", true)
	if err := app.Save(table); err != nil {
		t.Fatalf("setup save: %v", err)
	}

	handler := HandleAddGroup(app)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tables/%s/groups", table.Id), nil)
	req.SetPathValue("id", table.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for soft-deleted table, got %d", rec.Code)
	}
}

func TestHandleDeleteGroup_CascadesAndRenumbers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "GDelete Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "GDelete Table")
	g0 := testhelpers.CreateTestGroup(t, app, table.Id, 0)
	g1 := testhelpers.CreateTestGroup(t, app, table.Id, 1)
	g2 := testhelpers.CreateTestGroup(t, app, table.Id, 2)
	orphan := testhelpers.CreateTestItem(t, app, g1.Id, 0, "Doomed")

	handler := HandleDeleteGroup(app)
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/tables/%s/groups/%s", table.Id, g1.Id), nil)
	req.SetPathValue("id", table.Id)
	req.SetPathValue("groupId", g1.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := app.FindRecordById("quantity_groups", g1.Id); err == nil {
		t.Error("expected group to be deleted")
	}
	if _, err := app.FindRecordById("quantity_items", orphan.Id); err == nil {
		t.Error("expected cascade to delete the group's items")
	}
	first, _ := app.FindRecordById("quantity_groups", g0.Id)
	if got := int(first.GetFloat("sort_order")); got != 0 {
		t.Errorf("expected first group at 0, got %d", got)
	}
	last, _ := app.FindRecordById("quantity_groups", g2.Id)
	if got := int(last.GetFloat("sort_order")); got != 1 {
		t.Errorf("expected last group renumbered to 1, got %d", got)
	}
}

func TestHandleMoveGroup_Reorders(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "GMove Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "GMove Table")
	g0 := testhelpers.CreateTestGroup(t, app, table.Id, 0)
	g1 := testhelpers.CreateTestGroup(t, app, table.Id, 1)
	g2 := testhelpers.CreateTestGroup(t, app, table.Id, 2)

	handler := HandleMoveGroup(app)
	form := url.Values{}
	form.Set("position", "0")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tables/%s/groups/%s/move", table.Id, g2.Id), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", table.Id)
	req.SetPathValue("groupId", g2.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	want := map[string]int{g2.Id: 0, g0.Id: 1, g1.Id: 2}
	for id, pos := range want {
		r, _ := app.FindRecordById("quantity_groups", id)
		if got := int(r.GetFloat("sort_order")); got != pos {
			t.Errorf("group %s: expected sort_order %d, got %d", id, pos, got)
		}
	}
}

func TestHandleRenameGroup(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "GRename Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "GRename Table")
	group := testhelpers.CreateTestGroup(t, app, table.Id, 0)

	handler := HandleRenameGroup(app)
	form := url.Values{}
	form.Set("title", "基礎躯体")
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/tables/%s/groups/%s", table.Id, group.Id), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", table.Id)
	req.SetPathValue("groupId", group.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	saved, _ := app.FindRecordById("quantity_groups", group.Id)
	if got := saved.GetString("title"); got != "基礎躯体" {
		t.Errorf("expected title saved, got %q", got)
	}
}

func TestHandleLinkGroupPhoto_SnapshotsAnnotatedFlag(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Photo Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Photo Table")
	group := testhelpers.CreateTestGroup(t, app, table.Id, 0)

	survey := testhelpers.CreateTestSurvey(t, app, proj.Id, "現地調査")
	photo := testhelpers.CreateTestPhoto(t, app, survey.Id, "北側全景", true)

	handler := HandleLinkGroupPhoto(app)
	form := url.Values{}
	form.Set("photo", photo.Id)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tables/%s/groups/%s/photo", table.Id, group.Id), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", table.Id)
	req.SetPathValue("groupId", group.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	saved, _ := app.FindRecordById("quantity_groups", group.Id)
	if got := saved.GetString("photo"); got != photo.Id {
		t.Errorf("expected photo linked, got %q", got)
	}
	if !saved.GetBool("photo_annotated") {
		t.Error("expected annotated flag snapshotted onto the group")
	}
}
