package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"sekisan/testhelpers"
)

// doCreateStatement posts a statement creation request for the given table.
func doCreateStatement(t *testing.T, app *pocketbase.PocketBase, projID, tableID, name string) *httptest.ResponseRecorder {
	t.Helper()
	handler := HandleStatementCreate(app)
	form := url.Values{}
	form.Set("name", name)
	form.Set("table", tableID)
	req := httptest.NewRequest(http.MethodPost, "/statements", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withActiveProject(req, projID, "Test Project")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// setItemPivotFields fills the aggregation key fields and quantity of an item.
func setItemPivotFields(t *testing.T, app *pocketbase.PocketBase, itemID, custom, work, name, spec, unit string, qty float64) {
	t.Helper()
	item, err := app.FindRecordById("quantity_items", itemID)
	if err != nil {
		t.Fatalf("item not found: %v", err)
	}
	item.Set("custom_category", custom)
	item.Set("work_type", work)
	item.Set("name", name)
	item.Set("specification", spec)
	item.Set("unit", unit)
	item.Set("quantity", qty)
	if err := app.Save(item); err != nil {
		t.Fatalf("setup save: %v", err)
	}
}

func TestHandleStatementCreate_AggregatesMatchingItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Agg Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Agg Table")
	g0 := testhelpers.CreateTestGroup(t, app, table.Id, 0)
	g1 := testhelpers.CreateTestGroup(t, app, table.Id, 1)
	a := testhelpers.CreateTestItem(t, app, g0.Id, 0, "x")
	b := testhelpers.CreateTestItem(t, app, g0.Id, 1, "x")
	c := testhelpers.CreateTestItem(t, app, g1.Id, 0, "x")
	setItemPivotFields(t, app, a.Id, "外構", "掘削", "床付け", "W600", "m3", 10)
	setItemPivotFields(t, app, b.Id, "外構", "掘削", "床付け", "W600", "m3", 5.5)
	setItemPivotFields(t, app, c.Id, "外構", "掘削", "床付け", "W900", "m3", 2)

	rec := doCreateStatement(t, app, proj.Id, table.Id, "明細書A")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID        string `json:"id"`
		ItemCount int    `json:"item_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.ItemCount != 2 {
		t.Fatalf("expected 2 aggregated lines, got %d", resp.ItemCount)
	}

	lines, err := app.FindRecordsByFilter("itemized_statement_items", "statement = {:id}", "sort_order", 0, 0, map[string]any{"id": resp.ID})
	if err != nil {
		t.Fatalf("could not query lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 persisted lines, got %d", len(lines))
	}
	if got := lines[0].GetFloat("quantity"); got != 15.5 {
		t.Errorf("expected summed quantity 15.5, got %v", got)
	}
	if got := lines[1].GetFloat("quantity"); got != 2 {
		t.Errorf("expected separate W900 line with quantity 2, got %v", got)
	}

	statement, _ := app.FindRecordById("itemized_statements", resp.ID)
	if got := statement.GetString("source_table_name"); got != "Agg Table" {
		t.Errorf("expected denormalized source table name, got %q", got)
	}
}

func TestHandleStatementCreate_DuplicateName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Dup Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Dup Table")
	testhelpers.CreateTestGroup(t, app, table.Id, 0)

	rec := doCreateStatement(t, app, proj.Id, table.Id, "重複名")
	if rec.Code != http.StatusOK {
		t.Fatalf("first create failed: %d", rec.Code)
	}
	rec = doCreateStatement(t, app, proj.Id, table.Id, "重複名")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate name, got %d", rec.Code)
	}
}

func TestHandleStatementCreate_DeletedStatementFreesName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Reuse Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Reuse Table")
	testhelpers.CreateTestGroup(t, app, table.Id, 0)

	rec := doCreateStatement(t, app, proj.Id, table.Id, "再利用")
	if rec.Code != http.StatusOK {
		t.Fatalf("first create failed: %d", rec.Code)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	first, _ := app.FindRecordById("itemized_statements", resp.ID)
	first.Set("deleted", true)
	if err := app.Save(first); err != nil {
		t.Fatalf("setup save: %v", err)
	}

	rec = doCreateStatement(t, app, proj.Id, table.Id, "再利用")
	if rec.Code != http.StatusOK {
		t.Errorf("expected deleted statement to free its name, got %d", rec.Code)
	}
}

func TestHandleStatementCreate_OverflowPersistsNothing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Overflow Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Overflow Table")
	g := testhelpers.CreateTestGroup(t, app, table.Id, 0)
	a := testhelpers.CreateTestItem(t, app, g.Id, 0, "x")
	b := testhelpers.CreateTestItem(t, app, g.Id, 1, "x")
	setItemPivotFields(t, app, a.Id, "", "", "big", "", "m3", 9999999.99)
	setItemPivotFields(t, app, b.Id, "", "", "big", "", "m3", 9999999.99)

	rec := doCreateStatement(t, app, proj.Id, table.Id, "溢れる明細")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on overflow, got %d", rec.Code)
	}

	statements, err := app.FindRecordsByFilter("itemized_statements", "project = {:p}", "", 0, 0, map[string]any{"p": proj.Id})
	if err != nil {
		t.Fatalf("could not query statements: %v", err)
	}
	if len(statements) != 0 {
		t.Errorf("expected no statement persisted after overflow, got %d", len(statements))
	}
}

func TestHandleStatementCreate_SnapshotIgnoresLaterEdits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Snapshot Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Snapshot Table")
	g := testhelpers.CreateTestGroup(t, app, table.Id, 0)
	item := testhelpers.CreateTestItem(t, app, g.Id, 0, "x")
	setItemPivotFields(t, app, item.Id, "", "掘削", "床付け", "", "m3", 42)

	rec := doCreateStatement(t, app, proj.Id, table.Id, "固定明細")
	if rec.Code != http.StatusOK {
		t.Fatalf("create failed: %d", rec.Code)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	// Change the source after the snapshot was taken.
	setItemPivotFields(t, app, item.Id, "", "掘削", "床付け", "", "m3", 999)

	lines, err := app.FindRecordsByFilter("itemized_statement_items", "statement = {:id}", "sort_order", 0, 0, map[string]any{"id": resp.ID})
	if err != nil {
		t.Fatalf("could not query lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if got := lines[0].GetFloat("quantity"); got != 42 {
		t.Errorf("expected snapshot quantity 42, got %v", got)
	}
}

func TestHandleStatementCreate_DeletedSourceTable(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Gone Source Project")
	table := testhelpers.CreateTestTable(t, app, proj.Id, "Gone Source")
	table.Set("deleted", true)
	if err := app.Save(table); err != nil {
		t.Fatalf("setup save: %v", err)
	}

	rec := doCreateStatement(t, app, proj.Id, table.Id, "行き場なし")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for deleted source table, got %d", rec.Code)
	}
}
