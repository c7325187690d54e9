// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestPartner creates a trading partner record.
func CreateTestPartner(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("trading_partners")
	if err != nil {
		t.Fatalf("failed to find trading_partners collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("partner_type", "subcontractor")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test partner: %v", err)
	}

	return record
}

// CreateTestTable creates a quantity table linked to a project.
func CreateTestTable(t *testing.T, app *pocketbase.PocketBase, projectID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quantity_tables")
	if err != nil {
		t.Fatalf("failed to find quantity_tables collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test table: %v", err)
	}

	return record
}

// CreateTestGroup creates a quantity group with the given sort order.
func CreateTestGroup(t *testing.T, app *pocketbase.PocketBase, tableID string, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quantity_groups")
	if err != nil {
		t.Fatalf("failed to find quantity_groups collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("table", tableID)
	record.Set("sort_order", sortOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test group: %v", err)
	}

	return record
}

// CreateTestItem creates a STANDARD quantity item with calculator defaults.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, groupID string, sortOrder int, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quantity_items")
	if err != nil {
		t.Fatalf("failed to find quantity_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("group", groupID)
	record.Set("sort_order", sortOrder)
	record.Set("name", name)
	record.Set("unit", "m3")
	record.Set("calculation_method", "STANDARD")
	record.Set("adjustment_factor", 1.00)
	record.Set("rounding_unit", 0.01)
	record.Set("quantity", 0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestSurvey creates a survey linked to a project.
func CreateTestSurvey(t *testing.T, app *pocketbase.PocketBase, projectID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("surveys")
	if err != nil {
		t.Fatalf("failed to find surveys collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test survey: %v", err)
	}

	return record
}

// CreateTestPhoto creates a survey photo with the given annotated flag.
func CreateTestPhoto(t *testing.T, app *pocketbase.PocketBase, surveyID, caption string, annotated bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("survey_photos")
	if err != nil {
		t.Fatalf("failed to find survey_photos collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("survey", surveyID)
	record.Set("caption", caption)
	record.Set("annotated", annotated)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test photo: %v", err)
	}

	return record
}

// CreateTestStatement creates an itemized statement linked to a project.
func CreateTestStatement(t *testing.T, app *pocketbase.PocketBase, projectID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("itemized_statements")
	if err != nil {
		t.Fatalf("failed to find itemized_statements collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test statement: %v", err)
	}

	return record
}
