package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all collections: projects, trading
// partners, site surveys with photos, quantity tables (groups and items) and
// itemized statements.
//
// A quantity table owns its groups and a group owns its items, both with
// cascade delete. An itemized statement keeps only a denormalized reference
// to its source table: deleting the table never deletes the statement.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"active", "completed", "archived"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "trading_partners", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "kana"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.SelectField{
			Name:      "partner_type",
			Values:    []string{"client", "subcontractor", "supplier"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	surveys := ensureCollection(app, "surveys", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "surveyed_on"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	surveyPhotos := ensureCollection(app, "survey_photos", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "survey",
			Required:      true,
			CollectionId:  surveys.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "caption"})
		c.Fields.Add(&core.BoolField{Name: "annotated"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	tables := ensureCollection(app, "quantity_tables", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.BoolField{Name: "deleted"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		// The updated timestamp doubles as the optimistic-concurrency token.
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	groups := ensureCollection(app, "quantity_groups", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "table",
			Required:      true,
			CollectionId:  tables.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title"})
		// Contiguous 0..n-1 within the table; renumbered on every mutation.
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.RelationField{
			Name:         "photo",
			CollectionId: surveyPhotos.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.BoolField{Name: "photo_annotated"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quantity_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "group",
			Required:      true,
			CollectionId:  groups.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "major_category"})
		c.Fields.Add(&core.TextField{Name: "medium_category"})
		c.Fields.Add(&core.TextField{Name: "minor_category"})
		c.Fields.Add(&core.TextField{Name: "custom_category"})
		c.Fields.Add(&core.TextField{Name: "work_type"})
		c.Fields.Add(&core.TextField{Name: "name"})
		c.Fields.Add(&core.TextField{Name: "specification"})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.SelectField{
			Name:      "calculation_method",
			Required:  true,
			Values:    []string{"STANDARD", "AREA_VOLUME", "PITCH"},
			MaxSelect: 1,
		})
		// Dimensions are strictly positive, so a stored 0 means blank.
		c.Fields.Add(&core.NumberField{Name: "width"})
		c.Fields.Add(&core.NumberField{Name: "depth"})
		c.Fields.Add(&core.NumberField{Name: "height"})
		c.Fields.Add(&core.NumberField{Name: "range_length"})
		c.Fields.Add(&core.NumberField{Name: "edge1"})
		c.Fields.Add(&core.NumberField{Name: "edge2"})
		c.Fields.Add(&core.NumberField{Name: "pitch_length"})
		c.Fields.Add(&core.NumberField{Name: "adjustment_factor"})
		c.Fields.Add(&core.NumberField{Name: "rounding_unit"})
		// Last value typed in STANDARD mode; restored when switching back.
		c.Fields.Add(&core.NumberField{Name: "manual_quantity"})
		// Derived and persisted result of the calculator.
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.TextField{Name: "remarks"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	statements := ensureCollection(app, "itemized_statements", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		// Non-owning reference: no cascade from the source table.
		c.Fields.Add(&core.RelationField{
			Name:         "source_table",
			CollectionId: tables.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "source_table_name"})
		c.Fields.Add(&core.NumberField{Name: "item_count"})
		c.Fields.Add(&core.BoolField{Name: "deleted"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "itemized_statement_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "statement",
			Required:      true,
			CollectionId:  statements.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "custom_category"})
		c.Fields.Add(&core.TextField{Name: "work_type"})
		c.Fields.Add(&core.TextField{Name: "name"})
		c.Fields.Add(&core.TextField{Name: "specification"})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
