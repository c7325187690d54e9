package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type itemDef struct {
	sortOrder        int
	majorCategory    string
	workType         string
	name             string
	specification    string
	unit             string
	method           string
	width            float64
	depth            float64
	height           float64
	rangeLength      float64
	edge1            float64
	edge2            float64
	pitchLength      float64
	adjustmentFactor float64
	roundingUnit     float64
	manualQuantity   float64
	quantity         float64
}

type groupDef struct {
	title     string
	sortOrder int
	items     []itemDef
}

// Seed creates a demo project with one quantity table when the database is
// empty. Safe to call on every startup.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}

	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: empty database, creating demo project...")

	project := core.NewRecord(projectsCol)
	project.Set("name", "サンプル工事")
	project.Set("client", "株式会社サンプル建設")
	project.Set("status", "active")
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: could not save demo project: %w", err)
	}

	tablesCol, err := app.FindCollectionByNameOrId("quantity_tables")
	if err != nil {
		return fmt.Errorf("seed: could not find quantity_tables collection: %w", err)
	}
	table := core.NewRecord(tablesCol)
	table.Set("project", project.Id)
	table.Set("name", "基礎工事数量表")
	if err := app.Save(table); err != nil {
		return fmt.Errorf("seed: could not save demo table: %w", err)
	}

	groups := []groupDef{
		{
			title:     "基礎躯体",
			sortOrder: 0,
			items: []itemDef{
				{
					sortOrder: 0, majorCategory: "土工事", workType: "掘削",
					name: "床付け", specification: "W600", unit: "m3",
					method: "AREA_VOLUME", width: 10, depth: 5, height: 2,
					adjustmentFactor: 1, roundingUnit: 0.01, quantity: 100,
				},
				{
					sortOrder: 0, majorCategory: "仮設工事", workType: "支保工",
					name: "単管支柱", specification: "Φ48.6", unit: "本",
					method: "PITCH", rangeLength: 1000, edge1: 100, edge2: 100,
					pitchLength: 200, adjustmentFactor: 1, roundingUnit: 0.01,
					quantity: 5,
				},
			},
		},
	}

	groupsCol, err := app.FindCollectionByNameOrId("quantity_groups")
	if err != nil {
		return fmt.Errorf("seed: could not find quantity_groups collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("quantity_items")
	if err != nil {
		return fmt.Errorf("seed: could not find quantity_items collection: %w", err)
	}

	for _, g := range groups {
		groupRecord := core.NewRecord(groupsCol)
		groupRecord.Set("table", table.Id)
		groupRecord.Set("title", g.title)
		groupRecord.Set("sort_order", g.sortOrder)
		if err := app.Save(groupRecord); err != nil {
			return fmt.Errorf("seed: could not save demo group: %w", err)
		}

		for i, it := range g.items {
			itemRecord := core.NewRecord(itemsCol)
			itemRecord.Set("group", groupRecord.Id)
			itemRecord.Set("sort_order", i)
			itemRecord.Set("major_category", it.majorCategory)
			itemRecord.Set("work_type", it.workType)
			itemRecord.Set("name", it.name)
			itemRecord.Set("specification", it.specification)
			itemRecord.Set("unit", it.unit)
			itemRecord.Set("calculation_method", it.method)
			itemRecord.Set("width", it.width)
			itemRecord.Set("depth", it.depth)
			itemRecord.Set("height", it.height)
			itemRecord.Set("range_length", it.rangeLength)
			itemRecord.Set("edge1", it.edge1)
			itemRecord.Set("edge2", it.edge2)
			itemRecord.Set("pitch_length", it.pitchLength)
			itemRecord.Set("adjustment_factor", it.adjustmentFactor)
			itemRecord.Set("rounding_unit", it.roundingUnit)
			itemRecord.Set("manual_quantity", it.manualQuantity)
			itemRecord.Set("quantity", it.quantity)
			if err := app.Save(itemRecord); err != nil {
				return fmt.Errorf("seed: could not save demo item: %w", err)
			}
		}
	}

	log.Println("seed: demo project created")
	return nil
}
