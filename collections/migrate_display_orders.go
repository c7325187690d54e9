package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateDisplayOrders renumbers group and item sort orders that have gaps or
// duplicates, which can be left behind by older clients that shifted indexes
// instead of renumbering. Safe to call on every startup -- rows already
// contiguous are not rewritten.
func MigrateDisplayOrders(app *pocketbase.PocketBase) error {
	tablesCol, err := app.FindCollectionByNameOrId("quantity_tables")
	if err != nil {
		return fmt.Errorf("migrate: could not find quantity_tables collection: %w", err)
	}

	tables, err := app.FindAllRecords(tablesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query quantity tables: %w", err)
	}

	fixed := 0
	for _, table := range tables {
		groups, err := app.FindRecordsByFilter(
			"quantity_groups",
			"table = {:tableId}",
			"sort_order",
			0,
			0,
			map[string]any{"tableId": table.Id},
		)
		if err != nil {
			return fmt.Errorf("migrate: could not query groups of table %s: %w", table.Id, err)
		}

		for i, group := range groups {
			if int(group.GetFloat("sort_order")) != i {
				group.Set("sort_order", i)
				if err := app.Save(group); err != nil {
					return fmt.Errorf("migrate: could not renumber group %s: %w", group.Id, err)
				}
				fixed++
			}

			items, err := app.FindRecordsByFilter(
				"quantity_items",
				"group = {:groupId}",
				"sort_order",
				0,
				0,
				map[string]any{"groupId": group.Id},
			)
			if err != nil {
				return fmt.Errorf("migrate: could not query items of group %s: %w", group.Id, err)
			}
			for j, item := range items {
				if int(item.GetFloat("sort_order")) != j {
					item.Set("sort_order", j)
					if err := app.Save(item); err != nil {
						return fmt.Errorf("migrate: could not renumber item %s: %w", item.Id, err)
					}
					fixed++
				}
			}
		}
	}

	if fixed > 0 {
		log.Printf("migrate: renumbered %d display order(s)\n", fixed)
	}
	return nil
}
