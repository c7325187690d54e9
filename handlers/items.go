package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// itemDimensionColumns maps patchable dimension form keys to record fields.
// A submitted empty string clears the field back to blank.
var itemDimensionColumns = map[string]bool{
	"width":        true,
	"depth":        true,
	"height":       true,
	"range_length": true,
	"edge1":        true,
	"edge2":        true,
	"pitch_length": true,
}

// itemTextColumns are patchable free-text fields.
var itemTextColumns = map[string]bool{
	"major_category":  true,
	"medium_category": true,
	"minor_category":  true,
	"custom_category": true,
	"work_type":       true,
	"name":            true,
	"specification":   true,
	"unit":            true,
	"remarks":         true,
}

// HandleAddItem appends a new quantity item to a group. New items start in
// STANDARD mode with factor 1.00 and rounding unit 0.01.
func HandleAddItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		groupID := e.Request.PathValue("groupId")
		if groupID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing group ID")
		}

		group, err := app.FindRecordById("quantity_groups", groupID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Group not found")
		}

		siblings, err := sortedChildIDs(app, "quantity_items", "group", group.Id)
		if err != nil {
			log.Printf("add_item: could not query items of group %s: %v", group.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("quantity_items")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		defaults := services.NewItemInput()
		record := core.NewRecord(col)
		record.Set("group", group.Id)
		record.Set("sort_order", len(siblings))
		record.Set("name", e.Request.FormValue("name"))
		record.Set("calculation_method", string(defaults.Method))
		record.Set("adjustment_factor", defaults.AdjustmentFactor)
		record.Set("rounding_unit", defaults.RoundingUnit)
		record.Set("quantity", 0)

		if err := app.Save(record); err != nil {
			log.Printf("add_item: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item added")
		return e.JSON(http.StatusOK, map[string]any{
			"id":         record.Id,
			"sort_order": len(siblings),
			"quantity":   services.FormatForDisplay(0, true),
		})
	}
}

// HandlePatchItem updates individual fields on a quantity item and
// recalculates the derived quantity before responding. The response carries
// the formatted quantity, any soft warnings and the field visibility for the
// item's calculation method, so the client row can redraw from it directly.
func HandlePatchItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		record, err := app.FindRecordById("quantity_items", itemID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var warnings []string
		for key, values := range e.Request.Form {
			if len(values) == 0 {
				continue
			}
			val := values[0]
			switch {
			case itemTextColumns[key]:
				record.Set(key, val)
			case itemDimensionColumns[key]:
				if val == "" {
					record.Set(key, 0)
					continue
				}
				f, err := services.ParseDecimalInput(val)
				if err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Enter a valid number")
				}
				if err := services.ValidateDimension(f); err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Dimension out of range")
				}
				record.Set(key, f)
			case key == "quantity":
				// Direct entry, only meaningful in STANDARD mode. The value is
				// remembered so switching modes and back restores it.
				if val == "" {
					record.Set("manual_quantity", 0)
					continue
				}
				f, err := services.ParseDecimalInput(val)
				if err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Enter a valid number")
				}
				if err := services.ValidateStandardQuantity(f); err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Quantity out of range")
				}
				record.Set("manual_quantity", f)
			case key == "adjustment_factor":
				f, err := services.ParseDecimalInput(val)
				if err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Enter a valid number")
				}
				if services.CheckAdjustmentFactor(f) {
					warnings = append(warnings, "Adjustment factor should be positive")
				}
				record.Set("adjustment_factor", f)
			case key == "rounding_unit":
				f, err := services.ParseDecimalInput(val)
				if err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Enter a valid number")
				}
				normalized, warned := services.NormalizeRoundingUnit(f)
				if warned {
					warnings = append(warnings, "Rounding unit must be positive, reset to 0.01")
				}
				record.Set("rounding_unit", normalized)
			case key == "calculation_method":
				if !services.IsValidMethod(val) {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Unknown calculation method")
				}
				record.Set("calculation_method", val)
			}
		}

		fields := services.ItemFields{
			MajorCategory:  record.GetString("major_category"),
			MediumCategory: record.GetString("medium_category"),
			MinorCategory:  record.GetString("minor_category"),
			CustomCategory: record.GetString("custom_category"),
			WorkType:       record.GetString("work_type"),
			Name:           record.GetString("name"),
			Specification:  record.GetString("specification"),
			Unit:           record.GetString("unit"),
		}
		if err := services.ValidateItemFields(fields); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, err.Error())
		}

		q := recalcItemQuantity(record)
		if !services.IsWithinRange(q, services.MinStandardQuantity, services.MaxQuantity) {
			warnings = append(warnings, "Derived quantity out of range")
		}

		if err := app.Save(record); err != nil {
			log.Printf("patch_item: error saving %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		method := services.CalculationMethod(record.GetString("calculation_method"))
		return e.JSON(http.StatusOK, map[string]any{
			"quantity": services.FormatForDisplay(q, true),
			"warnings": warnings,
			"fields":   services.VisibleFields(method),
		})
	}
}

// HandleDeleteItem deletes a quantity item and renumbers its siblings so the
// group's sort orders stay contiguous.
func HandleDeleteItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		record, err := app.FindRecordById("quantity_items", itemID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		groupID := record.GetString("group")

		if err := app.Delete(record); err != nil {
			log.Printf("delete_item: error deleting %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		siblings, err := sortedChildIDs(app, "quantity_items", "group", groupID)
		if err == nil {
			if err := renumberRecords(app, "quantity_items", siblings); err != nil {
				log.Printf("delete_item: renumber failed for group %s: %v", groupID, err)
			}
		}

		SetToast(e, "success", "Item deleted")
		return e.NoContent(http.StatusOK)
	}
}

// HandleCopyItem duplicates a quantity item, inserting the copy directly
// behind its source.
func HandleCopyItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		source, err := app.FindRecordById("quantity_items", itemID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		groupID := source.GetString("group")

		col, err := app.FindCollectionByNameOrId("quantity_items")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		copied := core.NewRecord(col)
		copyFields := []string{
			"group", "major_category", "medium_category", "minor_category",
			"custom_category", "work_type", "name", "specification", "unit",
			"calculation_method", "width", "depth", "height", "range_length",
			"edge1", "edge2", "pitch_length", "adjustment_factor",
			"rounding_unit", "manual_quantity", "quantity", "remarks",
		}
		for _, f := range copyFields {
			copied.Set(f, source.Get(f))
		}
		copied.Set("sort_order", int(source.GetFloat("sort_order"))+1)

		if err := app.Save(copied); err != nil {
			log.Printf("copy_item: error saving copy of %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// Renumber from the intended order: every sibling except the copy, with
		// the copy slotted in behind its source.
		siblings, err := sortedChildIDs(app, "quantity_items", "group", groupID)
		if err != nil {
			log.Printf("copy_item: could not query items of group %s: %v", groupID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		ordered := services.InsertIDAfter(services.RemoveID(siblings, copied.Id), source.Id, copied.Id)
		if err := renumberRecords(app, "quantity_items", ordered); err != nil {
			log.Printf("copy_item: renumber failed for group %s: %v", groupID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item copied")
		return e.JSON(http.StatusOK, map[string]any{"id": copied.Id})
	}
}

// HandleMoveItem moves an item within its group or into another group of the
// same table. Both the source and destination groups end up renumbered.
func HandleMoveItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		record, err := app.FindRecordById("quantity_items", itemID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		sourceGroupID := record.GetString("group")

		destGroupID := e.Request.FormValue("group")
		if destGroupID == "" {
			destGroupID = sourceGroupID
		}
		position := parseIndex(e.Request.FormValue("position"))

		if destGroupID == sourceGroupID {
			ids, err := sortedChildIDs(app, "quantity_items", "group", sourceGroupID)
			if err != nil {
				log.Printf("move_item: could not query items of group %s: %v", sourceGroupID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			from := indexOf(ids, itemID)
			if from < 0 {
				return ErrorToast(e, http.StatusNotFound, "Item not found in its group")
			}
			moved := services.MoveID(ids, from, position)
			if err := renumberRecords(app, "quantity_items", moved); err != nil {
				log.Printf("move_item: renumber failed for group %s: %v", sourceGroupID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			SetToast(e, "success", "Item moved")
			return e.NoContent(http.StatusOK)
		}

		destGroup, err := app.FindRecordById("quantity_groups", destGroupID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Destination group not found")
		}

		record.Set("group", destGroup.Id)
		if err := app.Save(record); err != nil {
			log.Printf("move_item: error reparenting %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		sourceIDs, err := sortedChildIDs(app, "quantity_items", "group", sourceGroupID)
		if err == nil {
			if err := renumberRecords(app, "quantity_items", sourceIDs); err != nil {
				log.Printf("move_item: renumber failed for group %s: %v", sourceGroupID, err)
			}
		}

		destIDs, err := sortedChildIDs(app, "quantity_items", "group", destGroup.Id)
		if err != nil {
			log.Printf("move_item: could not query items of group %s: %v", destGroup.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		ordered := services.InsertIDAt(services.RemoveID(destIDs, itemID), position, itemID)
		if err := renumberRecords(app, "quantity_items", ordered); err != nil {
			log.Printf("move_item: renumber failed for group %s: %v", destGroup.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item moved")
		return e.NoContent(http.StatusOK)
	}
}
