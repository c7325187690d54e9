package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// ItemView is one quantity item row as the editor consumes it. Numeric fields
// are pre-formatted: blank stays blank, populated values carry 2 decimals.
type ItemView struct {
	ID               string                   `json:"id"`
	SortOrder        int                      `json:"sort_order"`
	MajorCategory    string                   `json:"major_category"`
	MediumCategory   string                   `json:"medium_category"`
	MinorCategory    string                   `json:"minor_category"`
	CustomCategory   string                   `json:"custom_category"`
	WorkType         string                   `json:"work_type"`
	Name             string                   `json:"name"`
	Specification    string                   `json:"specification"`
	Unit             string                   `json:"unit"`
	Method           string                   `json:"calculation_method"`
	Width            string                   `json:"width"`
	Depth            string                   `json:"depth"`
	Height           string                   `json:"height"`
	RangeLength      string                   `json:"range_length"`
	Edge1            string                   `json:"edge1"`
	Edge2            string                   `json:"edge2"`
	PitchLength      string                   `json:"pitch_length"`
	AdjustmentFactor string                   `json:"adjustment_factor"`
	RoundingUnit     string                   `json:"rounding_unit"`
	Quantity         string                   `json:"quantity"`
	Remarks          string                   `json:"remarks"`
	Fields           services.FieldVisibility `json:"fields"`
}

// GroupView is one group with its items in display order.
type GroupView struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	SortOrder      int        `json:"sort_order"`
	PhotoID        string     `json:"photo"`
	PhotoAnnotated bool       `json:"photo_annotated"`
	Items          []ItemView `json:"items"`
}

// TableView is the full editing state of one quantity table.
type TableView struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Updated string      `json:"updated"`
	Groups  []GroupView `json:"groups"`
}

// HandleTableView returns the full tree of a quantity table: groups in order,
// each with its items in order. The "updated" value is the concurrency token
// clients must echo back on destructive saves.
func HandleTableView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tableID := e.Request.PathValue("id")
		if tableID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing table ID")
		}

		table, err := app.FindRecordById("quantity_tables", tableID)
		if err != nil || table.GetBool("deleted") {
			return ErrorToast(e, http.StatusNotFound, "Table not found")
		}

		view, err := buildTableView(app, table)
		if err != nil {
			log.Printf("table_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, view)
	}
}

// buildTableView loads a table's groups and items into the editor view.
func buildTableView(app *pocketbase.PocketBase, table *core.Record) (TableView, error) {
	view := TableView{
		ID:      table.Id,
		Name:    table.GetString("name"),
		Updated: table.GetString("updated"),
		Groups:  []GroupView{},
	}

	groups, err := app.FindRecordsByFilter(
		"quantity_groups",
		"table = {:tableId}",
		"sort_order",
		0,
		0,
		map[string]any{"tableId": table.Id},
	)
	if err != nil {
		return view, fmt.Errorf("query groups of table %s: %w", table.Id, err)
	}

	for _, g := range groups {
		gv := GroupView{
			ID:             g.Id,
			Title:          g.GetString("title"),
			SortOrder:      int(g.GetFloat("sort_order")),
			PhotoID:        g.GetString("photo"),
			PhotoAnnotated: g.GetBool("photo_annotated"),
			Items:          []ItemView{},
		}

		items, err := app.FindRecordsByFilter(
			"quantity_items",
			"group = {:groupId}",
			"sort_order",
			0,
			0,
			map[string]any{"groupId": g.Id},
		)
		if err != nil {
			return view, fmt.Errorf("query items of group %s: %w", g.Id, err)
		}

		for _, it := range items {
			gv.Items = append(gv.Items, itemViewFromRecord(it))
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}

// itemViewFromRecord formats a quantity item record for the editor.
func itemViewFromRecord(r *core.Record) ItemView {
	method := services.CalculationMethod(r.GetString("calculation_method"))
	vis := services.VisibleFields(method)

	// In STANDARD mode the quantity cell is an input showing the manual value.
	qty := services.FormatForDisplay(r.GetFloat("quantity"), true)

	return ItemView{
		ID:               r.Id,
		SortOrder:        int(r.GetFloat("sort_order")),
		MajorCategory:    r.GetString("major_category"),
		MediumCategory:   r.GetString("medium_category"),
		MinorCategory:    r.GetString("minor_category"),
		CustomCategory:   r.GetString("custom_category"),
		WorkType:         r.GetString("work_type"),
		Name:             r.GetString("name"),
		Specification:    r.GetString("specification"),
		Unit:             r.GetString("unit"),
		Method:           string(method),
		Width:            formatDim(r, "width"),
		Depth:            formatDim(r, "depth"),
		Height:           formatDim(r, "height"),
		RangeLength:      formatDim(r, "range_length"),
		Edge1:            formatDim(r, "edge1"),
		Edge2:            formatDim(r, "edge2"),
		PitchLength:      formatDim(r, "pitch_length"),
		AdjustmentFactor: services.FormatForDisplay(r.GetFloat("adjustment_factor"), true),
		RoundingUnit:     services.FormatForDisplay(r.GetFloat("rounding_unit"), true),
		Quantity:         qty,
		Remarks:          r.GetString("remarks"),
		Fields:           vis,
	}
}

// formatDim renders an optional dimension field, blank when unset.
func formatDim(r *core.Record, field string) string {
	v := r.GetFloat(field)
	return services.FormatForDisplay(v, v != 0)
}
