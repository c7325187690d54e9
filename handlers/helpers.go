// Package handlers contains the HTTP handlers for projects, trading partners,
// site surveys, quantity tables and itemized statements.
package handlers

import (
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// parseIndex parses a client-supplied display position. Garbage becomes 0;
// the ordering primitives clamp out-of-range values.
func parseIndex(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// indexOf returns the position of id in ids, or -1.
func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// dimField reads an optional dimension from a record. Dimensions are strictly
// positive, so a stored 0 means the field is blank.
func dimField(r *core.Record, field string) services.Dim {
	v := r.GetFloat(field)
	if v == 0 {
		return services.Dim{}
	}
	return services.DimOf(v)
}

// calcInputFromRecord assembles the calculator input from a quantity item
// record.
func calcInputFromRecord(r *core.Record) services.CalcInput {
	return services.CalcInput{
		Method:           services.CalculationMethod(r.GetString("calculation_method")),
		ManualQuantity:   services.DimOf(r.GetFloat("manual_quantity")),
		Width:            dimField(r, "width"),
		Depth:            dimField(r, "depth"),
		Height:           dimField(r, "height"),
		RangeLength:      dimField(r, "range_length"),
		Edge1:            dimField(r, "edge1"),
		Edge2:            dimField(r, "edge2"),
		PitchLength:      dimField(r, "pitch_length"),
		AdjustmentFactor: r.GetFloat("adjustment_factor"),
		RoundingUnit:     r.GetFloat("rounding_unit"),
	}
}

// recalcItemQuantity recomputes the derived quantity and stores it on the
// record. The caller saves.
func recalcItemQuantity(r *core.Record) float64 {
	q := services.ComputeQuantity(calcInputFromRecord(r))
	r.Set("quantity", q)
	return q
}

// staleToken reports whether the client's "updated" token no longer matches
// the record, meaning another session saved in between. A missing token is
// accepted: only explicitly stale clients are rejected.
func staleToken(e *core.RequestEvent, record *core.Record) bool {
	token := e.Request.FormValue("updated")
	if token == "" {
		token = e.Request.URL.Query().Get("updated")
	}
	return token != "" && token != record.GetString("updated")
}

// sortedChildIDs returns the IDs of records matching parentField = parentID,
// ordered by sort_order. The slice index of each ID is its display position.
func sortedChildIDs(app core.App, collection, parentField, parentID string) ([]string, error) {
	records, err := app.FindRecordsByFilter(
		collection,
		parentField+" = {:parentId}",
		"sort_order",
		0,
		0,
		map[string]any{"parentId": parentID},
	)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.Id
	}
	return ids, nil
}

// renumberRecords persists the slice index of every ID as its sort_order.
// Rows already in place are not rewritten.
func renumberRecords(app core.App, collection string, ids []string) error {
	for i, id := range ids {
		rec, err := app.FindRecordById(collection, id)
		if err != nil {
			return err
		}
		if int(rec.GetFloat("sort_order")) != i {
			rec.Set("sort_order", i)
			if err := app.Save(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
