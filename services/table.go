package services

// Ordering primitives for quantity-table groups and items. Handlers load the
// sibling record IDs sorted by sort_order, apply one of these operations and
// persist the slice index of each ID as its new sort_order. Every structural
// mutation therefore ends in an explicit renumber: sort_order values stay
// contiguous 0..n-1 within their scope, never merely shifted.

// ClampIndex limits idx to a valid insertion position in a slice of length n.
func ClampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

// MoveID moves the element at index from to index to, preserving the order
// of everything else. Out-of-range indexes are clamped. Both drag-and-drop
// and the up/down buttons reduce to this primitive.
func MoveID(ids []string, from, to int) []string {
	n := len(ids)
	if n == 0 {
		return ids
	}
	from = ClampIndex(from, n-1)
	to = ClampIndex(to, n-1)
	if from == to {
		return ids
	}
	out := make([]string, 0, n)
	moved := ids[from]
	for i, id := range ids {
		if i != from {
			out = append(out, id)
		}
	}
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out
}

// RemoveID removes id from the slice. The remaining order is unchanged and
// the caller renumbers from the new indexes.
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// InsertIDAfter inserts id immediately after the element equal to after.
// If after is not present the id is appended. Used by item copy, which
// places the duplicate right behind its source.
func InsertIDAfter(ids []string, after, id string) []string {
	out := make([]string, 0, len(ids)+1)
	inserted := false
	for _, v := range ids {
		out = append(out, v)
		if v == after {
			out = append(out, id)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, id)
	}
	return out
}

// InsertIDAt inserts id at the given position (clamped). Used by cross-group
// item moves, where the destination index comes straight from the client.
func InsertIDAt(ids []string, idx int, id string) []string {
	idx = ClampIndex(idx, len(ids))
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	out = append(out, ids[idx:]...)
	return out
}
