// Package layout computes where a dragged résumé section lands among its
// siblings. Nothing here touches storage or transport: callers hand in the
// geometry they observed and apply the returned directive themselves.
package layout

import "math"

// Rect is the vertical extent of one section as measured by the editor at
// drag time.
type Rect struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Midpoint returns the vertical centre of the rectangle.
func (r Rect) Midpoint() float64 {
	return r.Top + r.Height/2
}

// Directive tells the caller where the dragged section goes: immediately
// before the sibling named by Before, or after every sibling when AtEnd
// reports true.
type Directive struct {
	Before string `json:"before,omitempty"`
	Index  int    `json:"index"` // position in the candidate slice, -1 for end
}

// End is the directive meaning "append after all existing siblings".
var End = Directive{Index: -1}

// AtEnd reports whether d is the end-of-list sentinel.
func (d Directive) AtEnd() bool {
	return d.Index < 0
}

// InsertionPoint returns the candidate the dragged section should be placed
// before for a pointer at pointerY. It picks the candidate whose midpoint is
// the closest one still below the pointer. When no midpoint lies below the
// pointer, or there are no candidates, it returns End.
//
// Candidates must not include the dragged section itself. Equal midpoints
// resolve to the earliest candidate in slice order.
func InsertionPoint(candidates []Rect, pointerY float64) Directive {
	best := math.Inf(-1)
	d := End
	for i, c := range candidates {
		offset := pointerY - c.Midpoint()
		if offset < 0 && offset > best {
			best = offset
			d = Directive{Before: c.ID, Index: i}
		}
	}
	return d
}

// Apply returns a copy of order with dragged moved according to d. The input
// slice is never modified. A directive naming an unknown sibling, or the
// dragged section itself, degrades to an append.
func Apply(order []string, dragged string, d Directive) []string {
	out := make([]string, 0, len(order))
	found := false
	for _, id := range order {
		if id == dragged {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		return append([]string(nil), order...)
	}

	if d.AtEnd() || d.Before == dragged {
		return append(out, dragged)
	}
	for i, id := range out {
		if id == d.Before {
			out = append(out, "")
			copy(out[i+1:], out[i:])
			out[i] = dragged
			return out
		}
	}
	return append(out, dragged)
}

// Without returns the rectangles whose ID differs from id, preserving order.
func Without(rects []Rect, id string) []Rect {
	out := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
