package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rectAt builds a rectangle whose midpoint is mid.
func rectAt(id string, mid float64) Rect {
	return Rect{ID: id, Top: mid - 5, Height: 10}
}

func threeSections() []Rect {
	return []Rect{rectAt("a", 10), rectAt("b", 30), rectAt("c", 60)}
}

func TestInsertionPointEmpty(t *testing.T) {
	d := InsertionPoint(nil, 42)
	assert.True(t, d.AtEnd())
	assert.Equal(t, End, d)
}

func TestInsertionPointSingleCandidate(t *testing.T) {
	above := []Rect{rectAt("a", 10)}
	assert.True(t, InsertionPoint(above, 20).AtEnd(), "pointer below the only midpoint")

	below := []Rect{rectAt("a", 50)}
	d := InsertionPoint(below, 20)
	require.False(t, d.AtEnd())
	assert.Equal(t, "a", d.Before)
	assert.Equal(t, 0, d.Index)
}

func TestInsertionPointPicksClosestBelow(t *testing.T) {
	tests := []struct {
		name    string
		pointer float64
		want    string
		atEnd   bool
	}{
		{"between second and third", 35, "c", false},
		{"above everything", 5, "a", false},
		{"below everything", 100, "", true},
		{"between first and second", 12, "b", false},
		{"exactly on a midpoint", 30, "c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := InsertionPoint(threeSections(), tt.pointer)
			assert.Equal(t, tt.atEnd, d.AtEnd())
			assert.Equal(t, tt.want, d.Before)
		})
	}
}

func TestInsertionPointTieBreaksOnFirst(t *testing.T) {
	rects := []Rect{rectAt("x", 40), rectAt("y", 40)}
	d := InsertionPoint(rects, 0)
	assert.Equal(t, "x", d.Before)
	assert.Equal(t, 0, d.Index)
}

func TestInsertionPointDegenerateGeometry(t *testing.T) {
	rects := []Rect{{ID: "flat", Top: 20, Height: 0}, {ID: "neg", Top: 80, Height: -10}}
	assert.Equal(t, "flat", InsertionPoint(rects, 10).Before)
	assert.Equal(t, "neg", InsertionPoint(rects, 50).Before)
	assert.True(t, InsertionPoint(rects, math.NaN()).AtEnd())
}

func TestInsertionPointIdempotent(t *testing.T) {
	rects := threeSections()
	first := InsertionPoint(rects, 35)
	second := InsertionPoint(rects, 35)
	assert.Equal(t, first, second)
	assert.Equal(t, threeSections(), rects, "input must not be modified")
}

func TestApply(t *testing.T) {
	order := []string{"contact", "summary", "experience", "skills"}

	got := Apply(order, "skills", Directive{Before: "summary", Index: 1})
	assert.Equal(t, []string{"contact", "skills", "summary", "experience"}, got)

	got = Apply(order, "contact", End)
	assert.Equal(t, []string{"summary", "experience", "skills", "contact"}, got)

	got = Apply(order, "summary", Directive{Before: "missing", Index: 0})
	assert.Equal(t, []string{"contact", "experience", "skills", "summary"}, got)

	got = Apply(order, "unknown", End)
	assert.Equal(t, order, got)

	assert.Equal(t, []string{"contact", "summary", "experience", "skills"}, order)
}

func TestWithout(t *testing.T) {
	got := Without(threeSections(), "b")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
