package layout

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownSection is returned when a drag starts on a section that is
	// not part of the order.
	ErrUnknownSection = errors.New("unknown section")
	// ErrSessionClosed is returned by operations on an ended session.
	ErrSessionClosed = errors.New("drag session closed")
)

// DragSession is the state of one in-progress reorder gesture. It owns a
// private copy of the section order and is not safe for concurrent use; each
// gesture gets its own session.
type DragSession struct {
	dragged string
	initial []string
	order   []string
	last    Directive
	closed  bool
}

// StartDrag begins a gesture that drags the section named dragged within
// order.
func StartDrag(order []string, dragged string) (*DragSession, error) {
	if !slices.Contains(order, dragged) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, dragged)
	}
	return &DragSession{
		dragged: dragged,
		initial: slices.Clone(order),
		order:   slices.Clone(order),
		last:    End,
	}, nil
}

// Dragged returns the ID of the section being dragged.
func (s *DragSession) Dragged() string { return s.dragged }

// Order returns a copy of the tentative order.
func (s *DragSession) Order() []string { return slices.Clone(s.order) }

// Last returns the most recent directive computed by Move.
func (s *DragSession) Last() Directive { return s.last }

// Closed reports whether End or Cancel has been called.
func (s *DragSession) Closed() bool { return s.closed }

// Move recomputes the insertion point for a pointer at pointerY and applies
// it to the tentative order. The dragged section's own rectangle is ignored
// if present in rects.
func (s *DragSession) Move(rects []Rect, pointerY float64) (Directive, error) {
	if s.closed {
		return End, ErrSessionClosed
	}
	d := InsertionPoint(Without(rects, s.dragged), pointerY)
	s.order = Apply(s.order, s.dragged, d)
	s.last = d
	return d, nil
}

// End closes the session and returns the final order.
func (s *DragSession) End() ([]string, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.closed = true
	return slices.Clone(s.order), nil
}

// Cancel closes the session and returns the order as it was when the drag
// started.
func (s *DragSession) Cancel() []string {
	s.closed = true
	s.order = slices.Clone(s.initial)
	return slices.Clone(s.initial)
}
