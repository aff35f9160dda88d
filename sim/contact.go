package sim

import "github.com/jakecoffman/cp"

// ContactInfo carries the materialized detail of one contact, in the frame of
// the body the event is dispatched to. Details are collected only when a
// body's touch-state flag is set; the solver otherwise skips the work.
type ContactInfo struct {
	Point  cp.Vector
	Normal cp.Vector
	Force  cp.Vector
	Speed  float64
}

// inverted returns the info as seen from the other body of the pair.
func (ci ContactInfo) inverted() ContactInfo {
	return ContactInfo{
		Point:  ci.Point,
		Normal: ci.Normal.Neg(),
		Force:  ci.Force.Neg(),
		Speed:  ci.Speed,
	}
}

// asMap is the shape handed to callbacks; it converts cleanly into a tengo
// map.
func (ci ContactInfo) asMap() map[string]any {
	return map[string]any{
		"point":  []any{ci.Point.X, ci.Point.Y},
		"normal": []any{ci.Normal.X, ci.Normal.Y},
		"force":  []any{ci.Force.X, ci.Force.Y},
		"speed":  ci.Speed,
	}
}

type contactKind int

const (
	contactBegin contactKind = iota
	contactStay
	contactEnd
)

type contactEvent struct {
	kind contactKind
	a, b *Body
	info ContactInfo
}

// contactQueue buffers contact events recorded inside the solver callbacks so
// user code runs after space.Step returns, never inside it.
type contactQueue struct {
	items []contactEvent
}

func (q *contactQueue) push(evt contactEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

func (q *contactQueue) drain() []contactEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
