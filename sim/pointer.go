package sim

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/event"
)

const pickRadius = 4.0

// pointerState tracks which body the cursor grabbed so drag and unclick
// events target the clicked body, not whatever is under the cursor later.
type pointerState struct {
	picked *Body
	lastX  float64
	lastY  float64
}

// ClickAt picks the nearest body within pickRadius of the cursor and fires
// onClick on it. It returns the picked body, or nil when the click landed on
// empty space.
func (w *World) ClickAt(x, y float64) *Body {
	info := w.space.PointQueryNearest(cp.Vector{X: x, Y: y}, pickRadius, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		w.pointer.picked = nil
		return nil
	}
	b := w.byHandle[info.Shape.Body()]
	if b == nil {
		w.pointer.picked = nil
		return nil
	}
	w.pointer = pointerState{picked: b, lastX: x, lastY: y}
	w.dispatch(b, event.OnClick, x, y)
	return b
}

// DragTo fires onDrag on the picked body when the cursor has moved since the
// click or the previous drag.
func (w *World) DragTo(x, y float64) {
	p := &w.pointer
	if p.picked == nil || !p.picked.alive {
		return
	}
	if x == p.lastX && y == p.lastY {
		return
	}
	p.lastX, p.lastY = x, y
	w.dispatch(p.picked, event.OnDrag, x, y)
}

// Unclick releases the picked body, firing onUnclick on it.
func (w *World) Unclick() {
	b := w.pointer.picked
	w.pointer = pointerState{}
	if b == nil || !b.alive {
		return
	}
	w.dispatch(b, event.OnUnclick)
}
