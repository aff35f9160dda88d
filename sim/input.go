package sim

import "github.com/milk9111/simscript/event"

// Raw input events arrive from the host's input layer and fan out to every
// attached context. Key events carry the key name; pointer events carry the
// cursor position in world coordinates; wheel events carry the scroll delta.

func (w *World) DispatchKeyDown(key string) {
	w.broadcast(event.OnKeyDown, key)
}

func (w *World) DispatchKeyUp(key string) {
	w.broadcast(event.OnKeyUp, key)
}

// DispatchKeyExtended fires for keys held past the host's repeat threshold.
func (w *World) DispatchKeyExtended(key string) {
	w.broadcast(event.OnKeyExtended, key)
}

func (w *World) DispatchMouseMove(x, y float64) {
	w.broadcast(event.OnMouseMove, x, y)
}

// DispatchButton broadcasts one mouse-button event. Names outside the
// button/wheel family are ignored so hosts cannot smuggle lifecycle events
// through the input path.
func (w *World) DispatchButton(n event.Name, x, y float64) {
	if !isButtonEvent(n) {
		return
	}
	w.broadcast(n, x, y)
}

func (w *World) DispatchWheelRotate(delta float64) {
	w.broadcast(event.OnMouseWheelRotate, delta)
}

func (w *World) DispatchWheelTilt(delta float64) {
	w.broadcast(event.OnMouseWheelTilt, delta)
}

func isButtonEvent(n event.Name) bool {
	switch n {
	case event.OnLButtonDown, event.OnLButtonUp, event.OnLButtonDoubleClick,
		event.OnRButtonDown, event.OnRButtonUp, event.OnRButtonDoubleClick,
		event.OnMButtonDown, event.OnMButtonUp, event.OnMButtonDoubleClick,
		event.OnXButton1Down, event.OnXButton1Up, event.OnXButton1DoubleClick,
		event.OnXButton2Down, event.OnXButton2Up, event.OnXButton2DoubleClick:
		return true
	}
	return false
}
