package event

import "strings"

// Name identifies one member of the closed body event set. The set is fixed
// at compile time; scripts cannot introduce new event names.
type Name int

const (
	OnStart Name = iota
	OnUpdate
	OnPreUpdate
	OnPostUpdate
	OnEnd
	OnDraw
	OnPlay
	OnPause
	OnTouch
	OnTouching
	OnUntouch
	OnClick
	OnDrag
	OnUnclick
	OnKeyDown
	OnKeyUp
	OnKeyExtended
	OnMouseMove
	OnLButtonDown
	OnLButtonUp
	OnLButtonDoubleClick
	OnRButtonDown
	OnRButtonUp
	OnRButtonDoubleClick
	OnMButtonDown
	OnMButtonUp
	OnMButtonDoubleClick
	OnXButton1Down
	OnXButton1Up
	OnXButton1DoubleClick
	OnXButton2Down
	OnXButton2Up
	OnXButton2DoubleClick
	OnMouseWheelRotate
	OnMouseWheelTilt

	numNames
)

var canonical = [numNames]string{
	OnStart:               "onStart",
	OnUpdate:              "onUpdate",
	OnPreUpdate:           "onPreUpdate",
	OnPostUpdate:          "onPostUpdate",
	OnEnd:                 "onEnd",
	OnDraw:                "onDraw",
	OnPlay:                "onPlay",
	OnPause:               "onPause",
	OnTouch:               "onTouch",
	OnTouching:            "onTouching",
	OnUntouch:             "onUntouch",
	OnClick:               "onClick",
	OnDrag:                "onDrag",
	OnUnclick:             "onUnclick",
	OnKeyDown:             "onKeyDown",
	OnKeyUp:               "onKeyUp",
	OnKeyExtended:         "onKeyExtended",
	OnMouseMove:           "onMouseMove",
	OnLButtonDown:         "onLButtonDown",
	OnLButtonUp:           "onLButtonUp",
	OnLButtonDoubleClick:  "onLButtonDoubleClick",
	OnRButtonDown:         "onRButtonDown",
	OnRButtonUp:           "onRButtonUp",
	OnRButtonDoubleClick:  "onRButtonDoubleClick",
	OnMButtonDown:         "onMButtonDown",
	OnMButtonUp:           "onMButtonUp",
	OnMButtonDoubleClick:  "onMButtonDoubleClick",
	OnXButton1Down:        "onXButton1Down",
	OnXButton1Up:          "onXButton1Up",
	OnXButton1DoubleClick: "onXButton1DoubleClick",
	OnXButton2Down:        "onXButton2Down",
	OnXButton2Up:          "onXButton2Up",
	OnXButton2DoubleClick: "onXButton2DoubleClick",
	OnMouseWheelRotate:    "onMouseWheelRotate",
	OnMouseWheelTilt:      "onMouseWheelTilt",
}

var byLower = func() map[string]Name {
	m := make(map[string]Name, len(canonical))
	for n, s := range canonical {
		m[strings.ToLower(s)] = Name(n)
	}
	return m
}()

// String returns the canonical spelling of the event name.
func (n Name) String() string {
	if n < 0 || n >= numNames {
		return "invalid"
	}
	return canonical[n]
}

// Touch reports whether the name is one of the three contact-related slots
// that feed the derived touch-state flag.
func (n Name) Touch() bool {
	return n == OnTouch || n == OnTouching || n == OnUntouch
}

// Names returns every member of the fixed event set in declaration order.
func Names() []Name {
	out := make([]Name, numNames)
	for i := range out {
		out[i] = Name(i)
	}
	return out
}

// Resolve maps a user-supplied token to its canonical member. Matching is
// case-insensitive and the leading "on" prefix is optional, so "keyDown",
// "KeyDown" and "onKeyDown" all resolve to OnKeyDown. A token either resolves
// to exactly one member or is rejected.
func Resolve(token string) (Name, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return 0, false
	}
	if !strings.HasPrefix(t, "on") {
		t = "on" + t
	}
	n, ok := byLower[t]
	return n, ok
}
