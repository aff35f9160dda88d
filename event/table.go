package event

// TouchObserver receives the derived touch-state flag whenever one of the
// contact-related slots changes. The native layer uses the flag to decide
// whether to materialize detailed contact records for the entity.
type TouchObserver interface {
	SetContactListening(on bool)
}

// Table is a fixed-membership mapping from canonical event name to an
// optional callback. Membership is fixed at construction; every slot starts
// unbound.
type Table struct {
	slots    [numNames]Callback
	observer TouchObserver
}

// NewTable creates an empty table. observer may be nil.
func NewTable(observer TouchObserver) *Table {
	return &Table{observer: observer}
}

// Proc returns the callback bound to n, or nil when the slot is unbound.
func (t *Table) Proc(n Name) Callback {
	if n < 0 || n >= numNames {
		return nil
	}
	return t.slots[n]
}

// Bound reports whether n currently has a callback.
func (t *Table) Bound(n Name) bool {
	return t.Proc(n) != nil
}

// Set replaces the binding for n unconditionally; a nil callback unbinds the
// slot. It returns false, without touching any slot, when n is not a member
// of the fixed set. Changing a contact-related slot recomputes the touch
// flag and pushes it to the observer.
func (t *Table) Set(n Name, cb Callback) bool {
	if n < 0 || n >= numNames {
		return false
	}
	t.slots[n] = cb
	if n.Touch() {
		t.pushTouch()
	}
	return true
}

// TouchBound reports the derived touch-state flag: true iff at least one of
// onTouch, onTouching or onUntouch is bound.
func (t *Table) TouchBound() bool {
	return t.slots[OnTouch] != nil || t.slots[OnTouching] != nil || t.slots[OnUntouch] != nil
}

func (t *Table) pushTouch() {
	if t.observer != nil {
		t.observer.SetContactListening(t.TouchBound())
	}
}
