package event

import "fmt"

// Entity is the simulated object a context is attached to. Implementations
// hold the native handle; the context only needs a display name, a kind for
// diagnostics and the touch-flag sink.
type Entity interface {
	Name() string
	Kind() string
	SetContactListening(on bool)
}

// Context is the per-entity façade through which user code registers and
// queries event bindings, and through which the simulation driver dispatches
// events. All access happens on the simulation goroutine.
type Context struct {
	entity Entity
	marker string
	table  *Table
}

// NewContext creates a context for entity. marker is the script identity
// string consumed by the error translator. Enforcement of the one-context-
// per-entity rule lives with the entity owner (see sim.Body.AttachContext).
func NewContext(entity Entity, marker string) *Context {
	return &Context{
		entity: entity,
		marker: marker,
		table:  NewTable(entity),
	}
}

func (c *Context) Entity() Entity { return c.entity }

func (c *Context) Marker() string { return c.marker }

// On binds cb to every token that resolves to a member of the fixed event
// set and returns the number of names bound. Unmatched tokens are silently
// skipped. An existing binding is replaced unconditionally.
func (c *Context) On(cb Callback, tokens ...string) int {
	bound := 0
	for _, tok := range tokens {
		n, ok := Resolve(tok)
		if !ok {
			continue
		}
		c.table.Set(n, cb)
		bound++
	}
	return bound
}

// SetProc replaces the binding for the named event; a nil callback unbinds
// it. It returns false when the token does not resolve to a member of the
// fixed set.
func (c *Context) SetProc(token string, cb Callback) bool {
	n, ok := Resolve(token)
	if !ok {
		return false
	}
	return c.table.Set(n, cb)
}

// Proc returns the callback currently bound to the named event, or nil.
func (c *Context) Proc(token string) Callback {
	n, ok := Resolve(token)
	if !ok {
		return nil
	}
	return c.table.Proc(n)
}

// Bound reports whether the named event has a callback.
func (c *Context) Bound(token string) bool {
	return c.Proc(token) != nil
}

// TouchBound reports the derived touch-state flag.
func (c *Context) TouchBound() bool { return c.table.TouchBound() }

// Call dispatches the named event. It returns (false, nil) when the slot is
// unbound and (true, nil) on a successful invocation. A failure raised by the
// callback - an error return or a panic - never escapes: it is translated
// into a *ScriptError and returned so the driver can surface it through its
// reporting channel without aborting the step loop.
func (c *Context) Call(n Name, args ...any) (bool, error) {
	cb := c.table.Proc(n)
	if cb == nil {
		return false, nil
	}
	if err := invoke(cb, args); err != nil {
		return false, Translate(err, c.marker, c.entity.Kind(), n.String())
	}
	return true, nil
}

func invoke(cb Callback, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return cb.Invoke(args...)
}
