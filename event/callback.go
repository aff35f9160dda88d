package event

// Callback is a value bound to an event slot. It is a single-signature
// invocation capability: the dispatcher never inspects a callback beyond
// calling Invoke with the event's arguments.
type Callback interface {
	Invoke(args ...any) error
}

// Func adapts a plain Go function to a Callback.
type Func func(args ...any) error

func (f Func) Invoke(args ...any) error { return f(args...) }
