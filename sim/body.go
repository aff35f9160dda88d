package sim

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/event"
)

// Body wraps one native chipmunk body and its primary shape. The wrapper is a
// non-owning reference: the space owns the native memory and the body must
// not be used after RemoveBody.
type Body struct {
	world *World
	body  *cp.Body
	shape *cp.Shape
	name  string

	ctx              *event.Context
	contactListening bool
	alive            bool
}

func (b *Body) Name() string { return b.name }

func (b *Body) Kind() string { return "body" }

// SetContactListening receives the derived touch-state flag from the event
// table. The collision handlers consult it before materializing detailed
// contact records for this body.
func (b *Body) SetContactListening(on bool) { b.contactListening = on }

// ContactListening reports the current touch-state flag.
func (b *Body) ContactListening() bool { return b.contactListening }

// Handle returns the native body address.
func (b *Body) Handle() *cp.Body { return b.body }

// Shape returns the body's primary collision shape.
func (b *Body) Shape() *cp.Shape { return b.shape }

func (b *Body) World() *World { return b.world }

func (b *Body) Alive() bool { return b != nil && b.alive }

// AttachContext creates the script context for this body. A body holds at
// most one context; attaching a second fails with event.ErrDuplicateContext
// and leaves the existing context untouched.
func (b *Body) AttachContext(marker string) (*event.Context, error) {
	if b.ctx != nil {
		return nil, event.ErrDuplicateContext
	}
	b.ctx = event.NewContext(b, marker)
	return b.ctx, nil
}

// Context returns the attached script context, or nil.
func (b *Body) Context() *event.Context { return b.ctx }

func (b *Body) Position() cp.Vector { return b.body.Position() }

func (b *Body) SetPosition(p cp.Vector) { b.body.SetPosition(p) }

func (b *Body) Velocity() cp.Vector { return b.body.Velocity() }

func (b *Body) SetVelocity(v cp.Vector) { b.body.SetVelocityVector(v) }

func (b *Body) Angle() float64 { return b.body.Angle() }

// ApplyForce applies a world-space force at the body's center of gravity.
func (b *Body) ApplyForce(f cp.Vector) {
	b.body.ApplyForceAtWorldPoint(f, b.body.Position())
}
