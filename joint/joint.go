// Package joint provides typed wrappers over native chipmunk constraints.
// Each wrapper owns a constraint handle plus construction-time constants; the
// authoritative parameter storage lives in the native layer. Setters reject
// out-of-range values rather than clamping - the policy is uniform across all
// joint kinds.
package joint

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

var (
	// ErrUseAfterDestroy reports a parameter access on a destroyed joint.
	ErrUseAfterDestroy = errors.New("joint: use after destroy")
	// ErrInvalidEntity reports a parent or child that is dead or belongs to
	// another world.
	ErrInvalidEntity = errors.New("joint: invalid entity")
	// ErrOutOfRange reports a parameter value outside its documented domain.
	ErrOutOfRange = errors.New("joint: parameter out of range")
)

// Pin is the position+direction frame captured at construction. It is an
// immutable snapshot; moving the bodies afterwards does not update it.
type Pin struct {
	Position  cp.Vector
	Direction cp.Vector
}

// WorldUp is the default pin direction.
var WorldUp = cp.Vector{X: 0, Y: 1}

// DefaultPin builds a pin at pos pointing along the world up axis.
func DefaultPin(pos cp.Vector) Pin {
	return Pin{Position: pos, Direction: WorldUp}
}

// base carries the lifecycle state shared by every joint kind: the world, the
// connected bodies, the pin snapshot and the native constraint handles.
type base struct {
	world  *sim.World
	parent *sim.Body
	child  *sim.Body
	pin    Pin
	group  string

	constraints []*cp.Constraint
	destroyed   bool
}

// newBase validates the construction inputs. A nil parent connects the child
// to the space's static body.
func newBase(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*base, error) {
	if world == nil {
		return nil, fmt.Errorf("%w: nil world", ErrInvalidEntity)
	}
	if !child.Alive() || child.World() != world {
		return nil, fmt.Errorf("%w: child must be a live body in the joint's world", ErrInvalidEntity)
	}
	if parent != nil && (!parent.Alive() || parent.World() != world) {
		return nil, fmt.Errorf("%w: parent must be a live body in the joint's world", ErrInvalidEntity)
	}
	if pin.Direction.Length() == 0 {
		pin.Direction = WorldUp
	}
	pin.Direction = pin.Direction.Normalize()
	return &base{world: world, parent: parent, child: child, pin: pin, group: group}, nil
}

// anchor returns the native body the child is constrained against.
func (b *base) anchor() *cp.Body {
	if b.parent != nil {
		return b.parent.Handle()
	}
	return b.world.Space().StaticBody
}

// live gates every accessor: a destroyed joint fails loudly instead of
// returning stale native data.
func (b *base) live() error {
	if b.destroyed {
		return ErrUseAfterDestroy
	}
	return nil
}

func (b *base) add(c *cp.Constraint) *cp.Constraint {
	b.world.Space().AddConstraint(c)
	b.constraints = append(b.constraints, c)
	return c
}

// Destroy removes the native constraints from the space and invalidates the
// handle. Any later accessor call, including a second Destroy, fails with
// ErrUseAfterDestroy.
func (b *base) Destroy() error {
	if err := b.live(); err != nil {
		return err
	}
	for _, c := range b.constraints {
		b.world.Space().RemoveConstraint(c)
	}
	b.constraints = nil
	b.destroyed = true
	return nil
}

// Destroyed reports whether the handle has been invalidated.
func (b *base) Destroyed() bool { return b.destroyed }

// Pin returns the construction-time pin snapshot.
func (b *base) Pin() Pin { return b.pin }

// Group returns the owning-group marker used in diagnostics.
func (b *base) Group() string { return b.group }

func (b *base) Parent() *sim.Body { return b.parent }

func (b *base) Child() *sim.Body { return b.child }

func checkNonNegative(name string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s = %v, want >= 0", ErrOutOfRange, name, v)
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s = %v, want > 0", ErrOutOfRange, name, v)
	}
	return nil
}
