package joint

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// Spring defaults pushed at construction.
const (
	DefaultSpringStiffness = 40.0
	DefaultSpringDamp      = 1.0
)

// Spring connects the pin position on the anchor body to the child's center
// with a native damped spring. The rest length defaults to the construction
// distance between the two points.
type Spring struct {
	*base
	spring *cp.Constraint

	damp    float64
	enabled bool
}

// NewSpring creates a spring joint and pushes its defaults: stiffness 40.0,
// damping 1.0, damper disabled, rest length = pin-to-child distance.
func NewSpring(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*Spring, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &Spring{base: b, damp: DefaultSpringDamp}

	anchorA := b.anchor().WorldToLocal(b.pin.Position)
	rest := b.pin.Position.Distance(child.Position())
	j.spring = b.add(cp.NewDampedSpring(
		b.anchor(), child.Handle(),
		anchorA, cp.Vector{},
		rest, DefaultSpringStiffness, 0,
	))
	return j, nil
}

func (j *Spring) class() *cp.DampedSpring {
	return j.spring.Class.(*cp.DampedSpring)
}

func (j *Spring) Stiffness() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.class().Stiffness, nil
}

func (j *Spring) SetStiffness(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkNonNegative("stiffness", v); err != nil {
		return err
	}
	j.class().Stiffness = v
	return nil
}

func (j *Spring) RestLength() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.class().RestLength, nil
}

func (j *Spring) SetRestLength(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkNonNegative("rest length", v); err != nil {
		return err
	}
	j.class().RestLength = v
	return nil
}

func (j *Spring) Damp() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	if j.enabled {
		return j.class().Damping, nil
	}
	return j.damp, nil
}

func (j *Spring) SetDamp(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkNonNegative("damp", v); err != nil {
		return err
	}
	j.damp = v
	if j.enabled {
		j.class().Damping = v
	}
	return nil
}

func (j *Spring) DamperEnabled() (bool, error) {
	if err := j.live(); err != nil {
		return false, err
	}
	return j.enabled, nil
}

func (j *Spring) SetDamperEnabled(on bool) error {
	if err := j.live(); err != nil {
		return err
	}
	if j.enabled == on {
		return nil
	}
	j.enabled = on
	if on {
		j.class().Damping = j.damp
	} else {
		j.damp = j.class().Damping
		j.class().Damping = 0
	}
	return nil
}
