package joint

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// Hinge defaults pushed at construction.
const (
	DefaultHingeMin = -math.Pi
	DefaultHingeMax = math.Pi
)

// Hinge pins the child to the anchor body at the pin position with a native
// pivot joint. While limits are enabled a rotary limit constraint is added
// next to the pivot; disabling limits removes it again.
type Hinge struct {
	*base
	pivot *cp.Constraint
	limit *cp.Constraint

	// min/max shadow the limit range while limits are disabled; the native
	// rotary limit constraint only exists while enabled.
	min float64
	max float64
}

// NewHinge creates a hinge joint and pushes its defaults: min angle -pi, max
// angle pi, limits disabled.
func NewHinge(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*Hinge, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &Hinge{base: b, min: DefaultHingeMin, max: DefaultHingeMax}
	j.pivot = b.add(cp.NewPivotJoint(b.anchor(), child.Handle(), b.pin.Position))
	return j, nil
}

func (j *Hinge) limitClass() *cp.RotaryLimitJoint {
	return j.limit.Class.(*cp.RotaryLimitJoint)
}

func (j *Hinge) MinAngle() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	if j.limit != nil {
		return j.limitClass().Min, nil
	}
	return j.min, nil
}

func (j *Hinge) SetMinAngle(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	max := j.max
	if j.limit != nil {
		max = j.limitClass().Max
	}
	if v > max {
		return checkNonNegative("max - min", max-v)
	}
	j.min = v
	if j.limit != nil {
		j.limitClass().Min = v
	}
	return nil
}

func (j *Hinge) MaxAngle() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	if j.limit != nil {
		return j.limitClass().Max, nil
	}
	return j.max, nil
}

func (j *Hinge) SetMaxAngle(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	min := j.min
	if j.limit != nil {
		min = j.limitClass().Min
	}
	if v < min {
		return checkNonNegative("max - min", v-min)
	}
	j.max = v
	if j.limit != nil {
		j.limitClass().Max = v
	}
	return nil
}

func (j *Hinge) LimitsEnabled() (bool, error) {
	if err := j.live(); err != nil {
		return false, err
	}
	return j.limit != nil, nil
}

// SetLimitsEnabled adds or removes the native rotary limit constraint.
func (j *Hinge) SetLimitsEnabled(on bool) error {
	if err := j.live(); err != nil {
		return err
	}
	if on == (j.limit != nil) {
		return nil
	}
	if on {
		j.limit = j.add(cp.NewRotaryLimitJoint(j.anchor(), j.child.Handle(), j.min, j.max))
		return nil
	}
	j.min = j.limitClass().Min
	j.max = j.limitClass().Max
	j.world.Space().RemoveConstraint(j.limit)
	for i, c := range j.constraints {
		if c == j.limit {
			j.constraints = append(j.constraints[:i], j.constraints[i+1:]...)
			break
		}
	}
	j.limit = nil
	return nil
}
