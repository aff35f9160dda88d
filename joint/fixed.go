package joint

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// Fixed welds the child to the anchor body: a native pivot joint at the pin
// position plus a gear joint with ratio 1 locking the relative angle captured
// at construction.
type Fixed struct {
	*base
	pivot *cp.Constraint
	gear  *cp.Constraint
}

// NewFixed creates a fixed joint. The weld has no tunable parameters beyond
// its breaking force.
func NewFixed(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*Fixed, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &Fixed{base: b}
	j.pivot = b.add(cp.NewPivotJoint(b.anchor(), child.Handle(), b.pin.Position))
	phase := child.Handle().Angle() - b.anchor().Angle()
	j.gear = b.add(cp.NewGearJoint(b.anchor(), child.Handle(), phase, 1))
	return j, nil
}

// BreakingForce returns the max force shared by both native constraints.
func (j *Fixed) BreakingForce() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.pivot.MaxForce(), nil
}

// SetBreakingForce caps the force the weld can transmit before the solver
// lets it yield. Must be positive.
func (j *Fixed) SetBreakingForce(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkPositive("breaking force", v); err != nil {
		return err
	}
	j.pivot.SetMaxForce(v)
	j.gear.SetMaxForce(v)
	return nil
}
