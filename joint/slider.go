package joint

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// DefaultSliderMin is the lower travel bound pushed at construction; the
// upper bound defaults to the pin-to-child distance.
const DefaultSliderMin = 0.0

// Slider constrains the child's distance from the pin position on the anchor
// body to a [min, max] range with a native slide joint.
type Slider struct {
	*base
	slide *cp.Constraint
}

// NewSlider creates a slider joint and pushes its defaults: min travel 0,
// max travel = construction distance between pin and child.
func NewSlider(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*Slider, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &Slider{base: b}

	anchorA := b.anchor().WorldToLocal(b.pin.Position)
	max := b.pin.Position.Distance(child.Position())
	j.slide = b.add(cp.NewSlideJoint(
		b.anchor(), child.Handle(),
		anchorA, cp.Vector{},
		DefaultSliderMin, max,
	))
	return j, nil
}

func (j *Slider) class() *cp.SlideJoint {
	return j.slide.Class.(*cp.SlideJoint)
}

func (j *Slider) Min() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.class().Min, nil
}

func (j *Slider) SetMin(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkNonNegative("min", v); err != nil {
		return err
	}
	if v > j.class().Max {
		return checkNonNegative("max - min", j.class().Max-v)
	}
	j.class().Min = v
	return nil
}

func (j *Slider) Max() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.class().Max, nil
}

func (j *Slider) SetMax(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if v < j.class().Min {
		return checkNonNegative("max - min", v-j.class().Min)
	}
	j.class().Max = v
	return nil
}
