package joint

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// Up-vector defaults pushed at construction.
const (
	DefaultUpVectorAccel = 40.0
	DefaultUpVectorDamp  = 10.0
)

// UpVector steers the child body's rotation so its local up axis tracks the
// pin direction. Backed by a native damped rotary spring; the spring's
// stiffness holds the angular acceleration and its damping is zero while the
// damper is disabled.
type UpVector struct {
	*base
	spring *cp.Constraint

	// damp shadows the damping magnitude while the damper is disabled; the
	// native layer has no independent enable switch.
	damp    float64
	enabled bool
}

// NewUpVector creates an up-vector joint and pushes its defaults: angular
// acceleration 40.0, angular damping 10.0, damper disabled, pin direction
// defaulting to the world up axis.
func NewUpVector(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*UpVector, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &UpVector{base: b, damp: DefaultUpVectorDamp}
	rest := restAngleFor(b.pin.Direction)
	j.spring = b.add(cp.NewDampedRotarySpring(b.anchor(), child.Handle(), rest, DefaultUpVectorAccel, 0))
	return j, nil
}

func (j *UpVector) class() *cp.DampedRotarySpring {
	return j.spring.Class.(*cp.DampedRotarySpring)
}

// Accel returns the angular acceleration, read from the native spring.
func (j *UpVector) Accel() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.class().Stiffness, nil
}

// SetAccel rejects negative values.
func (j *UpVector) SetAccel(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkNonNegative("accel", v); err != nil {
		return err
	}
	j.class().Stiffness = v
	return nil
}

// Damp returns the angular damping magnitude. The value is meaningful even
// while the damper is disabled.
func (j *UpVector) Damp() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	if j.enabled {
		return j.class().Damping, nil
	}
	return j.damp, nil
}

// SetDamp rejects negative values. The new magnitude only has physical effect
// while the damper is enabled.
func (j *UpVector) SetDamp(v float64) error {
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

// DamperEnabled reports whether the damping term is active.
func (j *UpVector) DamperEnabled() (bool, error) {
	if err := j.live(); err != nil {
		return false, err
	}
	return j.enabled, nil
}

// SetDamperEnabled gates the damping term without discarding its magnitude.
func (j *UpVector) SetDamperEnabled(on bool) error {
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

// PinDir returns the steered direction, derived from the native rest angle.
func (j *UpVector) PinDir() (cp.Vector, error) {
	if err := j.live(); err != nil {
		return cp.Vector{}, err
	}
	return directionFor(j.class().RestAngle), nil
}

// SetPinDir redirects the joint. A zero vector is rejected.
func (j *UpVector) SetPinDir(dir cp.Vector) error {
	if err := j.live(); err != nil {
		return err
	}
	if dir.Length() == 0 {
		return checkPositive("pin direction length", 0)
	}
	j.class().RestAngle = restAngleFor(dir.Normalize())
	return nil
}

func restAngleFor(dir cp.Vector) float64 {
	return math.Atan2(dir.Y, dir.X) - math.Pi/2
}

func directionFor(rest float64) cp.Vector {
	return cp.Vector{X: math.Cos(rest + math.Pi/2), Y: math.Sin(rest + math.Pi/2)}
}
