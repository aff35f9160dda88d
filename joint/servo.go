package joint

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// Servo defaults pushed at construction.
const (
	DefaultServoRate   = 4.0
	DefaultServoPower  = 1e5
	DefaultServoTarget = 0.0
)

// Servo drives the child's relative angle toward a commanded target. It is a
// native simple motor whose rate is recomputed in the constraint's pre-solve
// hook, proportional to the remaining angular error.
type Servo struct {
	*base
	motor *cp.Constraint

	// target and rate are controller setpoints, not solver state; the native
	// layer only ever sees the resulting motor rate.
	target float64
	rate   float64
	power  float64
}

// NewServo creates a servo joint and pushes its defaults: rate 4.0, power
// 1e5, target angle 0, servo disabled.
func NewServo(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*Servo, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &Servo{base: b, target: DefaultServoTarget, rate: DefaultServoRate, power: DefaultServoPower}
	j.motor = b.add(cp.NewSimpleMotor(b.anchor(), child.Handle(), 0))
	j.motor.SetMaxForce(0)

	anchor := b.anchor()
	childHandle := child.Handle()
	j.motor.PreSolve = func(c *cp.Constraint, s *cp.Space) {
		if c.MaxForce() == 0 {
			return
		}
		err := j.target - (childHandle.Angle() - anchor.Angle())
		rate := err * j.rate
		limit := math.Abs(j.rate)
		if rate > limit {
			rate = limit
		} else if rate < -limit {
			rate = -limit
		}
		j.motor.Class.(*cp.SimpleMotor).Rate = -rate
	}
	return j, nil
}

func (j *Servo) TargetAngle() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.target, nil
}

func (j *Servo) SetTargetAngle(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	j.target = v
	return nil
}

// Rate returns the maximum angular speed the servo will command.
func (j *Servo) Rate() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.rate, nil
}

func (j *Servo) SetRate(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkNonNegative("rate", v); err != nil {
		return err
	}
	j.rate = v
	return nil
}

// Power is the native max torque applied while the servo is enabled.
func (j *Servo) Power() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	if j.motor.MaxForce() > 0 {
		return j.motor.MaxForce(), nil
	}
	return j.power, nil
}

func (j *Servo) SetPower(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkPositive("power", v); err != nil {
		return err
	}
	j.power = v
	if j.motor.MaxForce() > 0 {
		j.motor.SetMaxForce(v)
	}
	return nil
}

func (j *Servo) Enabled() (bool, error) {
	if err := j.live(); err != nil {
		return false, err
	}
	return j.motor.MaxForce() > 0, nil
}

func (j *Servo) SetEnabled(on bool) error {
	if err := j.live(); err != nil {
		return err
	}
	if on {
		j.motor.SetMaxForce(j.power)
	} else {
		if j.motor.MaxForce() > 0 {
			j.power = j.motor.MaxForce()
		}
		j.motor.SetMaxForce(0)
	}
	return nil
}
