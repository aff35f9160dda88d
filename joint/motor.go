package joint

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// Motor defaults pushed at construction.
const (
	DefaultMotorRate   = 0.0
	DefaultMotorTorque = 1e5
)

// Motor drives the relative angular velocity between the anchor body and the
// child with a native simple motor. While disabled the motor's max force is
// zero, so it exerts no torque regardless of rate.
type Motor struct {
	*base
	motor *cp.Constraint

	// torque shadows the max torque while the motor is disabled; the native
	// layer expresses "disabled" as max force zero.
	torque float64
}

// NewMotor creates a motor joint and pushes its defaults: rate 0, max torque
// 1e5, motor disabled.
func NewMotor(world *sim.World, parent, child *sim.Body, pin Pin, group string) (*Motor, error) {
	b, err := newBase(world, parent, child, pin, group)
	if err != nil {
		return nil, err
	}
	j := &Motor{base: b, torque: DefaultMotorTorque}
	j.motor = b.add(cp.NewSimpleMotor(b.anchor(), child.Handle(), DefaultMotorRate))
	j.motor.SetMaxForce(0)
	return j, nil
}

func (j *Motor) class() *cp.SimpleMotor {
	return j.motor.Class.(*cp.SimpleMotor)
}

// Rate returns the commanded angular velocity, read from the native motor.
func (j *Motor) Rate() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	return j.class().Rate, nil
}

// SetRate accepts any finite rate; direction is encoded in the sign.
func (j *Motor) SetRate(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	j.class().Rate = v
	return nil
}

func (j *Motor) MaxTorque() (float64, error) {
	if err := j.live(); err != nil {
		return 0, err
	}
	if j.motor.MaxForce() > 0 {
		return j.motor.MaxForce(), nil
	}
	return j.torque, nil
}

func (j *Motor) SetMaxTorque(v float64) error {
	if err := j.live(); err != nil {
		return err
	}
	if err := checkPositive("max torque", v); err != nil {
		return err
	}
	j.torque = v
	if j.motor.MaxForce() > 0 {
		j.motor.SetMaxForce(v)
	}
	return nil
}

// Enabled derives from the native max force: a motor with zero max force
// exerts nothing.
func (j *Motor) Enabled() (bool, error) {
	if err := j.live(); err != nil {
		return false, err
	}
	return j.motor.MaxForce() > 0, nil
}

func (j *Motor) SetEnabled(on bool) error {
	if err := j.live(); err != nil {
		return err
	}
	if on {
		j.motor.SetMaxForce(j.torque)
	} else {
		if j.motor.MaxForce() > 0 {
			j.torque = j.motor.MaxForce()
		}
		j.motor.SetMaxForce(0)
	}
	return nil
}
