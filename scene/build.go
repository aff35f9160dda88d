package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/joint"
	"github.com/milk9111/simscript/script"
	"github.com/milk9111/simscript/sim"
)

// ScriptLoader resolves a script name from a body spec to its source.
type ScriptLoader func(name string) ([]byte, error)

// DirLoader reads script sources from dir.
func DirLoader(dir string) ScriptLoader {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
}

// Destroyer is the part of a joint's surface the scene owns after build.
type Destroyer interface {
	Destroy() error
	Destroyed() bool
}

// Build instantiates the spec's bodies and joints into world. Scripts are
// compiled through load and attached before any joint is built, so touch
// flags are already pushed when the solver first runs.
func Build(world *sim.World, spec *Spec, load ScriptLoader) ([]Destroyer, error) {
	for _, bs := range spec.Bodies {
		if err := buildBody(world, bs, load); err != nil {
			return nil, err
		}
	}

	joints := make([]Destroyer, 0, len(spec.Joints))
	for _, js := range spec.Joints {
		j, err := buildJoint(world, js)
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}
	return joints, nil
}

func buildBody(world *sim.World, bs BodySpec, load ScriptLoader) error {
	if bs.Name == "" {
		return fmt.Errorf("scene: body with no name")
	}
	if world.BodyByName(bs.Name) != nil {
		return fmt.Errorf("scene: duplicate body name %q", bs.Name)
	}

	pos := cp.Vector{X: bs.Position.X, Y: bs.Position.Y}
	var b *sim.Body
	switch bs.Shape {
	case "box":
		b = world.NewBoxBody(bs.Name, bs.Mass, bs.Width, bs.Height, pos)
	case "circle":
		b = world.NewCircleBody(bs.Name, bs.Mass, bs.Radius, pos)
	case "static_box":
		b = world.NewStaticBox(bs.Name, bs.Width, bs.Height, pos)
	default:
		return fmt.Errorf("scene: body %q: unknown shape %q", bs.Name, bs.Shape)
	}

	if bs.Script == "" {
		return nil
	}
	if load == nil {
		return fmt.Errorf("scene: body %q references script %q but no loader was given", bs.Name, bs.Script)
	}
	src, err := load(bs.Script)
	if err != nil {
		return fmt.Errorf("scene: body %q: %w", bs.Name, err)
	}
	prog, err := script.Compile(src, bs.Script)
	if err != nil {
		return fmt.Errorf("scene: body %q: %w", bs.Name, err)
	}
	ctx, err := b.AttachContext(script.Marker)
	if err != nil {
		return fmt.Errorf("scene: body %q: %w", bs.Name, err)
	}
	prog.Attach(ctx, script.BodyObject(b))
	return nil
}

func buildJoint(world *sim.World, js JointSpec) (Destroyer, error) {
	child := world.BodyByName(js.Child)
	if child == nil {
		return nil, fmt.Errorf("scene: joint %s: unknown child body %q", js.Kind, js.Child)
	}
	var parent *sim.Body
	if js.Parent != "" {
		parent = world.BodyByName(js.Parent)
		if parent == nil {
			return nil, fmt.Errorf("scene: joint %s: unknown parent body %q", js.Kind, js.Parent)
		}
	}

	pin := joint.Pin{
		Position:  cp.Vector{X: js.Pin.Position.X, Y: js.Pin.Position.Y},
		Direction: cp.Vector{X: js.Pin.Direction.X, Y: js.Pin.Direction.Y},
	}

	var (
		d     Destroyer
		nums  map[string]func(float64) error
		flags map[string]func(bool) error
		err   error
	)
	switch js.Kind {
	case "up_vector":
		j, e := joint.NewUpVector(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{"accel": j.SetAccel, "damp": j.SetDamp}
		flags = map[string]func(bool) error{"damper_enabled": j.SetDamperEnabled}
	case "spring":
		j, e := joint.NewSpring(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{
			"stiffness":   j.SetStiffness,
			"rest_length": j.SetRestLength,
			"damp":        j.SetDamp,
		}
		flags = map[string]func(bool) error{"damper_enabled": j.SetDamperEnabled}
	case "motor":
		j, e := joint.NewMotor(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{"rate": j.SetRate, "max_torque": j.SetMaxTorque}
		flags = map[string]func(bool) error{"enabled": j.SetEnabled}
	case "servo":
		j, e := joint.NewServo(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{
			"target_angle": j.SetTargetAngle,
			"rate":         j.SetRate,
			"power":        j.SetPower,
		}
		flags = map[string]func(bool) error{"enabled": j.SetEnabled}
	case "hinge":
		j, e := joint.NewHinge(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{"min_angle": j.SetMinAngle, "max_angle": j.SetMaxAngle}
		flags = map[string]func(bool) error{"limits_enabled": j.SetLimitsEnabled}
	case "slider":
		j, e := joint.NewSlider(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{"min": j.SetMin, "max": j.SetMax}
	case "fixed":
		j, e := joint.NewFixed(world, parent, child, pin, js.Group)
		if e != nil {
			return nil, wrapJointErr(js, e)
		}
		d = j
		nums = map[string]func(float64) error{"breaking_force": j.SetBreakingForce}
	default:
		return nil, fmt.Errorf("scene: unknown joint kind %q", js.Kind)
	}

	if err = applyParams(js, nums, flags); err != nil {
		return nil, err
	}
	return d, nil
}

// applyParams runs the spec's setters in sorted key order so a scene builds
// the same way every load.
func applyParams(js JointSpec, nums map[string]func(float64) error, flags map[string]func(bool) error) error {
	for _, k := range sortedKeys(js.Params) {
		set, ok := nums[k]
		if !ok {
			return fmt.Errorf("scene: joint %s: unknown param %q", js.Kind, k)
		}
		if err := set(js.Params[k]); err != nil {
			return wrapJointErr(js, err)
		}
	}
	for _, k := range sortedKeys(js.Flags) {
		set, ok := flags[k]
		if !ok {
			return fmt.Errorf("scene: joint %s: unknown flag %q", js.Kind, k)
		}
		if err := set(js.Flags[k]); err != nil {
			return wrapJointErr(js, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wrapJointErr(js JointSpec, err error) error {
	return fmt.Errorf("scene: joint %s on %q: %w", js.Kind, js.Child, err)
}
