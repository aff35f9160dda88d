package script

import (
	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/sim"
)

// BodyObject exposes a body to its script as the __this value: an immutable
// map of accessors and commands closing over the body wrapper.
func BodyObject(b *sim.Body) tengo.Object {
	values := map[string]tengo.Object{}

	values["name"] = &tengo.String{Value: b.Name()}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := b.Position()
		return vectorArray(p), nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		b.SetPosition(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vectorArray(b.Velocity()), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		b.SetVelocity(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["apply_force"] = &tengo.UserFunction{Name: "apply_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		b.ApplyForce(cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["get_angle"] = &tengo.UserFunction{Name: "get_angle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: b.Angle()}, nil
	}}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(b.World().Frame())}, nil
	}}

	values["is_playing"] = &tengo.UserFunction{Name: "is_playing", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if b.World().Playing() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vectorArray(v cp.Vector) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X},
		&tengo.Float{Value: v.Y},
	}}
}
