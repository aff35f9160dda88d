// Package scene loads world descriptions from yaml, instantiates the bodies
// and joints they declare and attaches the scripts they reference.
package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is one scene file: gravity plus the bodies and joints to build.
type Spec struct {
	Name    string      `yaml:"name"`
	Gravity VectorSpec  `yaml:"gravity"`
	Bodies  []BodySpec  `yaml:"bodies"`
	Joints  []JointSpec `yaml:"joints"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BodySpec declares one body. Shape selects the constructor: box and circle
// are dynamic, static_box is immovable. Script names a handler source to
// compile and attach.
type BodySpec struct {
	Name     string     `yaml:"name"`
	Shape    string     `yaml:"shape"`
	Mass     float64    `yaml:"mass"`
	Width    float64    `yaml:"width"`
	Height   float64    `yaml:"height"`
	Radius   float64    `yaml:"radius"`
	Position VectorSpec `yaml:"position"`
	Script   string     `yaml:"script"`
}

// JointSpec declares one joint between child and an optional parent. An empty
// parent connects the child to the scene's static ground. Params and Flags
// apply to the kind's setters after construction.
type JointSpec struct {
	Kind   string             `yaml:"kind"`
	Parent string             `yaml:"parent"`
	Child  string             `yaml:"child"`
	Group  string             `yaml:"group"`
	Pin    PinSpec            `yaml:"pin"`
	Params map[string]float64 `yaml:"params"`
	Flags  map[string]bool    `yaml:"flags"`
}

type PinSpec struct {
	Position  VectorSpec `yaml:"position"`
	Direction VectorSpec `yaml:"direction"`
}

// LoadSpec reads and unmarshals one yaml file.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := os.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("scene: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scene: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}
