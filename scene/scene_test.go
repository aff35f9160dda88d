package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/joint"
	"github.com/milk9111/simscript/sim"
)

func mapLoader(scripts map[string]string) ScriptLoader {
	return func(name string) ([]byte, error) {
		src, ok := scripts[name]
		if !ok {
			return nil, fmt.Errorf("no script %q", name)
		}
		return []byte(src), nil
	}
}

func TestLoadSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	data := `
name: drop test
gravity: {x: 0, y: -200}
bodies:
  - name: floor
    shape: static_box
    width: 200
    height: 10
  - name: ball
    shape: circle
    mass: 1
    radius: 5
    position: {x: 0, y: 30}
    script: ball.tengo
joints:
  - kind: spring
    child: ball
    pin:
      position: {x: 0, y: 40}
    params:
      stiffness: 60
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadSpec[Spec](path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if spec.Name != "drop test" || spec.Gravity.Y != -200 {
		t.Fatalf("header = %q gravity %v", spec.Name, spec.Gravity)
	}
	if len(spec.Bodies) != 2 || spec.Bodies[1].Script != "ball.tengo" {
		t.Fatalf("bodies = %+v", spec.Bodies)
	}
	if len(spec.Joints) != 1 || spec.Joints[0].Params["stiffness"] != 60 {
		t.Fatalf("joints = %+v", spec.Joints)
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSpec[Spec](filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}
}

func TestBuildScene(t *testing.T) {
	spec := &Spec{
		Gravity: VectorSpec{Y: -200},
		Bodies: []BodySpec{
			{Name: "floor", Shape: "static_box", Width: 200, Height: 10},
			{Name: "ball", Shape: "circle", Mass: 1, Radius: 5, Position: VectorSpec{Y: 30}, Script: "ball.tengo"},
		},
		Joints: []JointSpec{
			{Kind: "spring", Child: "ball", Pin: PinSpec{Position: VectorSpec{Y: 40}}, Params: map[string]float64{"stiffness": 60}},
		},
	}
	load := mapLoader(map[string]string{
		"ball.tengo": `onTouch := func(this, args) { this.set_velocity(0.0, 50.0) }`,
	})

	world := sim.NewWorld(cp.Vector{X: spec.Gravity.X, Y: spec.Gravity.Y})
	joints, err := Build(world, spec, load)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ball := world.BodyByName("ball")
	if ball == nil {
		t.Fatalf("ball not built")
	}
	// The script binds a touch handler, so the flag must already be pushed.
	if !ball.ContactListening() {
		t.Fatalf("touch flag not propagated during build")
	}
	if len(joints) != 1 || joints[0].Destroyed() {
		t.Fatalf("joints = %v", joints)
	}
	if err := joints[0].Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestBuildRejectsBadSpecs(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
	}{
		{"unknown shape", Spec{Bodies: []BodySpec{{Name: "a", Shape: "pyramid"}}}},
		{"duplicate name", Spec{Bodies: []BodySpec{
			{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2},
			{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2},
		}}},
		{"unknown joint kind", Spec{
			Bodies: []BodySpec{{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2}},
			Joints: []JointSpec{{Kind: "rope", Child: "a"}},
		}},
		{"unknown child", Spec{Joints: []JointSpec{{Kind: "spring", Child: "ghost"}}}},
		{"unknown parent", Spec{
			Bodies: []BodySpec{{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2}},
			Joints: []JointSpec{{Kind: "spring", Child: "a", Parent: "ghost"}},
		}},
		{"unknown param", Spec{
			Bodies: []BodySpec{{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2}},
			Joints: []JointSpec{{Kind: "motor", Child: "a", Params: map[string]float64{"bogus": 1}}},
		}},
		{"missing script", Spec{Bodies: []BodySpec{{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2, Script: "a.tengo"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			world := sim.NewWorld(cp.Vector{})
			if _, err := Build(world, &tc.spec, nil); err == nil {
				t.Fatalf("expected build error")
			}
		})
	}
}

func TestBuildPropagatesRangeRejection(t *testing.T) {
	spec := &Spec{
		Bodies: []BodySpec{{Name: "a", Shape: "box", Mass: 1, Width: 2, Height: 2}},
		Joints: []JointSpec{
			{Kind: "spring", Child: "a", Params: map[string]float64{"stiffness": -5}},
		},
	}
	world := sim.NewWorld(cp.Vector{})
	_, err := Build(world, spec, nil)
	if !errors.Is(err, joint.ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestWatcherReportsSpecAndScriptChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	wait := func(want string) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case got := <-w.Events:
				if got == want {
					return
				}
			case err := <-w.Errors:
				t.Fatalf("watch error: %v", err)
			case <-deadline:
				t.Fatalf("no event for %s", want)
			}
		}
	}

	scenePath := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(scenePath, []byte("name: x"), 0o644); err != nil {
		t.Fatal(err)
	}
	wait(scenePath)

	scriptPath := filepath.Join(dir, "ball.tengo")
	if err := os.WriteFile(scriptPath, []byte("x := 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	wait(scriptPath)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		t.Fatalf("unexpected event %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}
