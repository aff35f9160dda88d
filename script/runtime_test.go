package script

import (
	"errors"
	"testing"

	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/event"
	"github.com/milk9111/simscript/sim"
)

type fakeEntity struct {
	name      string
	listening bool
}

func (e *fakeEntity) Name() string                { return e.name }
func (e *fakeEntity) Kind() string                { return "body" }
func (e *fakeEntity) SetContactListening(on bool) { e.listening = on }

// markerObject builds a __this map whose mark() function records calls.
func markerObject(calls *[]string) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"mark": &tengo.UserFunction{Name: "mark", Value: func(args ...tengo.Object) (tengo.Object, error) {
			s := ""
			if len(args) > 0 {
				s = ObjectAsString(args[0])
			}
			*calls = append(*calls, s)
			return tengo.UndefinedValue, nil
		}},
	}}
}

func TestCompileDiscoversHandlers(t *testing.T) {
	src := `
onStart := func(this, args) { this.mark("start") }
onTouch := func(this, args) { this.mark("touch") }
helper := func() { return 1 }
onDraw := 5
`
	p, err := Compile([]byte(src), "test.tengo")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := p.Handlers()
	if len(got) != 2 || got[0] != event.OnStart || got[1] != event.OnTouch {
		t.Fatalf("handlers = %v, want [onStart onTouch]", got)
	}
}

func TestAttachAndDispatch(t *testing.T) {
	src := `
onStart := func(this, args) { this.mark("started") }
onKeyDown := func(this, args) { this.mark(args[0]) }
`
	p, err := Compile([]byte(src), "test.tengo")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ent := &fakeEntity{name: "crate"}
	ctx := event.NewContext(ent, Marker)

	var calls []string
	if n := p.Attach(ctx, markerObject(&calls)); n != 2 {
		t.Fatalf("Attach bound %d handlers, want 2", n)
	}

	if ok, err := ctx.Call(event.OnStart); !ok || err != nil {
		t.Fatalf("Call(onStart) = (%v, %v)", ok, err)
	}
	if ok, err := ctx.Call(event.OnKeyDown, "Space"); !ok || err != nil {
		t.Fatalf("Call(onKeyDown) = (%v, %v)", ok, err)
	}
	if ok, _ := ctx.Call(event.OnUpdate); ok {
		t.Fatalf("onUpdate has no handler and must report unbound")
	}

	want := []string{"started", "Space"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestTouchHandlerSetsFlag(t *testing.T) {
	src := `onTouching := func(this, args) { this.mark("t") }`
	p, err := Compile([]byte(src), "test.tengo")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ent := &fakeEntity{name: "crate"}
	ctx := event.NewContext(ent, Marker)
	var calls []string
	p.Attach(ctx, markerObject(&calls))

	if !ent.listening {
		t.Fatalf("binding a tengo onTouching handler must push the touch flag")
	}
}

func TestRuntimeErrorLineAttribution(t *testing.T) {
	src := `onUpdate := func(this, args) {
	x := 5
	x()
}`
	p, err := Compile([]byte(src), "test.tengo")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ent := &fakeEntity{name: "crate"}
	ctx := event.NewContext(ent, Marker)
	var calls []string
	p.Attach(ctx, markerObject(&calls))

	ok, err := ctx.Call(event.OnUpdate)
	if ok {
		t.Fatalf("failing handler must not report success")
	}
	var se *event.ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ScriptError, got %T: %v", err, err)
	}
	if se.Line != 3 {
		t.Fatalf("line = %d, want 3 (message %q, frames %v)", se.Line, se.Message, se.Frames)
	}
}

func TestCompileErrorSurfaces(t *testing.T) {
	if _, err := Compile([]byte(`onStart := func(this, args) {`), "broken.tengo"); err == nil {
		t.Fatalf("unterminated function must fail to compile")
	}
}

func TestNoHandlers(t *testing.T) {
	p, err := Compile([]byte(`x := 1 + 1`), "empty.tengo")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ent := &fakeEntity{name: "crate"}
	ctx := event.NewContext(ent, Marker)
	if n := p.Attach(ctx, nil); n != 0 {
		t.Fatalf("Attach bound %d handlers, want 0", n)
	}
}

func TestBodyObjectBridge(t *testing.T) {
	w := sim.NewWorld(cp.Vector{})
	b := w.NewBoxBody("crate", 1, 10, 10, cp.Vector{X: 2, Y: 3})
	ctx, err := b.AttachContext(Marker)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	src := `
onStart := func(this, args) {
	pos := this.get_position()
	this.set_velocity(pos[0], pos[1])
}
`
	p, err := Compile([]byte(src), "crate.tengo")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	p.Attach(ctx, BodyObject(b))

	if ok, err := ctx.Call(event.OnStart); !ok || err != nil {
		t.Fatalf("Call(onStart) = (%v, %v)", ok, err)
	}
	v := b.Velocity()
	if v.X != 2 || v.Y != 3 {
		t.Fatalf("velocity = %v, want (2,3)", v)
	}
}
