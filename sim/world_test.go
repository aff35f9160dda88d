package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/event"
)

type captureReporter struct {
	errs []*event.ScriptError
}

func (r *captureReporter) Report(err *event.ScriptError) {
	r.errs = append(r.errs, err)
}

func record(log *[]string, tag string) event.Callback {
	return event.Func(func(args ...any) error {
		*log = append(*log, tag)
		return nil
	})
}

func TestStepDispatchOrder(t *testing.T) {
	w := NewWorld(cp.Vector{Y: -100})
	b := w.NewBoxBody("crate", 1, 10, 10, cp.Vector{X: 0, Y: 100})
	ctx, err := b.AttachContext("crate.tengo")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	var calls []string
	ctx.On(record(&calls, "start"), "onStart")
	ctx.On(record(&calls, "pre"), "onPreUpdate")
	ctx.On(record(&calls, "update"), "onUpdate")
	ctx.On(record(&calls, "post"), "onPostUpdate")
	ctx.On(record(&calls, "end"), "onEnd")

	w.Step(1.0 / 60)
	w.Step(1.0 / 60)
	w.End()

	want := []string{"start", "pre", "update", "post", "pre", "update", "post", "end"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls[%d] = %q, want %q (full: %v)", i, calls[i], want[i], calls)
		}
	}
	if w.Frame() != 2 {
		t.Fatalf("frame = %d, want 2", w.Frame())
	}
}

func TestStartFiresOnce(t *testing.T) {
	w := NewWorld(cp.Vector{})
	b := w.NewBoxBody("crate", 1, 10, 10, cp.Vector{})
	ctx, _ := b.AttachContext("crate.tengo")

	starts := 0
	ctx.On(event.Func(func(args ...any) error { starts++; return nil }), "onStart")

	w.Start()
	w.Start()
	w.Step(1.0 / 60)
	if starts != 1 {
		t.Fatalf("onStart fired %d times, want 1", starts)
	}
}

func TestPauseStopsSteppingButNotDraw(t *testing.T) {
	w := NewWorld(cp.Vector{})
	b := w.NewBoxBody("crate", 1, 10, 10, cp.Vector{})
	ctx, _ := b.AttachContext("crate.tengo")

	var calls []string
	ctx.On(record(&calls, "play"), "onPlay")
	ctx.On(record(&calls, "pause"), "onPause")
	ctx.On(record(&calls, "update"), "onUpdate")
	ctx.On(record(&calls, "draw"), "onDraw")

	w.Start()
	w.SetPlaying(false)
	w.Step(1.0 / 60)
	w.Draw()
	w.SetPlaying(true)
	w.Step(1.0 / 60)

	want := []string{"pause", "draw", "play", "update"}
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestDuplicateContextAttach(t *testing.T) {
	w := NewWorld(cp.Vector{})
	b := w.NewBoxBody("crate", 1, 10, 10, cp.Vector{})

	ctx, err := b.AttachContext("crate.tengo")
	if err != nil {
		t.Fatalf("first attach: %v", err)
	}
	ctx.On(noop(), "onUpdate")

	if _, err := b.AttachContext("other.tengo"); !errors.Is(err, event.ErrDuplicateContext) {
		t.Fatalf("second attach error = %v, want ErrDuplicateContext", err)
	}
	if !b.Context().Bound("onUpdate") {
		t.Fatalf("failed attach must leave the original bindings untouched")
	}
}

func noop() event.Callback {
	return event.Func(func(args ...any) error { return nil })
}

func TestDispatchErrorDoesNotAbortStep(t *testing.T) {
	w := NewWorld(cp.Vector{})
	rep := &captureReporter{}
	w.SetReporter(rep)

	bad := w.NewBoxBody("bad", 1, 10, 10, cp.Vector{X: -50})
	good := w.NewBoxBody("good", 1, 10, 10, cp.Vector{X: 50})

	badCtx, _ := bad.AttachContext("bad.tengo")
	goodCtx, _ := good.AttachContext("good.tengo")

	badCtx.On(event.Func(func(args ...any) error {
		return fmt.Errorf("Runtime Error: boom\n\tat bad.tengo:3:1")
	}), "onUpdate")

	goodRan := 0
	goodCtx.On(event.Func(func(args ...any) error { goodRan++; return nil }), "onUpdate")

	w.Step(1.0 / 60)
	w.Step(1.0 / 60)

	if goodRan != 2 {
		t.Fatalf("good callback ran %d times, want 2", goodRan)
	}
	if len(rep.errs) != 2 {
		t.Fatalf("reporter saw %d errors, want 2", len(rep.errs))
	}
	if rep.errs[0].Line != 3 {
		t.Fatalf("reported line = %d, want 3", rep.errs[0].Line)
	}
}

func TestTouchFlagEndToEnd(t *testing.T) {
	w := NewWorld(cp.Vector{})
	b := w.NewBoxBody("e", 1, 10, 10, cp.Vector{})
	ctx, _ := b.AttachContext("e.tengo")

	ctx.On(noop(), "onTouch", "onUntouch")
	if !b.ContactListening() {
		t.Fatalf("flag should be true with onTouch and onUntouch bound")
	}

	ctx.SetProc("onTouch", nil)
	if !b.ContactListening() {
		t.Fatalf("flag should remain true while onUntouch is bound")
	}

	ctx.SetProc("onUntouch", nil)
	if b.ContactListening() {
		t.Fatalf("flag should be false once both are unbound")
	}
}

func TestContactEventsDispatchedAfterStep(t *testing.T) {
	w := NewWorld(cp.Vector{Y: -200})
	floor := w.NewStaticBox("floor", 200, 10, cp.Vector{Y: 0})
	ball := w.NewBoxBody("ball", 1, 10, 10, cp.Vector{Y: 30})
	_ = floor

	ctx, _ := ball.AttachContext("ball.tengo")

	var touched, touching, untouched int
	var toucher string
	var detail map[string]any
	ctx.On(event.Func(func(args ...any) error {
		touched++
		toucher, _ = args[0].(string)
		detail, _ = args[1].(map[string]any)
		return nil
	}), "onTouch")
	ctx.On(event.Func(func(args ...any) error { touching++; return nil }), "onTouching")
	ctx.On(event.Func(func(args ...any) error { untouched++; return nil }), "onUntouch")

	for i := 0; i < 240 && touched == 0; i++ {
		w.Step(1.0 / 60)
	}
	if touched == 0 {
		t.Fatalf("falling body never touched the floor")
	}
	if toucher != "floor" {
		t.Fatalf("toucher = %q, want %q", toucher, "floor")
	}
	if detail == nil {
		t.Fatalf("contact detail missing despite touch flag set")
	}
	if _, ok := detail["normal"]; !ok {
		t.Fatalf("contact detail has no normal: %v", detail)
	}

	// while resting on the floor the pair keeps solving
	for i := 0; i < 30; i++ {
		w.Step(1.0 / 60)
	}
	if touching == 0 {
		t.Fatalf("onTouching never fired while resting")
	}

	// fling the body upward until the pair separates
	ball.SetVelocity(cp.Vector{Y: 400})
	for i := 0; i < 120 && untouched == 0; i++ {
		w.Step(1.0 / 60)
	}
	if untouched == 0 {
		t.Fatalf("onUntouch never fired after separation")
	}
}

func TestContactDetailSkippedWhenNobodyListens(t *testing.T) {
	w := NewWorld(cp.Vector{Y: -200})
	w.NewStaticBox("floor", 200, 10, cp.Vector{Y: 0})
	ball := w.NewBoxBody("ball", 1, 10, 10, cp.Vector{Y: 30})
	ctx, _ := ball.AttachContext("ball.tengo")

	// only a lifecycle handler; no touch slots bound
	updates := 0
	ctx.On(event.Func(func(args ...any) error { updates++; return nil }), "onUpdate")

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}
	if ball.ContactListening() {
		t.Fatalf("flag must be false with no touch slots bound")
	}
	if updates == 0 {
		t.Fatalf("onUpdate should still fire")
	}
}

func TestPointerClickDragUnclick(t *testing.T) {
	w := NewWorld(cp.Vector{})
	b := w.NewBoxBody("crate", 1, 20, 20, cp.Vector{X: 0, Y: 0})
	ctx, _ := b.AttachContext("crate.tengo")

	var calls []string
	ctx.On(record(&calls, "click"), "onClick")
	ctx.On(record(&calls, "drag"), "onDrag")
	ctx.On(record(&calls, "unclick"), "onUnclick")

	if picked := w.ClickAt(0, 0); picked != b {
		t.Fatalf("ClickAt picked %v, want the crate", picked)
	}
	w.DragTo(0, 0) // no movement: no drag
	w.DragTo(5, 5)
	w.Unclick()
	w.Unclick() // second release is a no-op

	want := []string{"click", "drag", "unclick"}
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}

	if picked := w.ClickAt(500, 500); picked != nil {
		t.Fatalf("ClickAt on empty space picked %v", picked)
	}
}

func TestInputBroadcast(t *testing.T) {
	w := NewWorld(cp.Vector{})
	a := w.NewBoxBody("a", 1, 10, 10, cp.Vector{X: -50})
	b := w.NewBoxBody("b", 1, 10, 10, cp.Vector{X: 50})

	actx, _ := a.AttachContext("a.tengo")
	bctx, _ := b.AttachContext("b.tengo")

	var keys []string
	actx.On(event.Func(func(args ...any) error {
		keys = append(keys, "a:"+args[0].(string))
		return nil
	}), "onKeyDown")
	bctx.On(event.Func(func(args ...any) error {
		keys = append(keys, "b:"+args[0].(string))
		return nil
	}), "onKeyDown")

	var wheel float64
	bctx.On(event.Func(func(args ...any) error {
		wheel = args[0].(float64)
		return nil
	}), "onMouseWheelRotate")

	w.DispatchKeyDown("Space")
	w.DispatchWheelRotate(1.5)
	w.DispatchButton(event.OnStart, 0, 0) // not a button event: ignored

	if fmt.Sprint(keys) != fmt.Sprint([]string{"a:Space", "b:Space"}) {
		t.Fatalf("keys = %v", keys)
	}
	if wheel != 1.5 {
		t.Fatalf("wheel = %v, want 1.5", wheel)
	}
}
