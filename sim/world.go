package sim

import (
	"errors"
	"log"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/simscript/event"
)

const bodyCollisionType cp.CollisionType = 1

// Reporter is the single channel through which translated script errors
// surface. Dispatch failures never abort the step loop; they end up here.
type Reporter interface {
	Report(err *event.ScriptError)
}

type logReporter struct{}

func (logReporter) Report(err *event.ScriptError) {
	log.Printf("simscript: %s", err.Error())
}

// World owns the chipmunk space, the entities simulated in it and the event
// dispatch points of the step loop. All methods must be called from the
// simulation goroutine; the world does no locking of its own.
type World struct {
	space    *cp.Space
	bodies   []*Body
	byHandle map[*cp.Body]*Body
	byName   map[string]*Body

	reporter Reporter
	contacts contactQueue
	pointer  pointerState

	frame   int
	started bool
	playing bool
}

// NewWorld creates a world with the given gravity vector.
func NewWorld(gravity cp.Vector) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)

	w := &World{
		space:    space,
		byHandle: make(map[*cp.Body]*Body),
		byName:   make(map[string]*Body),
		reporter: logReporter{},
	}
	w.setupHandlers()
	return w
}

// Space returns the underlying chipmunk space.
func (w *World) Space() *cp.Space { return w.space }

func (w *World) Frame() int { return w.frame }

func (w *World) Playing() bool { return w.playing }

func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	return append(out, w.bodies...)
}

func (w *World) BodyByName(name string) *Body { return w.byName[name] }

// SetReporter replaces the script-error sink. A nil reporter restores the
// default log sink.
func (w *World) SetReporter(r Reporter) {
	if r == nil {
		r = logReporter{}
	}
	w.reporter = r
}

// NewBoxBody adds a dynamic box-shaped body.
func (w *World) NewBoxBody(name string, mass, width, height float64, pos cp.Vector) *Body {
	body := cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	body.SetPosition(pos)
	shape := cp.NewBox(body, width, height, 0)
	return w.register(name, body, shape)
}

// NewCircleBody adds a dynamic circle-shaped body.
func (w *World) NewCircleBody(name string, mass, radius float64, pos cp.Vector) *Body {
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(pos)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	return w.register(name, body, shape)
}

// NewStaticBox adds an immovable box-shaped body.
func (w *World) NewStaticBox(name string, width, height float64, pos cp.Vector) *Body {
	body := cp.NewStaticBody()
	body.SetPosition(pos)
	shape := cp.NewBox(body, width, height, 0)
	return w.register(name, body, shape)
}

func (w *World) register(name string, body *cp.Body, shape *cp.Shape) *Body {
	shape.SetFriction(0.8)
	shape.SetCollisionType(bodyCollisionType)
	w.space.AddBody(body)
	w.space.AddShape(shape)

	b := &Body{world: w, body: body, shape: shape, name: name, alive: true}
	w.bodies = append(w.bodies, b)
	w.byHandle[body] = b
	if name != "" {
		w.byName[name] = b
	}
	return b
}

// RemoveBody takes the body out of the space and invalidates the wrapper.
// Must not be called while a step is in progress.
func (w *World) RemoveBody(b *Body) {
	if b == nil || !b.alive || b.world != w {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.byHandle, b.body)
	if b.name != "" {
		delete(w.byName, b.name)
	}
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.alive = false
}

// Start fires onStart once, at frame zero, and unpauses the simulation.
func (w *World) Start() {
	if w.started {
		return
	}
	w.started = true
	w.playing = true
	w.broadcast(event.OnStart)
}

// Step advances the simulation one frame and dispatches the per-frame events:
// onPreUpdate, the native step, buffered contact events, onUpdate and
// onPostUpdate, in that order. Paused worlds do not step.
func (w *World) Step(dt float64) {
	if !w.started {
		w.Start()
	}
	if !w.playing {
		return
	}
	w.broadcast(event.OnPreUpdate, float64(w.frame))
	w.space.Step(dt)
	w.flushContacts()
	w.broadcast(event.OnUpdate, float64(w.frame))
	w.broadcast(event.OnPostUpdate, float64(w.frame))
	w.frame++
}

// End fires onEnd once, before the host resets transforms or tears the world
// down.
func (w *World) End() {
	if !w.started {
		return
	}
	w.broadcast(event.OnEnd)
	w.started = false
	w.playing = false
}

// Draw fires onDraw on every attached context. The host calls it per view
// redraw, including while paused.
func (w *World) Draw() {
	w.broadcast(event.OnDraw)
}

// SetPlaying toggles the paused state, firing onPlay/onPause on edges.
func (w *World) SetPlaying(on bool) {
	if on == w.playing {
		return
	}
	w.playing = on
	if on {
		w.broadcast(event.OnPlay)
	} else {
		w.broadcast(event.OnPause)
	}
}

// dispatch routes one event to one body's context, surfacing any script error
// through the reporter. The step loop always continues.
func (w *World) dispatch(b *Body, n event.Name, args ...any) {
	if b == nil || b.ctx == nil {
		return
	}
	if _, err := b.ctx.Call(n, args...); err != nil {
		var se *event.ScriptError
		if errors.As(err, &se) {
			w.reporter.Report(se)
		} else {
			log.Printf("simscript: dispatch %s on %s: %v", n, b.name, err)
		}
	}
}

func (w *World) broadcast(n event.Name, args ...any) {
	for _, b := range w.bodies {
		w.dispatch(b, n, args...)
	}
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(bodyCollisionType, bodyCollisionType)
	handler.UserData = w

	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, data interface{}) bool {
		world, ok := data.(*World)
		if !ok || world == nil {
			return true
		}
		a, b := world.arbiterBodies(arb)
		if a == nil || b == nil {
			return true
		}
		if !a.contactListening && !b.contactListening {
			return true
		}
		world.contacts.push(contactEvent{kind: contactBegin, a: a, b: b, info: contactDetail(arb, a, b)})
		return true
	}

	handler.PostSolveFunc = func(arb *cp.Arbiter, space *cp.Space, data interface{}) {
		world, ok := data.(*World)
		if !ok || world == nil {
			return
		}
		a, b := world.arbiterBodies(arb)
		if a == nil || b == nil {
			return
		}
		if !a.contactListening && !b.contactListening {
			return
		}
		if arb.IsFirstContact() {
			// begin already recorded this frame
			return
		}
		world.contacts.push(contactEvent{kind: contactStay, a: a, b: b, info: contactDetail(arb, a, b)})
	}

	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, data interface{}) {
		world, ok := data.(*World)
		if !ok || world == nil {
			return
		}
		a, b := world.arbiterBodies(arb)
		if a == nil || b == nil {
			return
		}
		if !a.contactListening && !b.contactListening {
			return
		}
		world.contacts.push(contactEvent{kind: contactEnd, a: a, b: b})
	}
}

func (w *World) arbiterBodies(arb *cp.Arbiter) (*Body, *Body) {
	sa, sb := arb.Shapes()
	return w.byHandle[sa.Body()], w.byHandle[sb.Body()]
}

// contactDetail materializes the per-contact record: first contact point,
// normal, accumulated impulse and relative speed.
func contactDetail(arb *cp.Arbiter, a, b *Body) ContactInfo {
	info := ContactInfo{
		Normal: arb.Normal(),
		Force:  arb.TotalImpulse(),
	}
	set := arb.ContactPointSet()
	if set.Count > 0 {
		info.Point = set.Points[0].PointA
	}
	info.Speed = a.body.Velocity().Sub(b.body.Velocity()).Length()
	return info
}

func (w *World) flushContacts() {
	for _, evt := range w.contacts.drain() {
		if !evt.a.alive || !evt.b.alive {
			continue
		}
		switch evt.kind {
		case contactBegin:
			w.dispatch(evt.a, event.OnTouch, evt.b.name, evt.info.asMap())
			w.dispatch(evt.b, event.OnTouch, evt.a.name, evt.info.inverted().asMap())
		case contactStay:
			w.dispatch(evt.a, event.OnTouching, evt.b.name, evt.info.asMap())
			w.dispatch(evt.b, event.OnTouching, evt.a.name, evt.info.inverted().asMap())
		case contactEnd:
			w.dispatch(evt.a, event.OnUntouch, evt.b.name)
			w.dispatch(evt.b, event.OnUntouch, evt.a.name)
		}
	}
}
