// Package script compiles user tengo sources and binds the handler functions
// they define into a body's event context. A script declares handlers as
// top-level functions named after events:
//
//	onTouch := func(this, args) { ... }
//
// Handler discovery probes the compiled program for each member of the fixed
// event set; dispatch re-runs the program with __event/__this/__args set and a
// generated trailer that calls the matching handler.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/simscript/event"
)

// Marker is the source-file token tengo stamps into its error positions. The
// error translator scans for it to attribute a failure to a script line.
const Marker = "(main)"

// Program is a compiled body script plus the dispatch trailer generated for
// the handlers it defines.
type Program struct {
	compiled *tengo.Compiled
	name     string
	handlers []event.Name
}

// Compile builds a program from src. name identifies the script in compile
// diagnostics only; runtime line attribution uses Marker.
func Compile(src []byte, name string) (*Program, error) {
	probe, err := compileSource(src)
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	// Top level must run once so handler globals exist for probing.
	if err := probe.Run(); err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}

	var handlers []event.Name
	for _, n := range event.Names() {
		if !probe.IsDefined(n.String()) {
			continue
		}
		switch probe.Get(n.String()).Object().(type) {
		case *tengo.CompiledFunction, *tengo.UserFunction:
			handlers = append(handlers, n)
		}
	}

	full := make([]byte, 0, len(src)+64*len(handlers))
	full = append(full, src...)
	full = append(full, trailerFor(handlers)...)
	compiled, err := compileSource(full)
	if err != nil {
		return nil, fmt.Errorf("script: compile dispatch trailer for %s: %w", name, err)
	}

	return &Program{compiled: compiled, name: name, handlers: handlers}, nil
}

// Name returns the identifier the program was compiled under.
func (p *Program) Name() string { return p.name }

// Handlers returns the event names the script defines handlers for.
func (p *Program) Handlers() []event.Name {
	return append([]event.Name(nil), p.handlers...)
}

// Attach binds one callback per discovered handler into ctx and returns the
// bind count. this becomes the script's __this value; nil gets an empty map.
func (p *Program) Attach(ctx *event.Context, this tengo.Object) int {
	if this == nil {
		this = &tengo.Map{Value: map[string]tengo.Object{}}
	}
	bound := 0
	for _, h := range p.handlers {
		if ctx.SetProc(h.String(), &callback{prog: p, name: h, this: this}) {
			bound++
		}
	}
	return bound
}

func compileSource(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	_ = s.Add("__event", "")
	_ = s.Add("__this", map[string]any{})
	_ = s.Add("__args", []any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return s.Compile()
}

func trailerFor(handlers []event.Name) string {
	var b strings.Builder
	for _, h := range handlers {
		fmt.Fprintf(&b, "\nif __event == %q { %s(__this, __args) }", h.String(), h.String())
	}
	b.WriteString("\n")
	return b.String()
}

// callback dispatches one event into the compiled program. Running the
// program re-executes the top level (cheap for handler-only scripts, same
// trade the engine's other scripted systems make) and then the trailer branch
// for the current event.
type callback struct {
	prog *Program
	name event.Name
	this tengo.Object
}

func (c *callback) Invoke(args ...any) error {
	vals := make([]tengo.Object, 0, len(args))
	for _, a := range args {
		vals = append(vals, toObject(a))
	}
	cpl := c.prog.compiled
	if err := cpl.Set("__event", c.name.String()); err != nil {
		return err
	}
	if err := cpl.Set("__this", c.this); err != nil {
		return err
	}
	if err := cpl.Set("__args", &tengo.ImmutableArray{Value: vals}); err != nil {
		return err
	}
	return cpl.Run()
}
