package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/simscript/event"
	"github.com/milk9111/simscript/scene"
	"github.com/milk9111/simscript/sim"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	stepDT = 1.0 / 60.0

	// frames a key must be held before onKeyExtended starts repeating
	extendedFrames = 30
	// max frames between two presses of the same button to count as a double click
	doubleClickFrames = 30
)

// buttonEvents maps each mouse button to its down/up/double-click events.
var buttonEvents = map[ebiten.MouseButton][3]event.Name{
	ebiten.MouseButtonLeft:   {event.OnLButtonDown, event.OnLButtonUp, event.OnLButtonDoubleClick},
	ebiten.MouseButtonRight:  {event.OnRButtonDown, event.OnRButtonUp, event.OnRButtonDoubleClick},
	ebiten.MouseButtonMiddle: {event.OnMButtonDown, event.OnMButtonUp, event.OnMButtonDoubleClick},
	ebiten.MouseButton3:      {event.OnXButton1Down, event.OnXButton1Up, event.OnXButton1DoubleClick},
	ebiten.MouseButton4:      {event.OnXButton2Down, event.OnXButton2Up, event.OnXButton2DoubleClick},
}

type Game struct {
	scenePath string
	sceneDir  string

	world  *sim.World
	spec   *scene.Spec
	joints []scene.Destroyer

	watcher *scene.Watcher

	keyBuf    []ebiten.Key
	lastDown  map[ebiten.MouseButton]int
	lastMouse cp.Vector
	frames    int

	debug           bool
	lastScriptError string
}

func NewGame(scenePath string, watch bool) (*Game, error) {
	g := &Game{
		scenePath: scenePath,
		sceneDir:  filepath.Dir(scenePath),
		lastDown:  make(map[ebiten.MouseButton]int),
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}

	if watch {
		w, err := scene.NewWatcher(g.sceneDir)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", g.sceneDir, err)
		}
		g.watcher = w
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// Report receives translated script errors from the world and keeps the most
// recent one for the HUD.
func (g *Game) Report(err *event.ScriptError) {
	g.lastScriptError = err.Error()
	log.Printf("simscript: %s", g.lastScriptError)
}

func (g *Game) loadScene() error {
	spec, err := scene.LoadSpec[scene.Spec](g.scenePath)
	if err != nil {
		return err
	}

	world := sim.NewWorld(cp.Vector{X: spec.Gravity.X, Y: spec.Gravity.Y})
	world.SetReporter(g)
	joints, err := scene.Build(world, &spec, scene.DirLoader(g.sceneDir))
	if err != nil {
		return err
	}

	if g.world != nil {
		g.world.End()
	}
	g.world = world
	g.spec = &spec
	g.joints = joints
	g.lastScriptError = ""
	return nil
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.world.SetPlaying(!g.world.Playing())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	g.drainWatcher()
	g.forwardKeys()
	g.forwardMouse()

	g.world.Step(stepDT)
	return nil
}

// drainWatcher collects pending change notifications and reloads the scene
// once per burst. A broken edit keeps the running world.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			changed = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("simscript: watch: %v", err)
		default:
			if changed {
				if err := g.loadScene(); err != nil {
					log.Printf("simscript: reload: %v", err)
				}
			}
			return
		}
	}
}

func (g *Game) forwardKeys() {
	g.keyBuf = inpututil.AppendJustPressedKeys(g.keyBuf[:0])
	for _, k := range g.keyBuf {
		g.world.DispatchKeyDown(k.String())
	}
	g.keyBuf = inpututil.AppendJustReleasedKeys(g.keyBuf[:0])
	for _, k := range g.keyBuf {
		g.world.DispatchKeyUp(k.String())
	}
	g.keyBuf = inpututil.AppendPressedKeys(g.keyBuf[:0])
	for _, k := range g.keyBuf {
		if inpututil.KeyPressDuration(k) >= extendedFrames {
			g.world.DispatchKeyExtended(k.String())
		}
	}
}

func (g *Game) forwardMouse() {
	mx, my := ebiten.CursorPosition()
	pos := toWorld(mx, my)
	if pos != g.lastMouse {
		g.lastMouse = pos
		g.world.DispatchMouseMove(pos.X, pos.Y)
	}

	for btn, events := range buttonEvents {
		if inpututil.IsMouseButtonJustPressed(btn) {
			g.world.DispatchButton(events[0], pos.X, pos.Y)
			if g.frames-g.lastDown[btn] <= doubleClickFrames {
				g.world.DispatchButton(events[2], pos.X, pos.Y)
			}
			g.lastDown[btn] = g.frames
		}
		if inpututil.IsMouseButtonJustReleased(btn) {
			g.world.DispatchButton(events[1], pos.X, pos.Y)
		}
	}

	// Left button doubles as the picking pointer.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.world.ClickAt(pos.X, pos.Y)
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.world.DragTo(pos.X, pos.Y)
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.world.Unclick()
	}

	if xoff, yoff := ebiten.Wheel(); xoff != 0 || yoff != 0 {
		if yoff != 0 {
			g.world.DispatchWheelRotate(yoff)
		}
		if xoff != 0 {
			g.world.DispatchWheelTilt(xoff)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})

	for _, bs := range g.spec.Bodies {
		b := g.world.BodyByName(bs.Name)
		if b == nil {
			continue
		}
		g.drawBody(screen, bs, b)
	}

	if g.debug {
		drawSpaceDebug(screen, g.world.Space())
	}

	g.world.Draw()

	status := "playing"
	if !g.world.Playing() {
		status = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frame: %d    FPS: %.2f    %s    (P pauses, F3 debug, F12 quits)",
		g.world.Frame(), ebiten.ActualFPS(), status))

	if g.lastScriptError != "" {
		text.Draw(screen, g.lastScriptError, basicfont.Face7x13, 8, baseHeight-12,
			color.RGBA{R: 255, G: 96, B: 96, A: 255})
	}
}

func (g *Game) drawBody(screen *ebiten.Image, bs scene.BodySpec, b *sim.Body) {
	clr := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	if bs.Shape == "static_box" {
		clr = color.RGBA{R: 110, G: 140, B: 110, A: 255}
	}

	pos := b.Position()
	sx, sy := toScreen(pos)

	if bs.Shape == "circle" {
		vector.StrokeCircle(screen, sx, sy, float32(bs.Radius), 1, clr, true)
		// radius tick so rotation is visible
		a := b.Angle()
		vector.StrokeLine(screen, sx, sy,
			sx+float32(bs.Radius*math.Cos(a)), sy-float32(bs.Radius*math.Sin(a)), 1, clr, true)
		return
	}

	hw, hh := bs.Width/2, bs.Height/2
	a := b.Angle()
	cos, sin := math.Cos(a), math.Sin(a)
	corners := [4]cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	var pts [4][2]float32
	for i, c := range corners {
		world := cp.Vector{
			X: pos.X + c.X*cos - c.Y*sin,
			Y: pos.Y + c.X*sin + c.Y*cos,
		}
		pts[i][0], pts[i][1] = toScreen(world)
	}
	for i := range pts {
		next := pts[(i+1)%4]
		vector.StrokeLine(screen, pts[i][0], pts[i][1], next[0], next[1], 1, clr, true)
	}
}

// toWorld converts a cursor position to simulation coordinates: origin at the
// view center, y up.
func toWorld(mx, my int) cp.Vector {
	return cp.Vector{
		X: float64(mx) - baseWidth/2,
		Y: baseHeight/2 - float64(my),
	}
}

func toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X + baseWidth/2), float32(baseHeight/2 - v.Y)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
