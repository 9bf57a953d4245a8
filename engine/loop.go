// Package engine runs the interaction loop that keeps the arrow aimed at the pointer.
package engine

import (
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/xarrow/arrow"
	"github.com/lixenwraith/xarrow/event"
	"github.com/lixenwraith/xarrow/render"
	"github.com/lixenwraith/xarrow/style"
	"github.com/lixenwraith/xarrow/vmath"
)

// FrameInterval is the idle sleep between pointer polls
const FrameInterval = time.Second / 60

// State of the interaction loop
type State uint8

const (
	StateRunning State = iota
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Display is the surface the loop reads events from and draws on
type Display interface {
	render.Drawer

	CheckWindowEvent() (event.Event, bool)
	CheckRootMotion() (event.Motion, bool)
	Geometry() event.Geometry
	QueryPointer() vmath.Point
	SetColors(fg, erase tcell.Color)
}

// PaletteSource supplies the current drawing colors
type PaletteSource interface {
	Palette() style.Palette
}

// Cues receives pointer crossing notifications
type Cues interface {
	Enter()
	Leave()
}

// Loop owns the arrow and drives it from display events
// Not safe for concurrent use; Run must be called from a single goroutine
type Loop struct {
	arrow    *arrow.Arrow
	display  Display
	renderer *render.Renderer
	palette  PaletteSource
	cues     Cues
	log      zerolog.Logger

	geometry event.Geometry
	cursor   vmath.Point
	dirty    bool
	state    State

	sleep func(time.Duration)
}

// Option configures a Loop
type Option func(*Loop)

// WithLogger sets the loop logger
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// WithPalette reapplies colors from src on style changes
func WithPalette(src PaletteSource) Option {
	return func(l *Loop) { l.palette = src }
}

// WithCues plays enter/leave cues on pointer crossings
func WithCues(c Cues) Option {
	return func(l *Loop) { l.cues = c }
}

// WithSleep replaces the idle sleep function
func WithSleep(fn func(time.Duration)) Option {
	return func(l *Loop) { l.sleep = fn }
}

// NewLoop creates a loop in the running state
func NewLoop(a *arrow.Arrow, d Display, opts ...Option) *Loop {
	l := &Loop{
		arrow:    a,
		display:  d,
		renderer: render.NewRenderer(),
		log:      zerolog.Nop(),
		state:    StateRunning,
		sleep:    time.Sleep,
		cursor:   a.Center(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes events until a close request or quit key arrives
func (l *Loop) Run() {
	l.log.Debug().Stringer("state", l.state).Msg("loop started")
	for l.state == StateRunning {
		l.Step()
	}
	l.log.Debug().Stringer("state", l.state).Uint64("frames", l.renderer.Frames()).Msg("loop finished")
}

// Step runs one iteration: at most one event source, then at most one render
func (l *Loop) Step() {
	if ev, ok := l.display.CheckWindowEvent(); ok {
		l.handleWindowEvent(ev)
	} else if m, ok := l.display.CheckRootMotion(); ok {
		l.handleRootMotion(m)
	} else {
		l.sleep(FrameInterval)
		l.arrow.SetTarget(l.display.QueryPointer())
		l.dirty = true
	}

	if l.dirty {
		l.renderer.Render(l.arrow, l.display)
		l.dirty = false
	}
}

func (l *Loop) handleWindowEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Expose:
		l.refreshGeometry()

	case event.Configure:
		l.refreshGeometry()
		l.arrow.SetTarget(l.display.QueryPointer())

	case event.ClientMessage:
		if e.Protocol == event.ProtocolDeleteWindow {
			l.terminate("close request")
		}

	case event.KeyPress:
		if e.Key == "Escape" || e.Key == "q" {
			l.terminate("key " + e.Key)
		}

	case event.Motion:
		l.cursor = e.Point()
		l.arrow.SetTarget(l.cursor)
		l.dirty = true

	case event.Crossing:
		if l.cues == nil {
			return
		}
		if e.Enter {
			l.cues.Enter()
		} else {
			l.cues.Leave()
		}

	case event.StyleChanged:
		if l.palette == nil {
			return
		}
		p := l.palette.Palette()
		l.display.SetColors(p.Foreground, p.Erase())
		l.dirty = true
		l.log.Debug().Bool("transparent", p.Transparent).Msg("palette reloaded")

	default:
	}
}

// handleRootMotion translates desktop coordinates by the tracked window origin
func (l *Loop) handleRootMotion(m event.Motion) {
	l.cursor = m.Point()
	l.arrow.SetTarget(l.cursor.Sub(l.geometry.Origin()))
	l.dirty = true
}

func (l *Loop) refreshGeometry() {
	geo := l.display.Geometry()
	if geo != l.geometry {
		l.log.Debug().
			Int("x", geo.X).Int("y", geo.Y).
			Int("width", geo.Width).Int("height", geo.Height).
			Msg("window geometry")
	}
	l.geometry = geo

	l.arrow.SetCenter(vmath.AreaCenter(vmath.Area{Width: geo.Width, Height: geo.Height}))
	// Always positive, so SetLength cannot fail
	_ = l.arrow.SetLength(ArrowLength(geo.Width, geo.Height))
	l.dirty = true
}

func (l *Loop) terminate(reason string) {
	l.state = StateTerminating
	l.log.Debug().Str("reason", reason).Stringer("state", l.state).Msg("loop state")
}

// State returns the loop state
func (l *Loop) State() State { return l.state }

// Cursor returns the last pointer position reported by a motion event
func (l *Loop) Cursor() vmath.Point { return l.cursor }

// Geometry returns the window geometry tracked from the last expose or configure
func (l *Loop) Geometry() event.Geometry { return l.geometry }

// Frames returns the number of renders performed
func (l *Loop) Frames() uint64 { return l.renderer.Frames() }

// ArrowLength returns the arrow length for a window: half the shorter side over √2, at least 1
func ArrowLength(width, height int) int {
	side := min(width, height)
	return max(1, int(float64(side)/2/math.Sqrt2))
}
