// Package surface implements the display surface on a tcell screen.
//
// The terminal plays the desktop: it holds one framed, movable window whose
// content area is a square pixel canvas. Mouse reports over the window become
// window-scoped events with window-relative coordinates; reports anywhere else
// on the terminal become root-scoped motion in desktop coordinates.
//
// Pixels are published with half-block glyphs, two pixels per cell vertically.
package surface

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/xarrow/canvas"
	"github.com/lixenwraith/xarrow/event"
	"github.com/lixenwraith/xarrow/vmath"
)

// ErrDisplayUnavailable is returned when the terminal cannot be opened
var ErrDisplayUnavailable = errors.New("display unavailable")

const (
	// DefaultTitle is drawn on the window title bar
	DefaultTitle = "Xarrow"

	// DefaultSize is the initially requested content side in pixels
	DefaultSize = 600

	// MinSize is the smallest content side a user resize can reach
	MinSize = 8

	eventBufferSize = 256
)

// styleReload is the payload of the interrupt posted by PostStyleReload
type styleReload struct{}

// Options configures the surface
type Options struct {
	Title string
	Size  int
	Mask  event.Mask
}

// Terminal is a display surface backed by a tcell screen
type Terminal struct {
	screen tcell.Screen
	title  string
	mask   event.Mask

	windowCh chan event.Event
	rootCh   chan event.Motion
	stopCh   chan struct{}
	doneCh   chan struct{}

	// Shared between the pump goroutine and the loop
	mu       sync.Mutex
	win      window
	pointer  vmath.Point // desktop pixels
	inside   bool
	buttons  tcell.ButtonMask
	grab     vmath.Point // pointer offset from the window origin while moving
	moving   bool
	resizing bool

	// Loop-side only
	buffer *canvas.Canvas
	fg     tcell.Color
	erase  tcell.Color

	openOnce  sync.Once
	closeOnce sync.Once
}

// NewScreen allocates the platform tcell screen
func NewScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	return s, nil
}

// New creates a surface on screen; Open must be called before use
func New(screen tcell.Screen, opts Options) *Terminal {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	return &Terminal{
		screen:   screen,
		title:    opts.Title,
		mask:     opts.Mask,
		windowCh: make(chan event.Event, eventBufferSize),
		rootCh:   make(chan event.Motion, eventBufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		win:      window{side: max(opts.Size, MinSize)},
		buffer:   canvas.New(0, 0),
		fg:       tcell.ColorWhite,
		erase:    tcell.ColorDefault,
	}
}

// Open initializes the screen, maps the window and starts the event pump
func (t *Terminal) Open() error {
	if err := t.init(); err != nil {
		return err
	}
	t.openOnce.Do(func() {
		Go(t.pump)
	})
	return nil
}

// init prepares the screen and maps the window without starting the pump
func (t *Terminal) init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	t.screen.HideCursor()
	if t.mask.Has(event.MaskPointerMotion) || t.mask.Has(event.MaskRootPointerMotion) {
		t.screen.EnableMouse(tcell.MouseMotionEvents)
	} else {
		t.screen.EnableMouse(tcell.MouseButtonEvents)
	}
	t.screen.EnableFocus()
	RegisterCrashScreen(t.screen)

	width, height := t.screen.Size()

	t.mu.Lock()
	t.win.fit(width, height)
	t.win.center(width, height)
	geo := t.win.geometry()
	t.pointer = geo.Origin().Add(vmath.AreaCenter(vmath.Area{Width: geo.Width, Height: geo.Height}))
	t.inside = true
	t.mu.Unlock()

	t.emit(event.Expose{Geometry: geo})
	return nil
}

// Close stops the pump and restores the terminal. Safe to call multiple times
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		close(t.stopCh)
		t.screen.Fini()
		RegisterCrashScreen(nil)
	})
}

// Done is closed once the event pump has exited
func (t *Terminal) Done() <-chan struct{} {
	return t.doneCh
}

// PostStyleReload queues a StyleChanged event; safe from any goroutine
func (t *Terminal) PostStyleReload() error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(styleReload{}))
}

// pump forwards screen events until the screen is finalized
func (t *Terminal) pump() {
	defer close(t.doneCh)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-t.stopCh:
			return
		default:
		}
		t.dispatch(ev)
	}
}

// dispatch translates one tcell event into surface events
func (t *Terminal) dispatch(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		width, height := ev.Size()
		t.screen.Sync()
		t.mu.Lock()
		t.win.fit(width, height)
		geo := t.win.geometry()
		t.mu.Unlock()
		t.emit(event.Configure{Geometry: geo})

	case *tcell.EventMouse:
		x, y := ev.Position()
		t.mouse(x, y, ev.Buttons())

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			t.emit(event.ClientMessage{Protocol: event.ProtocolDeleteWindow})
			return
		}
		if name := keyName(ev); name != "" {
			t.emit(event.KeyPress{Key: name})
		}

	case *tcell.EventFocus:
		if ev.Focused {
			t.emit(event.ClientMessage{Protocol: event.ProtocolTakeFocus})
		}

	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(styleReload); ok {
			t.emit(event.StyleChanged{})
		}
	}
}

// mouse routes a mouse report at cell (x, y)
func (t *Terminal) mouse(x, y int, buttons tcell.ButtonMask) {
	t.mu.Lock()

	pressed := buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
	released := buttons&tcell.Button1 == 0
	t.buttons = buttons
	t.pointer = cellToPixel(x, y)
	width, height := t.screen.Size()

	var out []event.Event
	var root *event.Motion

	switch {
	case released && (t.moving || t.resizing):
		t.moving, t.resizing = false, false

	case t.moving:
		t.win.col = x - t.grab.X
		t.win.row = y - t.grab.Y
		t.win.fit(width, height)
		out = append(out, event.Configure{Geometry: t.win.geometry()})

	case t.resizing:
		side := max(x-t.win.col, 2*(y-t.win.row), MinSize)
		t.win.side = side
		t.win.fit(width, height)
		out = append(out, event.Configure{Geometry: t.win.geometry()})

	case pressed && t.win.onClose(x, y):
		out = append(out, event.ClientMessage{Protocol: event.ProtocolDeleteWindow})

	case pressed && t.win.onTitle(x, y):
		t.moving = true
		t.grab = vmath.Point{X: x - t.win.col, Y: y - t.win.row}

	case pressed && t.win.onGrip(x, y):
		t.resizing = true
	}

	geo := t.win.geometry()
	inside := vmath.AreaContains(vmath.Area{X: geo.X, Y: geo.Y, Width: geo.Width, Height: geo.Height}, t.pointer.X, t.pointer.Y)
	if inside != t.inside {
		t.inside = inside
		out = append(out, event.Crossing{Enter: inside})
	}
	if inside {
		out = append(out, event.Motion{X: t.pointer.X - geo.X, Y: t.pointer.Y - geo.Y})
	} else {
		root = &event.Motion{X: t.pointer.X, Y: t.pointer.Y}
	}
	t.mu.Unlock()

	for _, e := range out {
		t.emit(e)
	}
	if root != nil {
		t.emitRoot(*root)
	}
}

// emit queues a window-scoped event selected by the mask
// Motion is dropped when the queue is full; other kinds wait for room
func (t *Terminal) emit(ev event.Event) {
	if !t.mask.Selects(ev) {
		return
	}
	if _, ok := ev.(event.Motion); ok {
		select {
		case t.windowCh <- ev:
		default:
		}
		return
	}
	select {
	case t.windowCh <- ev:
	case <-t.stopCh:
	}
}

// emitRoot queues a root-scoped motion, dropping it when the queue is full
func (t *Terminal) emitRoot(m event.Motion) {
	if !t.mask.Has(event.MaskRootPointerMotion) {
		return
	}
	select {
	case t.rootCh <- m:
	default:
	}
}

// CheckWindowEvent returns the next pending window-scoped event without blocking
func (t *Terminal) CheckWindowEvent() (event.Event, bool) {
	select {
	case ev := <-t.windowCh:
		return ev, true
	default:
		return nil, false
	}
}

// CheckRootMotion returns the next pending root-scoped motion without blocking
func (t *Terminal) CheckRootMotion() (event.Motion, bool) {
	select {
	case m := <-t.rootCh:
		return m, true
	default:
		return event.Motion{}, false
	}
}

// Geometry returns the window's current placement
func (t *Terminal) Geometry() event.Geometry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.win.geometry()
}

// QueryPointer returns the last known pointer position relative to the window
func (t *Terminal) QueryPointer() vmath.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pointer.Sub(t.win.geometry().Origin())
}

// SetColors sets the drawing and erase colors
// tcell.ColorDefault as erase color leaves the terminal background visible
func (t *Terminal) SetColors(fg, erase tcell.Color) {
	t.fg = fg
	t.erase = erase
}

// Erase clears the off-screen buffer, resizing it to the window first
func (t *Terminal) Erase() {
	geo := t.Geometry()
	if t.buffer.Width() != geo.Width || t.buffer.Height() != geo.Height {
		t.buffer.Resize(geo.Width, geo.Height)
	}
	t.buffer.Fill(t.erase)
}

// DrawLine draws a segment in window coordinates
func (t *Terminal) DrawLine(from, to vmath.Point) {
	t.buffer.DrawLine(from, to, t.fg)
}

// FillPolygon fills a convex polygon in window coordinates
func (t *Terminal) FillPolygon(points []vmath.Point) {
	t.buffer.FillPolygon(points, t.fg)
}

// Publish shows the off-screen buffer as the window contents
func (t *Terminal) Publish() {
	t.mu.Lock()
	w := t.win
	t.mu.Unlock()

	t.screen.Clear()
	t.drawFrame(w)
	t.drawContent(w)
	t.screen.Show()
}

func (t *Terminal) drawFrame(w window) {
	f := w.frame()
	if f.Width < 2 || f.Height < 2 {
		return
	}
	style := tcell.StyleDefault
	right, bottom := f.X+f.Width-1, f.Y+f.Height-1

	for x := f.X + 1; x < right; x++ {
		t.screen.SetContent(x, f.Y, '─', nil, style)
		t.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := f.Y + 1; y < bottom; y++ {
		t.screen.SetContent(f.X, y, '│', nil, style)
		t.screen.SetContent(right, y, '│', nil, style)
	}
	t.screen.SetContent(f.X, f.Y, '┌', nil, style)
	t.screen.SetContent(right, f.Y, '┐', nil, style)
	t.screen.SetContent(f.X, bottom, '└', nil, style)
	t.screen.SetContent(right, bottom, '◢', nil, style)

	// Title and close glyph share the top border; the close glyph wins when narrow
	closeAt := right - len(closeGlyph)
	title := " " + t.title + " "
	if room := closeAt - (f.X + 1); room < len(title) {
		title = title[:max(room, 0)]
	}
	t.putString(f.X+1, f.Y, title, style.Bold(true))
	if closeAt > f.X {
		t.putString(closeAt, f.Y, closeGlyph, style)
	}
}

func (t *Terminal) drawContent(w window) {
	area := w.content()
	for row := 0; row < area.Height; row++ {
		for col := 0; col < area.Width; col++ {
			top := t.buffer.At(col, row*2)
			bottom := t.buffer.At(col, row*2+1)
			r, style := halfBlock(top, bottom)
			t.screen.SetContent(area.X+col, area.Y+row, r, nil, style)
		}
	}
}

// halfBlock encodes two vertically stacked pixels in one cell
func halfBlock(top, bottom tcell.Color) (rune, tcell.Style) {
	switch {
	case top == bottom:
		return ' ', tcell.StyleDefault.Background(top)
	case top == tcell.ColorDefault:
		return '▄', tcell.StyleDefault.Foreground(bottom).Background(tcell.ColorDefault)
	default:
		return '▀', tcell.StyleDefault.Foreground(top).Background(bottom)
	}
}

func (t *Terminal) putString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// keyName resolves the key the way an unshifted keysym lookup would: runes are lower-cased
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyRune:
		return strings.ToLower(string(ev.Rune()))
	}
	return tcell.KeyNames[ev.Key()]
}
