package surface

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/xarrow/event"
	"github.com/lixenwraith/xarrow/vmath"
)

func newTestTerminal(t *testing.T, mask event.Mask) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := New(sim, Options{Mask: mask})
	require.NoError(t, term.init())
	sim.SetSize(80, 24)
	term.dispatch(tcell.NewEventResize(80, 24))
	t.Cleanup(func() {
		RegisterCrashScreen(nil)
		sim.Fini()
	})
	return term, sim
}

func drain(term *Terminal) []event.Event {
	var out []event.Event
	for {
		ev, ok := term.CheckWindowEvent()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func drainRoot(term *Terminal) []event.Motion {
	var out []event.Motion
	for {
		m, ok := term.CheckRootMotion()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestTerminal_ExposeThenConfigure(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)

	events := drain(term)
	require.Len(t, events, 2)

	expose, ok := events[0].(event.Expose)
	require.True(t, ok, "first event is the window mapping")
	configure, ok := events[1].(event.Configure)
	require.True(t, ok)

	want := event.Geometry{X: 17, Y: 2, Width: 44, Height: 44}
	assert.Equal(t, want, configure.Geometry)
	assert.Equal(t, want, term.Geometry())
	assert.Equal(t, event.Geometry{X: 17, Y: 2, Width: 46, Height: 46}, expose.Geometry, "mapped before the first resize")

	// Pointer starts at the window center
	assert.Equal(t, vmath.Point{X: 23, Y: 23}, term.QueryPointer())
}

func TestTerminal_MotionRouting(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)
	drain(term)

	term.dispatch(tcell.NewEventMouse(30, 10, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []event.Event{event.Motion{X: 13, Y: 18}}, drain(term))
	assert.Empty(t, drainRoot(term))

	term.dispatch(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []event.Event{event.Crossing{Enter: false}}, drain(term))
	assert.Equal(t, []event.Motion{{X: 2, Y: 6}}, drainRoot(term))
	assert.Equal(t, vmath.Point{X: -15, Y: 4}, term.QueryPointer())

	term.dispatch(tcell.NewEventMouse(17, 1, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []event.Event{event.Crossing{Enter: true}, event.Motion{X: 0, Y: 0}}, drain(term))
}

func TestTerminal_MaskFiltersEvents(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskStructureNotify|event.MaskKeyPress)
	events := drain(term)
	require.Len(t, events, 1)
	assert.IsType(t, event.Configure{}, events[0])

	term.dispatch(tcell.NewEventMouse(30, 10, tcell.ButtonNone, tcell.ModNone))
	term.dispatch(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone))
	assert.Empty(t, drain(term))
	assert.Empty(t, drainRoot(term))

	// Pointer is still tracked for queries
	assert.Equal(t, vmath.Point{X: -15, Y: 4}, term.QueryPointer())
}

func TestTerminal_CloseGlyph(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)
	drain(term)

	term.dispatch(tcell.NewEventMouse(59, 0, tcell.Button1, tcell.ModNone))
	events := drain(term)
	assert.Contains(t, events, event.ClientMessage{Protocol: event.ProtocolDeleteWindow})
}

func TestTerminal_MoveByTitleBar(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)
	drain(term)

	term.dispatch(tcell.NewEventMouse(25, 0, tcell.Button1, tcell.ModNone))
	drain(term)
	term.dispatch(tcell.NewEventMouse(35, 0, tcell.Button1, tcell.ModNone))

	events := drain(term)
	require.NotEmpty(t, events)
	assert.Equal(t, event.Configure{Geometry: event.Geometry{X: 27, Y: 2, Width: 44, Height: 44}}, events[0])

	term.dispatch(tcell.NewEventMouse(35, 0, tcell.ButtonNone, tcell.ModNone))
	term.dispatch(tcell.NewEventMouse(45, 0, tcell.ButtonNone, tcell.ModNone))
	for _, ev := range drain(term) {
		_, moved := ev.(event.Configure)
		assert.False(t, moved, "released button ends the move")
	}
	assert.Equal(t, 27, term.Geometry().X)
}

func TestTerminal_ResizeByGrip(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)
	drain(term)

	// Grip is the bottom-right frame cell
	term.dispatch(tcell.NewEventMouse(61, 23, tcell.Button1, tcell.ModNone))
	drain(term)
	term.dispatch(tcell.NewEventMouse(37, 11, tcell.Button1, tcell.ModNone))

	events := drain(term)
	require.NotEmpty(t, events)
	assert.Equal(t, event.Configure{Geometry: event.Geometry{X: 17, Y: 2, Width: 20, Height: 20}}, events[0])

	// Never below the minimum side
	term.dispatch(tcell.NewEventMouse(19, 1, tcell.Button1, tcell.ModNone))
	assert.Equal(t, MinSize, term.Geometry().Width)
}

func TestTerminal_TerminalResizeRefits(t *testing.T) {
	term, sim := newTestTerminal(t, event.MaskAll)
	drain(term)

	sim.SetSize(40, 20)
	term.dispatch(tcell.NewEventResize(40, 20))

	assert.Equal(t, []event.Event{event.Configure{Geometry: event.Geometry{X: 3, Y: 2, Width: 36, Height: 36}}}, drain(term))
}

func TestTerminal_Keys(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)
	drain(term)

	term.dispatch(tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift))
	term.dispatch(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	term.dispatch(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	term.dispatch(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	assert.Equal(t, []event.Event{
		event.KeyPress{Key: "q"},
		event.KeyPress{Key: "Escape"},
		event.KeyPress{Key: "x"},
		event.ClientMessage{Protocol: event.ProtocolDeleteWindow},
	}, drain(term))
}

func TestTerminal_StyleReloadAndFocus(t *testing.T) {
	term, _ := newTestTerminal(t, event.MaskAll)
	drain(term)

	term.dispatch(tcell.NewEventInterrupt(styleReload{}))
	term.dispatch(tcell.NewEventInterrupt("unrelated"))
	term.dispatch(tcell.NewEventFocus(true))
	term.dispatch(tcell.NewEventFocus(false))

	assert.Equal(t, []event.Event{
		event.StyleChanged{},
		event.ClientMessage{Protocol: event.ProtocolTakeFocus},
	}, drain(term))
	assert.NoError(t, term.PostStyleReload())
}

func TestTerminal_Publish(t *testing.T) {
	term, sim := newTestTerminal(t, event.MaskAll)
	drain(term)

	term.SetColors(tcell.ColorRed, tcell.ColorBlue)
	term.Erase()
	term.DrawLine(vmath.Point{X: 0, Y: 0}, vmath.Point{X: 43, Y: 0})
	term.Publish()

	cells, width, _ := sim.GetContents()
	at := func(x, y int) tcell.SimCell { return cells[y*width+x] }

	// Frame corners and title
	assert.Equal(t, '┌', at(16, 0).Runes[0])
	assert.Equal(t, '◢', at(61, 23).Runes[0])
	assert.Equal(t, 'X', at(18, 0).Runes[0])
	assert.Equal(t, '[', at(58, 0).Runes[0])

	// Top content row: red line over blue erase
	fg, bg, _ := at(20, 1).Style.Decompose()
	assert.Equal(t, '▀', at(20, 1).Runes[0])
	assert.Equal(t, tcell.ColorRed, fg)
	assert.Equal(t, tcell.ColorBlue, bg)

	// Untouched content is erase colored
	_, bg, _ = at(20, 5).Style.Decompose()
	assert.Equal(t, tcell.ColorBlue, bg)
}

func TestHalfBlock(t *testing.T) {
	r, style := halfBlock(tcell.ColorRed, tcell.ColorRed)
	_, bg, _ := style.Decompose()
	assert.Equal(t, ' ', r)
	assert.Equal(t, tcell.ColorRed, bg)

	r, style = halfBlock(tcell.ColorDefault, tcell.ColorGreen)
	fg, _, _ := style.Decompose()
	assert.Equal(t, '▄', r)
	assert.Equal(t, tcell.ColorGreen, fg)

	r, style = halfBlock(tcell.ColorGreen, tcell.ColorDefault)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, '▀', r)
	assert.Equal(t, tcell.ColorGreen, fg)
	assert.Equal(t, tcell.ColorDefault, bg)
}

func TestTerminal_OpenClose(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	term := New(sim, Options{Mask: event.MaskAll})
	require.NoError(t, term.Open())

	term.Close()
	term.Close()

	select {
	case <-term.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("event pump did not stop")
	}
}
