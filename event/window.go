package event

import "github.com/lixenwraith/xarrow/vmath"

// Event is a notification delivered by the display surface
// The set of variants is closed; consumers type-switch and ignore unknown kinds
type Event interface {
	event()
}

// Geometry is the window's on-screen origin and size in pixels
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Origin returns the window's top-left corner on the desktop
func (g Geometry) Origin() vmath.Point {
	return vmath.Point{X: g.X, Y: g.Y}
}

// Protocol identifies a window-manager client message
type Protocol uint8

const (
	ProtocolNone Protocol = iota
	// ProtocolDeleteWindow asks the client to close its window
	ProtocolDeleteWindow
	// ProtocolTakeFocus notifies that the window received input focus
	ProtocolTakeFocus
)

// String returns the window-manager atom name
func (p Protocol) String() string {
	switch p {
	case ProtocolDeleteWindow:
		return "WM_DELETE_WINDOW"
	case ProtocolTakeFocus:
		return "WM_TAKE_FOCUS"
	default:
		return "NONE"
	}
}

// Expose signals the window first became visible
type Expose struct {
	Geometry Geometry
}

// Configure signals the window was resized or moved
type Configure struct {
	Geometry Geometry
}

// Motion reports the pointer position
// Window-scoped motion is window-relative, root-scoped motion is desktop-absolute
type Motion struct {
	X, Y int
}

// Point returns the reported position
func (m Motion) Point() vmath.Point {
	return vmath.Point{X: m.X, Y: m.Y}
}

// ClientMessage carries a window-manager protocol request
type ClientMessage struct {
	Protocol Protocol
}

// KeyPress carries the resolved key name: "Escape" or a lower-case character
type KeyPress struct {
	Key string
}

// Crossing reports the pointer entering or leaving the window
type Crossing struct {
	Enter bool
}

// StyleChanged signals the preference store was reloaded
type StyleChanged struct{}

func (Expose) event()        {}
func (Configure) event()     {}
func (Motion) event()        {}
func (ClientMessage) event() {}
func (KeyPress) event()      {}
func (Crossing) event()      {}
func (StyleChanged) event()  {}

// Mask selects which event kinds the surface delivers
type Mask uint16

const (
	MaskExposure Mask = 1 << iota
	MaskStructureNotify
	MaskPointerMotion
	MaskKeyPress
	MaskEnterWindow
	MaskLeaveWindow
	MaskRootPointerMotion
	MaskStyle

	MaskNone Mask = 0
	MaskAll  Mask = MaskExposure | MaskStructureNotify | MaskPointerMotion | MaskKeyPress |
		MaskEnterWindow | MaskLeaveWindow | MaskRootPointerMotion | MaskStyle
)

// Has reports whether all bits of m are selected
func (mask Mask) Has(m Mask) bool {
	return mask&m == m
}

// Selects reports whether the mask admits ev
// Client messages are always delivered, matching window-manager protocol semantics
func (mask Mask) Selects(ev Event) bool {
	switch e := ev.(type) {
	case Expose:
		return mask.Has(MaskExposure)
	case Configure:
		return mask.Has(MaskStructureNotify)
	case Motion:
		return mask.Has(MaskPointerMotion)
	case KeyPress:
		return mask.Has(MaskKeyPress)
	case Crossing:
		if e.Enter {
			return mask.Has(MaskEnterWindow)
		}
		return mask.Has(MaskLeaveWindow)
	case StyleChanged:
		return mask.Has(MaskStyle)
	case ClientMessage:
		return true
	default:
		return false
	}
}
