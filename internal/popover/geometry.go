// Package popover places floating panels next to the control that opened
// them and manages their listeners while they are open.
package popover

// Rect is an axis-aligned box in viewport coordinates. Right and Bottom are
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectAt builds a Rect from a position and size.
func RectAt(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Size is a width and height.
type Size struct {
	Width, Height int
}

// Side is the side of the anchor a panel opens towards.
type Side string

const (
	SideRight Side = "right"
	SideLeft  Side = "left"
)

// Layout is the computed placement of a panel.
type Layout struct {
	Left, Top           int
	MaxWidth, MaxHeight int
	Side                Side
}

const (
	DefaultMargin    = 8
	DefaultMinWidth  = 180
	DefaultMinHeight = 140
)

// DefaultContentSize is assumed for a panel before its content is measured.
var DefaultContentSize = Size{Width: 300, Height: 240}

// Placer computes layouts. MinWidth and MinHeight are floors for the
// reported maximum bounds, not for the layout position.
type Placer struct {
	Margin    int
	MinWidth  int
	MinHeight int
}

// DefaultPlacer uses the default margin and bound floors.
var DefaultPlacer = Placer{Margin: DefaultMargin, MinWidth: DefaultMinWidth, MinHeight: DefaultMinHeight}

// Compute places content of the given size next to anchor inside viewport
// using the default bound floors.
func Compute(anchor Rect, viewport, content Size, margin int) Layout {
	p := DefaultPlacer
	p.Margin = margin
	return p.Place(anchor, viewport, content)
}

// Place returns the layout for content next to anchor. The panel opens
// towards the roomier side (right on a tie) and downwards unless there is
// strictly more room above. The position is clamped into the viewport; the
// max bounds never drop below the floors even if that overflows a tiny
// viewport.
func (p Placer) Place(anchor Rect, viewport, content Size) Layout {
	m := p.Margin
	vw, vh := viewport.Width, viewport.Height
	w, h := content.Width, content.Height

	spaceRight := vw - (anchor.Left + m)
	spaceLeft := anchor.Right - m
	side := SideRight
	if spaceRight < spaceLeft {
		side = SideLeft
	}

	spaceBelow := vh - (anchor.Bottom + m)
	spaceAbove := anchor.Top - m
	openBelow := spaceBelow >= spaceAbove

	var top int
	if openBelow {
		top = min(vh-m-h, anchor.Bottom+m)
	} else {
		top = anchor.Top - h - m
	}
	top = max(m, top)

	left := anchor.Left
	if side == SideLeft {
		left = anchor.Right - w
	}
	left = max(m, min(left, vw-m-w))

	var maxWidth int
	if side == SideRight {
		maxWidth = vw - m - left
	} else {
		maxWidth = max(0, anchor.Right-2*m)
	}
	var maxHeight int
	if openBelow {
		maxHeight = vh - m - top
	} else {
		maxHeight = anchor.Top - m - top
	}

	return Layout{
		Left:      left,
		Top:       top,
		MaxWidth:  max(p.MinWidth, maxWidth),
		MaxHeight: max(p.MinHeight, maxHeight),
		Side:      side,
	}
}
