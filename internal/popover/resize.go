package popover

const (
	defaultResizeWidth  = 14
	defaultResizeHeight = 20
	minResizeWidth      = 12
	minResizeHeight     = 14
	defaultResizeStep   = 8
	defaultUnitSize     = 16
)

// Resizer tracks the drag-to-resize gesture of a panel's corner handle.
// Width and Height are in panel units; pointer movement is divided by Step
// to get units and positioner bounds are divided by UnitSize.
type Resizer struct {
	Width, Height       float64
	MinWidth, MinHeight float64
	Step                float64
	UnitSize            float64

	dragging bool
}

// NewResizer returns a Resizer with the default size, minimums and scales.
func NewResizer() Resizer {
	return Resizer{
		Width:     defaultResizeWidth,
		Height:    defaultResizeHeight,
		MinWidth:  minResizeWidth,
		MinHeight: minResizeHeight,
		Step:      defaultResizeStep,
		UnitSize:  defaultUnitSize,
	}
}

// Start begins a drag.
func (r *Resizer) Start() { r.dragging = true }

// Stop ends a drag.
func (r *Resizer) Stop() { r.dragging = false }

// Dragging reports whether a drag is in progress.
func (r *Resizer) Dragging() bool { return r.dragging }

// Drag applies pointer movement (dx, dy) while a drag is in progress. When
// the panel sits on the left of its anchor the handle is on the left edge,
// so horizontal movement is mirrored. A positive maxWidth or maxHeight caps
// the size; the cap wins over the minimum.
func (r *Resizer) Drag(dx, dy float64, side Side, maxWidth, maxHeight int) {
	if !r.dragging {
		return
	}
	r.Resize(dx, dy, side, maxWidth, maxHeight)
}

// Resize applies movement regardless of drag state, for keyboard resizing.
func (r *Resizer) Resize(dx, dy float64, side Side, maxWidth, maxHeight int) {
	step := r.Step
	if step <= 0 {
		step = 1
	}
	unit := r.UnitSize
	if unit <= 0 {
		unit = 1
	}

	delta := dx / step
	if side == SideLeft {
		delta = -delta
	}
	w := max(r.MinWidth, r.Width+delta)
	if maxWidth > 0 {
		w = min(w, float64(maxWidth)/unit)
	}

	h := max(r.MinHeight, r.Height+dy/step)
	if maxHeight > 0 {
		h = min(h, float64(maxHeight)/unit)
	}

	r.Width, r.Height = w, h
}
