package popover

// Positioner keeps a panel's layout in sync with its anchor, the viewport
// and the panel's own rendered size. Every input funnels into the same
// Placer; unchanged inputs never recompute, which keeps the
// size -> layout -> size feedback loop from spinning.
type Positioner struct {
	placer  Placer
	initial Size

	anchor   Rect
	viewport Size
	content  Size
	layout   Layout
	mounted  bool
}

// NewPositioner returns a Positioner that assumes initial as the content
// size until the first measurement arrives. A zero initial uses
// DefaultContentSize.
func NewPositioner(placer Placer, initial Size) *Positioner {
	if initial == (Size{}) {
		initial = DefaultContentSize
	}
	return &Positioner{placer: placer, initial: initial}
}

// Mount computes the first layout from anchor and viewport.
func (p *Positioner) Mount(anchor Rect, viewport Size) Layout {
	p.anchor = anchor
	p.viewport = viewport
	p.content = p.initial
	p.layout = p.placer.Place(anchor, viewport, p.content)
	p.mounted = true
	return p.layout
}

// ContentResized feeds a new measured content size.
func (p *Positioner) ContentResized(s Size) (Layout, bool) {
	return p.update(p.anchor, p.viewport, s)
}

// ViewportResized feeds a new viewport size.
func (p *Positioner) ViewportResized(s Size) (Layout, bool) {
	return p.update(p.anchor, s, p.content)
}

// Reanchor feeds a new anchor position, e.g. after a scroll.
func (p *Positioner) Reanchor(anchor Rect) (Layout, bool) {
	return p.update(anchor, p.viewport, p.content)
}

// Layout returns the last computed layout.
func (p *Positioner) Layout() Layout {
	return p.layout
}

// Anchor returns the current anchor.
func (p *Positioner) Anchor() Rect {
	return p.anchor
}

// Content returns the last known content size.
func (p *Positioner) Content() Size {
	return p.content
}

func (p *Positioner) update(anchor Rect, viewport, content Size) (Layout, bool) {
	if !p.mounted {
		return p.layout, false
	}
	if anchor == p.anchor && viewport == p.viewport && content == p.content {
		return p.layout, false
	}
	p.anchor, p.viewport, p.content = anchor, viewport, content
	next := p.placer.Place(anchor, viewport, content)
	changed := next != p.layout
	p.layout = next
	return next, changed
}
