package popover

// PanelConfig configures a Panel.
type PanelConfig struct {
	Placer Placer
	// Initial is the content size assumed before the first measurement.
	Initial Size
	// Anchor re-reads the trigger bounds after a scroll. When nil the
	// anchor captured at Open is kept.
	Anchor func() (Rect, bool)
	// OnDismiss runs after the panel closed itself because of an outside
	// pointer-down or the escape key.
	OnDismiss func()
}

// Panel owns the dismissal boundary of one floating panel. While open it
// holds exactly one listener per event kind on the hub; Close removes them.
type Panel struct {
	hub     *Hub
	cfg     PanelConfig
	pos     *Positioner
	trigger Rect
	cancels []func()
	open    bool
}

// NewPanel returns a closed panel bound to hub.
func NewPanel(hub *Hub, cfg PanelConfig) *Panel {
	return &Panel{
		hub: hub,
		cfg: cfg,
		pos: NewPositioner(cfg.Placer, cfg.Initial),
	}
}

// Open captures trigger as the anchor, computes the first layout and
// registers the panel's listeners. Opening an open panel re-anchors it.
func (p *Panel) Open(trigger Rect, viewport Size) Layout {
	if p.open {
		p.Close()
	}
	p.trigger = trigger
	layout := p.pos.Mount(trigger, viewport)
	p.cancels = []func(){
		p.hub.Subscribe(PointerDown, p.onPointerDown),
		p.hub.Subscribe(Resize, p.onResize),
		p.hub.Subscribe(Scroll, p.onScroll),
		p.hub.Subscribe(KeyDown, p.onKey),
	}
	p.open = true
	return layout
}

// Close deregisters every listener. It is safe to call on a closed panel.
func (p *Panel) Close() {
	for _, cancel := range p.cancels {
		cancel()
	}
	p.cancels = nil
	p.open = false
}

// IsOpen reports whether the panel is open.
func (p *Panel) IsOpen() bool {
	return p.open
}

// Layout returns the current layout.
func (p *Panel) Layout() Layout {
	return p.pos.Layout()
}

// Trigger returns the bounds of the control that opened the panel.
func (p *Panel) Trigger() Rect {
	return p.trigger
}

// Bounds returns the area covered by the panel content.
func (p *Panel) Bounds() Rect {
	l := p.pos.Layout()
	c := p.pos.Content()
	return RectAt(l.Left, l.Top, c.Width, c.Height)
}

// ContentResized reports a new rendered content size.
func (p *Panel) ContentResized(s Size) (Layout, bool) {
	if !p.open {
		return p.pos.Layout(), false
	}
	return p.pos.ContentResized(s)
}

func (p *Panel) dismiss() {
	p.Close()
	if p.cfg.OnDismiss != nil {
		p.cfg.OnDismiss()
	}
}

func (p *Panel) onPointerDown(ev Event) {
	// pointer-downs on the panel or its trigger belong to them
	if p.Bounds().Contains(ev.X, ev.Y) || p.trigger.Contains(ev.X, ev.Y) {
		return
	}
	p.dismiss()
}

func (p *Panel) onResize(ev Event) {
	p.pos.ViewportResized(ev.Size)
}

func (p *Panel) onScroll(Event) {
	if p.cfg.Anchor == nil {
		return
	}
	anchor, ok := p.cfg.Anchor()
	if !ok {
		// the trigger scrolled out of existence
		p.dismiss()
		return
	}
	p.trigger = anchor
	p.pos.Reanchor(anchor)
}

func (p *Panel) onKey(ev Event) {
	if ev.Key == "esc" {
		p.dismiss()
	}
}
