package popover

import (
	"testing"
)

var testViewport = Size{Width: 1000, Height: 800}

func TestPanelListenersBalanced(t *testing.T) {
	hub := NewHub()
	p := NewPanel(hub, PanelConfig{Placer: DefaultPlacer})

	for i := 0; i < 5; i++ {
		p.Open(RectAt(100, 100, 20, 20), testViewport)
		for _, kind := range []EventKind{PointerDown, Resize, Scroll, KeyDown} {
			if n := hub.Count(kind); n != 1 {
				t.Fatalf("cycle %d: expected one %s listener, got %d", i, kind, n)
			}
		}
		p.Close()
		if n := hub.Total(); n != 0 {
			t.Fatalf("cycle %d: %d listeners leaked", i, n)
		}
	}
	p.Close()
	if hub.Total() != 0 {
		t.Fatal("double close must stay balanced")
	}
}

func TestPanelReopenDoesNotStack(t *testing.T) {
	hub := NewHub()
	p := NewPanel(hub, PanelConfig{Placer: DefaultPlacer})
	p.Open(RectAt(100, 100, 20, 20), testViewport)
	p.Open(RectAt(200, 100, 20, 20), testViewport)
	if hub.Total() != 4 {
		t.Fatalf("expected 4 listeners after reopen, got %d", hub.Total())
	}
	if p.Trigger().Left != 200 {
		t.Fatal("reopen should capture the new trigger")
	}
}

func TestPanelPointerDown(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		dismiss bool
	}{
		{"inside panel", 150, 150, false},
		{"on trigger", 105, 105, false},
		{"outside", 900, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub()
			dismissed := 0
			p := NewPanel(hub, PanelConfig{
				Placer:    DefaultPlacer,
				OnDismiss: func() { dismissed++ },
			})
			// trigger 100..120, panel opens below at (100, 128)
			p.Open(RectAt(100, 100, 20, 20), testViewport)

			hub.Dispatch(Event{Kind: PointerDown, X: tt.x, Y: tt.y})

			if tt.dismiss {
				if p.IsOpen() || dismissed != 1 || hub.Total() != 0 {
					t.Fatalf("expected dismissal, open=%v dismissed=%d listeners=%d", p.IsOpen(), dismissed, hub.Total())
				}
				return
			}
			if !p.IsOpen() || dismissed != 0 {
				t.Fatal("panel should stay open")
			}
		})
	}
}

func TestPanelEscape(t *testing.T) {
	hub := NewHub()
	dismissed := false
	p := NewPanel(hub, PanelConfig{Placer: DefaultPlacer, OnDismiss: func() { dismissed = true }})
	p.Open(RectAt(100, 100, 20, 20), testViewport)

	hub.Dispatch(Event{Kind: KeyDown, Key: "a"})
	if !p.IsOpen() {
		t.Fatal("other keys must not dismiss")
	}
	hub.Dispatch(Event{Kind: KeyDown, Key: "esc"})
	if p.IsOpen() || !dismissed {
		t.Fatal("escape should dismiss")
	}
}

func TestPanelResizeAndScroll(t *testing.T) {
	hub := NewHub()
	anchor := RectAt(950, 100, 30, 20)
	visible := true
	p := NewPanel(hub, PanelConfig{
		Placer: DefaultPlacer,
		Anchor: func() (Rect, bool) { return anchor, visible },
	})
	p.Open(anchor, testViewport)
	if p.Layout().Side != SideLeft {
		t.Fatal("expected left side near the right edge")
	}

	anchor = RectAt(20, 100, 30, 20)
	hub.Dispatch(Event{Kind: Scroll})
	if got := p.Layout(); got.Side != SideRight || got.Left != 20 {
		t.Fatalf("scroll should re-anchor, got %+v", got)
	}

	hub.Dispatch(Event{Kind: Resize, Size: Size{Width: 600, Height: 400}})
	if got := p.Layout(); got.MaxWidth != 600-8-20 {
		t.Fatalf("resize should recompute bounds, got %+v", got)
	}

	visible = false
	hub.Dispatch(Event{Kind: Scroll})
	if p.IsOpen() {
		t.Fatal("panel should close once its trigger is gone")
	}
}

func TestPositionerSkipsUnchangedInputs(t *testing.T) {
	pos := NewPositioner(DefaultPlacer, Size{})
	if _, changed := pos.ContentResized(Size{Width: 10, Height: 10}); changed {
		t.Fatal("updates before mount must be ignored")
	}

	pos.Mount(RectAt(950, 100, 30, 20), testViewport)
	if pos.Content() != DefaultContentSize {
		t.Fatalf("expected default content size, got %+v", pos.Content())
	}
	if _, changed := pos.ContentResized(DefaultContentSize); changed {
		t.Fatal("same size must not recompute")
	}

	got, changed := pos.ContentResized(Size{Width: 200, Height: 100})
	if !changed || got.Left != 980-200 {
		t.Fatalf("expected left %d after measuring, got %+v", 980-200, got)
	}
	if _, changed := pos.ContentResized(Size{Width: 200, Height: 100}); changed {
		t.Fatal("repeat measurement must settle")
	}
}

func TestHubUnsubscribeDuringDispatch(t *testing.T) {
	hub := NewHub()
	var calls []string
	var cancelB func()
	hub.Subscribe(KeyDown, func(Event) {
		calls = append(calls, "a")
		cancelB()
	})
	cancelB = hub.Subscribe(KeyDown, func(Event) { calls = append(calls, "b") })

	hub.Dispatch(Event{Kind: KeyDown})
	if len(calls) != 1 || calls[0] != "a" {
		t.Fatalf("removed handler must not run, got %v", calls)
	}
	cancelB()
	if hub.Count(KeyDown) != 1 {
		t.Fatalf("expected one handler left, got %d", hub.Count(KeyDown))
	}
}
