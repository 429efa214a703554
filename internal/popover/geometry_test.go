package popover

import (
	"testing"
)

func TestComputeSide(t *testing.T) {
	viewport := Size{Width: 1000, Height: 800}
	content := Size{Width: 300, Height: 240}

	t.Run("near right edge opens left", func(t *testing.T) {
		anchor := Rect{Left: 950, Top: 100, Right: 980, Bottom: 120}
		got := Compute(anchor, viewport, content, 8)
		if got.Side != SideLeft {
			t.Fatalf("expected left side, got %s", got.Side)
		}
		if got.Left != 980-300 {
			t.Fatalf("expected left %d, got %d", 980-300, got.Left)
		}
		if got.Left < 8 || got.Left > 692 {
			t.Fatalf("left %d escaped [8, 692]", got.Left)
		}
	})

	t.Run("near left edge opens right", func(t *testing.T) {
		anchor := Rect{Left: 20, Top: 100, Right: 50, Bottom: 120}
		got := Compute(anchor, viewport, content, 8)
		if got.Side != SideRight || got.Left != 20 {
			t.Fatalf("expected right side at 20, got %+v", got)
		}
	})

	t.Run("tie opens right", func(t *testing.T) {
		// spaceRight = 1000-(496+8) = 496, spaceLeft = 504-8 = 496
		anchor := Rect{Left: 496, Top: 100, Right: 504, Bottom: 120}
		if got := Compute(anchor, viewport, content, 8); got.Side != SideRight {
			t.Fatalf("expected right on a tie, got %s", got.Side)
		}
	})

	t.Run("left clamps into viewport", func(t *testing.T) {
		anchor := Rect{Left: 900, Top: 100, Right: 990, Bottom: 120}
		got := Compute(anchor, viewport, Size{Width: 995, Height: 100}, 8)
		if got.Left != 8 {
			t.Fatalf("expected clamp to margin, got %d", got.Left)
		}
	})
}

func TestComputeVertical(t *testing.T) {
	viewport := Size{Width: 1000, Height: 800}
	content := Size{Width: 300, Height: 240}

	t.Run("opens downward below anchor", func(t *testing.T) {
		anchor := Rect{Left: 10, Top: 100, Right: 40, Bottom: 120}
		got := Compute(anchor, viewport, content, 8)
		if got.Top != 128 {
			t.Fatalf("expected top 128, got %d", got.Top)
		}
		if got.MaxHeight != 800-8-128 {
			t.Fatalf("expected max height %d, got %d", 800-8-128, got.MaxHeight)
		}
	})

	t.Run("downward pulls up to fit", func(t *testing.T) {
		anchor := Rect{Left: 10, Top: 380, Right: 40, Bottom: 400}
		got := Compute(anchor, viewport, Size{Width: 300, Height: 500}, 8)
		if got.Top != 800-8-500 {
			t.Fatalf("expected top %d, got %d", 800-8-500, got.Top)
		}
	})

	t.Run("opens upward near bottom", func(t *testing.T) {
		anchor := Rect{Left: 10, Top: 700, Right: 40, Bottom: 720}
		got := Compute(anchor, viewport, content, 8)
		if got.Top != 700-240-8 {
			t.Fatalf("expected top %d, got %d", 700-240-8, got.Top)
		}
		if got.MaxHeight != 700-8-got.Top {
			t.Fatalf("unexpected max height %d", got.MaxHeight)
		}
	})

	t.Run("upward never goes above margin", func(t *testing.T) {
		anchor := Rect{Left: 10, Top: 500, Right: 40, Bottom: 520}
		got := Compute(anchor, viewport, Size{Width: 300, Height: 700}, 8)
		if got.Top != 8 {
			t.Fatalf("expected top clamped to 8, got %d", got.Top)
		}
	})
}

func TestComputeFloors(t *testing.T) {
	tiny := Size{Width: 100, Height: 80}
	anchor := Rect{Left: 10, Top: 10, Right: 20, Bottom: 20}
	got := Compute(anchor, tiny, Size{Width: 50, Height: 40}, 8)
	if got.MaxWidth != DefaultMinWidth || got.MaxHeight != DefaultMinHeight {
		t.Fatalf("expected floors %d/%d, got %d/%d", DefaultMinWidth, DefaultMinHeight, got.MaxWidth, got.MaxHeight)
	}

	cells := Placer{Margin: 1, MinWidth: 10, MinHeight: 5}
	got = cells.Place(anchor, tiny, Size{Width: 50, Height: 40})
	if got.MaxWidth != 100-1-got.Left {
		t.Fatalf("custom floors should not apply when there is room, got %+v", got)
	}
}

func TestComputeIdempotent(t *testing.T) {
	anchor := Rect{Left: 300, Top: 200, Right: 330, Bottom: 220}
	a := Compute(anchor, Size{Width: 1000, Height: 800}, DefaultContentSize, 8)
	b := Compute(anchor, Size{Width: 1000, Height: 800}, DefaultContentSize, 8)
	if a != b {
		t.Fatalf("same inputs gave %+v and %+v", a, b)
	}
}

func TestRectContains(t *testing.T) {
	r := RectAt(5, 5, 10, 2)
	if !r.Contains(5, 5) || !r.Contains(14, 6) {
		t.Fatal("corners inside should be contained")
	}
	if r.Contains(15, 5) || r.Contains(5, 7) || r.Contains(4, 5) {
		t.Fatal("right and bottom edges are exclusive")
	}
}
