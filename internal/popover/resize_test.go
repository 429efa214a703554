package popover

import (
	"testing"
)

func TestResizerRequiresDrag(t *testing.T) {
	r := NewResizer()
	r.Drag(80, 80, SideRight, 0, 0)
	if r.Width != 14 || r.Height != 20 {
		t.Fatalf("drag without start must be ignored, got %vx%v", r.Width, r.Height)
	}

	r.Start()
	r.Drag(16, 8, SideRight, 0, 0)
	r.Stop()
	if r.Width != 16 || r.Height != 21 {
		t.Fatalf("expected 16x21, got %vx%v", r.Width, r.Height)
	}
	if r.Dragging() {
		t.Fatal("stop should end the drag")
	}
}

func TestResizerClamps(t *testing.T) {
	tests := []struct {
		name       string
		dx, dy     float64
		side       Side
		maxW, maxH int
		wantW      float64
		wantH      float64
	}{
		{"minimums", -400, -400, SideRight, 0, 0, 12, 14},
		{"left side mirrors", -16, 0, SideLeft, 0, 0, 16, 20},
		{"right side shrinks", -16, 0, SideRight, 0, 0, 12, 20},
		{"max bounds in units", 800, 800, SideRight, 320, 400, 20, 25},
		{"cap wins over minimum", 0, 0, SideRight, 160, 160, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResizer()
			r.Resize(tt.dx, tt.dy, tt.side, tt.maxW, tt.maxH)
			if r.Width != tt.wantW || r.Height != tt.wantH {
				t.Fatalf("expected %vx%v, got %vx%v", tt.wantW, tt.wantH, r.Width, r.Height)
			}
		})
	}
}
