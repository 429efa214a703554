package ui

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"gridtui/internal/grid"
	"gridtui/internal/popover"
	"gridtui/internal/source"
)

func demoState() *grid.State {
	ds := source.DemoDataset()
	return grid.New(ds.Columns, ds.Rows, grid.Options{})
}

func openFilterPanel(t *testing.T, key string, side popover.Side) *FilterPanel {
	t.Helper()
	p := NewFilterPanel(demoState(), key)
	p.Init()
	p.SetLayout(popover.Layout{MaxWidth: 100, MaxHeight: 100, Side: side})
	return p
}

func applied(t *testing.T, cmd tea.Cmd) ApplyValueFilterMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("no command")
	}
	msg, ok := cmd().(ApplyValueFilterMsg)
	if !ok {
		t.Fatalf("got %T", cmd())
	}
	return msg
}

func TestFilterPanelClickAndApply(t *testing.T) {
	p := openFilterPanel(t, "firstName", popover.SideRight)
	first := p.values[0]

	// border, title, search and rule come first
	p.Click(2, 4)
	if !p.Draft().Has(first) {
		t.Fatalf("draft = %v, want %q", p.Draft(), first)
	}

	msg := applied(t, p.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	if msg.Key != "firstName" || !msg.Values.Has(first) || len(msg.Values) != 1 {
		t.Errorf("applied %+v", msg)
	}
}

func TestFilterPanelSearchNarrowsList(t *testing.T) {
	p := openFilterPanel(t, "firstName", popover.SideRight)
	p.Update(runes("gi"))
	if got := p.matches(); !slices.Equal(got, []string{"Gia"}) {
		t.Fatalf("matches = %v", got)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p.Update(runes(" "))
	if !p.Draft().Has("Gia") || len(p.Draft()) != 1 {
		t.Errorf("draft = %v", p.Draft())
	}
}

func TestFilterPanelEmptyApplyClears(t *testing.T) {
	p := openFilterPanel(t, "age", popover.SideRight)
	if msg := applied(t, p.Update(tea.KeyMsg{Type: tea.KeyEnter})); msg.Values != nil {
		t.Errorf("empty draft applied %v", msg.Values)
	}

	// Clear sits at the start of the bottom row
	size := p.Size()
	if msg := applied(t, p.Click(1, size.Height-2)); msg.Values != nil || msg.Key != "age" {
		t.Errorf("clear applied %+v", msg)
	}
}

func TestFilterPanelDraftStartsFromActiveFilter(t *testing.T) {
	s := demoState()
	s.SetValueFilter("lastName", grid.NewValueSet("Kim"))
	p := NewFilterPanel(s, "lastName")
	if !p.Draft().Has("Kim") || len(p.Draft()) != 1 {
		t.Errorf("draft = %v", p.Draft())
	}
	p.toggle("Ng")
	if set, _ := s.ValueFilter("lastName"); set.Has("Ng") {
		t.Error("draft edits leaked into the state")
	}
}

func TestFilterPanelResizeHandle(t *testing.T) {
	tests := []struct {
		name    string
		side    popover.Side
		handleX func(size popover.Size) int
		dx      int
		want    int
	}{
		{"right", popover.SideRight, func(s popover.Size) int { return s.Width - 2 }, 4, 36},
		{"left mirrors", popover.SideLeft, func(popover.Size) int { return 1 }, -4, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := openFilterPanel(t, "firstName", tt.side)
			size := p.Size()
			p.Click(tt.handleX(size), size.Height-2)
			if !p.Resizing() {
				t.Fatal("handle did not start a drag")
			}
			p.DragBy(tt.dx, 2)
			p.StopResize()
			p.DragBy(50, 50)

			got := p.Size()
			if got.Width != tt.want || got.Height != 18 {
				t.Errorf("size = %+v, want %dx18", got, tt.want)
			}
		})
	}
}

func TestFilterPanelSizeCappedByLayout(t *testing.T) {
	p := openFilterPanel(t, "firstName", popover.SideRight)
	p.SetLayout(popover.Layout{MaxWidth: 34, MaxHeight: 15, Side: popover.SideRight})
	p.Update(tea.KeyMsg{Type: tea.KeyCtrlRight})
	p.Update(tea.KeyMsg{Type: tea.KeyCtrlRight})
	p.Update(tea.KeyMsg{Type: tea.KeyCtrlRight})

	if got := p.Size(); got.Width != 34 || got.Height != 15 {
		t.Errorf("size = %+v, want 34x15", got)
	}
}

func TestFilterPanelEmptyValueLabel(t *testing.T) {
	cols := []grid.Column{{Key: "name", Header: "Name", Filterable: true, Type: grid.TypeString}}
	rows := []grid.Row{
		{ID: grid.IntID(1), Values: map[string]any{"name": ""}},
		{ID: grid.IntID(2), Values: map[string]any{"name": "x"}},
	}
	p := NewFilterPanel(grid.New(cols, rows, grid.Options{}), "name")
	out := ansi.Strip(p.View())
	if !strings.Contains(out, EmptyValueLabel) {
		t.Errorf("view lacks %q:\n%s", EmptyValueLabel, out)
	}
	if !strings.Contains(out, "Filter: Name") {
		t.Errorf("view lacks the title:\n%s", out)
	}
}

func TestColumnsPanel(t *testing.T) {
	s := demoState()
	p := NewColumnsPanel(s)

	// first column row sits under the title
	p.Click(2, 2)
	size := p.Size()
	bottom := size.Height - 2

	cmd := p.Click(strings.Index("[Show all] [Cancel] [Apply]", "[Apply]")+1, bottom)
	if cmd == nil {
		t.Fatal("apply returned no command")
	}
	msg := cmd().(ApplyColumnsMsg)
	want := []string{"lastName", "age", "startDate", "active"}
	if !slices.Equal(msg.Keys, want) {
		t.Errorf("keys = %v, want %v", msg.Keys, want)
	}

	p.Click(1, bottom)
	if got := p.keys(); len(got) != 5 {
		t.Errorf("show all left %v", got)
	}

	cmd = p.Click(strings.Index("[Show all] [Cancel] [Apply]", "[Cancel]")+1, bottom)
	if _, ok := cmd().(ClosePanelMsg); !ok {
		t.Error("cancel did not close")
	}
}
