package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gridtui/internal/grid"
	"gridtui/internal/popover"
)

// ClosePanelMsg asks the host to close the open panel without applying it.
type ClosePanelMsg struct{}

// newPanelLine starts content row y of a panel. Zones are recorded in
// panel-local cells, border included.
func newPanelLine(y int, zones *[]Zone) *line {
	return &line{x: 1, y: y + 1, zones: zones}
}

// framePanel renders lines inside the panel border at exactly w x h cells.
func framePanel(lines []string, w, h int) string {
	innerW, innerH := max(1, w-2), max(1, h-2)
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i := range lines {
		lines[i] = fitANSI(lines[i], innerW)
	}
	return PanelBorder.Width(innerW).Height(innerH).MaxHeight(h).Render(strings.Join(lines, "\n"))
}

// zoneIndex parses the index of a zone id such as "value:3".
func zoneIndex(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	return i, err == nil
}

func hit(zones []Zone, x, y int) (Zone, bool) {
	for _, z := range zones {
		if z.Rect.Contains(x, y) {
			return z, true
		}
	}
	return Zone{}, false
}

// clampToLayout caps a wanted size by the positioner's max bounds.
func clampToLayout(w, h int, l popover.Layout) (int, int) {
	if l.MaxWidth > 0 {
		w = min(w, l.MaxWidth)
	}
	if l.MaxHeight > 0 {
		h = min(h, l.MaxHeight)
	}
	return max(w, 4), max(h, 4)
}

// ColumnsPanel edits column visibility as a draft applied on Apply.
type ColumnsPanel struct {
	columns []grid.Column
	draft   map[string]bool
	cursor  int
	layout  popover.Layout
}

// ApplyColumnsMsg carries the visible column keys chosen in the panel.
type ApplyColumnsMsg struct {
	Keys []string
}

// NewColumnsPanel starts a draft from the current visibility.
func NewColumnsPanel(s *grid.State) *ColumnsPanel {
	p := &ColumnsPanel{columns: s.Columns(), draft: make(map[string]bool)}
	for _, c := range p.columns {
		p.draft[c.Key] = s.IsColumnVisible(c.Key)
	}
	return p
}

// SetLayout stores the bounds the panel must fit in.
func (p *ColumnsPanel) SetLayout(l popover.Layout) {
	p.layout = l
}

// Size returns the rendered size including the border.
func (p *ColumnsPanel) Size() popover.Size {
	w := len("[Show all] [Cancel] [Apply]") + 4
	for _, c := range p.columns {
		w = max(w, len([]rune(c.Header))+8)
	}
	w, h := clampToLayout(w, len(p.columns)+4, p.layout)
	return popover.Size{Width: w, Height: h}
}

func (p *ColumnsPanel) keys() []string {
	var keys []string
	for _, c := range p.columns {
		if p.draft[c.Key] {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func (p *ColumnsPanel) toggle(i int) {
	if i >= 0 && i < len(p.columns) {
		k := p.columns[i].Key
		p.draft[k] = !p.draft[k]
	}
}

func (p *ColumnsPanel) showAll() {
	for _, c := range p.columns {
		p.draft[c.Key] = true
	}
}

// Update handles keys while the panel is open.
func (p *ColumnsPanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		p.cursor = max(0, p.cursor-1)
	case "down", "j":
		p.cursor = min(len(p.columns)-1, p.cursor+1)
	case " ", "x":
		p.toggle(p.cursor)
	case "A":
		p.showAll()
	case "enter":
		return send(ApplyColumnsMsg{Keys: p.keys()})
	case "q":
		return send(ClosePanelMsg{})
	}
	return nil
}

// Click handles a click at panel-local cell (x, y).
func (p *ColumnsPanel) Click(x, y int) tea.Cmd {
	_, zones := p.render()
	z, ok := hit(zones, x, y)
	if !ok {
		return nil
	}
	switch z.ID {
	case "show-all":
		p.showAll()
	case "cancel":
		return send(ClosePanelMsg{})
	case "apply":
		return send(ApplyColumnsMsg{Keys: p.keys()})
	default:
		if i, ok := zoneIndex(z.ID, "column:"); ok {
			p.cursor = i
			p.toggle(i)
		}
	}
	return nil
}

func (p *ColumnsPanel) render() ([]string, []Zone) {
	size := p.Size()
	listH := max(1, size.Height-4)
	var zones []Zone
	var out []string

	l := newPanelLine(len(out), &zones)
	l.text("Columns", HeaderStyle)
	out = append(out, l.b.String())

	offset := max(0, p.cursor-listH+1)
	for i := offset; i < len(p.columns) && i < offset+listH; i++ {
		c := p.columns[i]
		l := newPanelLine(len(out), &zones)
		box := "[ ] "
		if p.draft[c.Key] {
			box = "[x] "
		}
		style := CellNormal
		if i == p.cursor {
			style = PanelCursorStyle
		}
		l.zone("column:"+strconv.Itoa(i), size.Width-2)
		l.text(box, CheckboxStyle)
		l.text(c.Header, style)
		out = append(out, l.b.String())
	}
	for len(out) < listH+1 {
		out = append(out, "")
	}

	l = newPanelLine(len(out), &zones)
	l.button("show-all", "[Show all]", ButtonStyle)
	l.text(" ", CellNormal)
	l.button("cancel", "[Cancel]", ButtonStyle)
	l.text(" ", CellNormal)
	l.button("apply", "[Apply]", ButtonHotStyle)
	out = append(out, l.b.String())
	return out, zones
}

// View renders the panel.
func (p *ColumnsPanel) View() string {
	lines, _ := p.render()
	s := p.Size()
	return framePanel(lines, s.Width, s.Height)
}
