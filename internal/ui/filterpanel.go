package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"gridtui/internal/grid"
	"gridtui/internal/popover"
)

// EmptyValueLabel stands for the empty string in value lists.
const EmptyValueLabel = "<empty>"

// ApplyValueFilterMsg carries the accepted values of a column. Nil Values
// removes the column's value filter.
type ApplyValueFilterMsg struct {
	Key    string
	Values grid.ValueSet
}

// FilterPanel is the value filter of one column: a searchable checkbox list
// edited as a draft and a resize handle in its bottom corner.
type FilterPanel struct {
	key     string
	header  string
	values  []string
	draft   grid.ValueSet
	search  textinput.Model
	onList  bool
	cursor  int
	resizer popover.Resizer
	layout  popover.Layout
}

// NewFilterPanel opens a draft of key's value filter. The draft starts from
// the active filter, or empty.
func NewFilterPanel(s *grid.State, key string) *FilterPanel {
	header := key
	if c, ok := s.Column(key); ok {
		header = c.Header
	}
	draft := grid.NewValueSet()
	if set, ok := s.ValueFilter(key); ok {
		draft = set.Clone()
	}

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "Search values…"
	search.Cursor.SetMode(cursor.CursorStatic)

	r := popover.NewResizer()
	r.Width, r.Height = 32, 16
	r.Step, r.UnitSize = 1, 1

	return &FilterPanel{
		key:     key,
		header:  header,
		values:  s.UniqueValues()[key],
		draft:   draft,
		search:  search,
		resizer: r,
	}
}

// Init focuses the value search.
func (p *FilterPanel) Init() tea.Cmd {
	return p.search.Focus()
}

// Key returns the column the panel filters.
func (p *FilterPanel) Key() string {
	return p.key
}

// Draft returns the values checked so far.
func (p *FilterPanel) Draft() grid.ValueSet {
	return p.draft
}

// SetLayout stores the placement computed for the panel.
func (p *FilterPanel) SetLayout(l popover.Layout) {
	p.layout = l
}

// Size returns the rendered size including the border.
func (p *FilterPanel) Size() popover.Size {
	w, h := clampToLayout(int(p.resizer.Width), int(p.resizer.Height), p.layout)
	return popover.Size{Width: w, Height: h}
}

// Resizing reports whether the resize handle is being dragged.
func (p *FilterPanel) Resizing() bool {
	return p.resizer.Dragging()
}

// StopResize ends a handle drag.
func (p *FilterPanel) StopResize() {
	p.resizer.Stop()
}

// DragBy applies pointer movement during a handle drag.
func (p *FilterPanel) DragBy(dx, dy int) {
	p.resizer.Drag(float64(dx), float64(dy), p.layout.Side, p.layout.MaxWidth, p.layout.MaxHeight)
}

// ResizeBy grows or shrinks the panel from the keyboard.
func (p *FilterPanel) ResizeBy(dx, dy int) {
	p.resizer.Resize(float64(dx), float64(dy), popover.SideRight, p.layout.MaxWidth, p.layout.MaxHeight)
}

func valueLabel(v string) string {
	if v == "" {
		return EmptyValueLabel
	}
	return v
}

// matches returns the values whose label contains the search text.
func (p *FilterPanel) matches() []string {
	q := strings.ToLower(strings.TrimSpace(p.search.Value()))
	if q == "" {
		return p.values
	}
	var out []string
	for _, v := range p.values {
		if strings.Contains(strings.ToLower(valueLabel(v)), q) {
			out = append(out, v)
		}
	}
	return out
}

func (p *FilterPanel) toggle(v string) {
	if p.draft.Has(v) {
		delete(p.draft, v)
	} else {
		p.draft[v] = struct{}{}
	}
}

func (p *FilterPanel) apply() tea.Cmd {
	if len(p.draft) == 0 {
		return send(ApplyValueFilterMsg{Key: p.key})
	}
	return send(ApplyValueFilterMsg{Key: p.key, Values: p.draft.Clone()})
}

func (p *FilterPanel) setOnList(on bool) tea.Cmd {
	p.onList = on
	if on {
		p.search.Blur()
		return nil
	}
	return p.search.Focus()
}

// Update handles keys while the panel is open. Escape never reaches it; the
// panel's dismissal listener handles that.
func (p *FilterPanel) Update(msg tea.KeyMsg) tea.Cmd {
	values := p.matches()
	switch msg.String() {
	case "up":
		p.cursor = max(0, p.cursor-1)
		return nil
	case "down":
		p.cursor = max(0, min(len(values)-1, p.cursor+1))
		return nil
	case "tab", "shift+tab":
		return p.setOnList(!p.onList)
	case "enter":
		return p.apply()
	case "ctrl+right":
		p.ResizeBy(1, 0)
		return nil
	case "ctrl+left":
		p.ResizeBy(-1, 0)
		return nil
	case "ctrl+down":
		p.ResizeBy(0, 1)
		return nil
	case "ctrl+up":
		p.ResizeBy(0, -1)
		return nil
	case " ":
		if p.onList {
			if p.cursor < len(values) {
				p.toggle(values[p.cursor])
			}
			return nil
		}
	}
	if p.onList {
		return nil
	}
	before := p.search.Value()
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if p.search.Value() != before {
		p.cursor = 0
	}
	return cmd
}

// Click handles a press at panel-local cell (x, y).
func (p *FilterPanel) Click(x, y int) tea.Cmd {
	_, zones := p.render()
	z, ok := hit(zones, x, y)
	if !ok {
		return nil
	}
	switch z.ID {
	case "search":
		return p.setOnList(false)
	case "clear":
		return send(ApplyValueFilterMsg{Key: p.key})
	case "apply":
		return p.apply()
	case "handle":
		p.resizer.Start()
	default:
		if i, ok := zoneIndex(z.ID, "value:"); ok {
			values := p.matches()
			if i < len(values) {
				p.cursor = i
				p.toggle(values[i])
			}
			return p.setOnList(true)
		}
	}
	return nil
}

func (p *FilterPanel) render() ([]string, []Zone) {
	size := p.Size()
	innerW, innerH := max(1, size.Width-2), max(1, size.Height-2)
	listH := max(1, innerH-5)
	values := p.matches()
	var zones []Zone
	var out []string

	l := newPanelLine(len(out), &zones)
	l.text(runewidth.Truncate("Filter: "+p.header, innerW, "…"), HeaderStyle)
	out = append(out, l.b.String())

	l = newPanelLine(len(out), &zones)
	l.zone("search", innerW)
	l.text("/ ", SearchLabel)
	p.search.Width = max(1, innerW-3)
	l.raw(fitANSI(p.search.View(), innerW-2), innerW-2)
	out = append(out, l.b.String())

	l = newPanelLine(len(out), &zones)
	l.text(strings.Repeat("─", innerW), DimText)
	out = append(out, l.b.String())

	p.cursor = min(p.cursor, max(0, len(values)-1))
	offset := max(0, p.cursor-listH+1)
	if len(values) == 0 {
		l = newPanelLine(len(out), &zones)
		l.text("No values", EmptyText)
		out = append(out, l.b.String())
	}
	for i := offset; i < len(values) && i < offset+listH; i++ {
		v := values[i]
		l := newPanelLine(len(out), &zones)
		l.zone("value:"+strconv.Itoa(i), innerW)
		box := "[ ] "
		if p.draft.Has(v) {
			box = "[x] "
		}
		l.text(box, CheckboxStyle)
		style := CellNormal
		if v == "" {
			style = EmptyText
		}
		if p.onList && i == p.cursor {
			style = PanelCursorStyle
		}
		l.text(runewidth.Truncate(valueLabel(v), max(1, innerW-4), "…"), style)
		out = append(out, l.b.String())
	}
	for len(out) < 3+listH {
		out = append(out, "")
	}

	l = newPanelLine(len(out), &zones)
	l.text(strings.Repeat("─", innerW), DimText)
	out = append(out, l.b.String())

	// the handle sits in the corner away from the anchor
	l = newPanelLine(len(out), &zones)
	buttons := "[Clear] [Apply]"
	if p.layout.Side == popover.SideLeft {
		l.zone("handle", 1)
		l.text("◣", AccentText)
		l.text(strings.Repeat(" ", max(1, innerW-1-len(buttons))), CellNormal)
	}
	l.button("clear", "[Clear]", ButtonStyle)
	l.text(" ", CellNormal)
	l.button("apply", "[Apply]", ButtonHotStyle)
	if p.layout.Side != popover.SideLeft {
		l.text(strings.Repeat(" ", max(1, innerW-1-len(buttons))), CellNormal)
		l.zone("handle", 1)
		l.text("◢", AccentText)
	}
	out = append(out, l.b.String())
	return out, zones
}

// View renders the panel.
func (p *FilterPanel) View() string {
	lines, _ := p.render()
	s := p.Size()
	return framePanel(lines, s.Width, s.Height)
}
