package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"gridtui/internal/grid"
	"gridtui/internal/popover"
)

type gridFocus int

const (
	focusRows gridFocus = iota
	focusSearch
	focusFilter
)

const (
	selWidth    = 8
	colSep      = " │ "
	minColWidth = 6
	maxColWidth = 28
	searchWidth = 28
	// toolbar, header, filter row, two rules and the footer
	gridChrome = 6
	bodyTop    = 4
)

// EmptyMessage is shown in place of rows when nothing matches.
const EmptyMessage = "No rows match your filters."

// Clickable zone ids. Per-column and per-row zones use the helpers below.
const (
	ZoneSearch        = "search"
	ZoneClear         = "clear"
	ZoneDownload      = "download"
	ZoneRefresh       = "refresh"
	ZoneColumns       = "columns"
	ZoneSelectAll     = "select-all"
	ZoneSelectionSort = "selection-sort"
	ZoneOnlySelected  = "only-selected"
	ZonePageSize      = "page-size"
	ZoneFirst         = "first"
	ZonePrev          = "prev"
	ZoneNext          = "next"
	ZoneLast          = "last"
)

func SortZone(key string) string   { return "sort:" + key }
func FunnelZone(key string) string { return "funnel:" + key }
func FilterZone(key string) string { return "filter:" + key }
func RowZone(i int) string         { return "row:" + strconv.Itoa(i) }

// Zone is a clickable region of the grid in screen cells.
type Zone struct {
	ID   string
	Rect popover.Rect
}

// OpenValueFilterMsg asks the host to open the value filter of a column
// next to Anchor.
type OpenValueFilterMsg struct {
	Key    string
	Anchor popover.Rect
}

// OpenColumnsMsg asks the host to open the column visibility panel.
type OpenColumnsMsg struct {
	Anchor popover.Rect
}

// ExportMsg asks the host to write the filtered rows as CSV.
type ExportMsg struct{}

// RefreshMsg asks the host to reload the dataset.
type RefreshMsg struct{}

// CopySelectionMsg asks the host to copy the selected ids.
type CopySelectionMsg struct{}

// GridModel renders a grid.State and turns keys and clicks into state
// changes. It is used through a pointer so popover anchors can re-read its
// geometry after scrolling.
type GridModel struct {
	state     *grid.State
	keys      KeyMap
	search    textinput.Model
	filter    textinput.Model
	filterKey string
	debounce  Debouncer
	focus     gridFocus
	cursorRow int
	cursorCol int
	colOffset int
	rowOffset int
	pageSizes []int
	pager     paginator.Model
	focused   bool
	x, y      int
	width     int
	height    int
}

// NewGridModel returns a grid bound to state. pageSizes are the options the
// page-size control cycles through.
func NewGridModel(state *grid.State, keys KeyMap, pageSizes []int, debounce time.Duration) *GridModel {
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "Search all columns…"
	search.Width = searchWidth - 1
	search.Cursor.SetMode(cursor.CursorStatic)

	filter := textinput.New()
	filter.Prompt = ""
	filter.Cursor.SetMode(cursor.CursorStatic)

	pager := paginator.New()
	pager.ActiveDot = AccentText.Render("●")
	pager.InactiveDot = DimText.Render("○")

	if len(pageSizes) == 0 {
		pageSizes = grid.PageSizes
	}
	return &GridModel{
		state:     state,
		keys:      keys,
		search:    search,
		filter:    filter,
		debounce:  NewDebouncer(debounce),
		pageSizes: slices.Clone(pageSizes),
		pager:     pager,
	}
}

// State returns the grid state.
func (m *GridModel) State() *grid.State {
	return m.state
}

// SetState swaps in a new dataset and resets the cursor and inputs.
func (m *GridModel) SetState(s *grid.State) {
	m.state = s
	m.cursorRow, m.cursorCol = 0, 0
	m.colOffset, m.rowOffset = 0, 0
	m.search.SetValue(s.SearchInput())
	m.debounce.Cancel()
	m.blurInputs()
}

// SetFocused sets the focus state.
func (m *GridModel) SetFocused(f bool) {
	m.focused = f
	if !f {
		m.blurInputs()
	}
}

// Focused returns the focus state.
func (m *GridModel) Focused() bool {
	return m.focused
}

// Editing reports whether a text input has the keyboard.
func (m *GridModel) Editing() bool {
	return m.focus != focusRows
}

// SetBounds places the grid, border included, at (x, y) with the given size.
func (m *GridModel) SetBounds(x, y, w, h int) {
	m.x, m.y = x, y
	m.width, m.height = w, h
	m.ensureRowVisible()
	m.ensureColVisible()
}

// Bounds returns the area covered by the grid.
func (m *GridModel) Bounds() popover.Rect {
	return popover.RectAt(m.x, m.y, m.width, m.height)
}

func (m *GridModel) innerSize() (int, int) {
	return max(10, m.width-2), max(gridChrome+1, m.height-2)
}

func (m *GridModel) bodyHeight() int {
	_, h := m.innerSize()
	return max(1, h-gridChrome)
}

// Update handles keys and debounced search ticks.
func (m *GridModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DebouncedMsg:
		if m.debounce.Accept(msg) {
			m.state.CommitSearch(msg.Value)
			m.clampCursor()
		}
		return nil
	case tea.KeyMsg:
		if !m.focused {
			return nil
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusFilter:
			return m.updateFilter(msg)
		}
		return m.updateRows(msg)
	}
	return nil
}

func (m *GridModel) updateRows(msg tea.KeyMsg) tea.Cmd {
	v := m.state.View()
	cols := m.state.VisibleColumns()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursorRow--
	case key.Matches(msg, m.keys.Down):
		m.cursorRow++
	case key.Matches(msg, m.keys.Left):
		m.cursorCol--
	case key.Matches(msg, m.keys.Right):
		m.cursorCol++
	case key.Matches(msg, m.keys.ToggleRow):
		if m.cursorRow >= 0 && m.cursorRow < len(v.Rows) {
			m.state.ToggleRow(v.Rows[m.cursorRow].ID)
		}
	case key.Matches(msg, m.keys.ToggleAll):
		m.state.ToggleAllVisible()
	case key.Matches(msg, m.keys.DeselectAll):
		m.state.ClearSelection()
	case key.Matches(msg, m.keys.Sort):
		if c, ok := m.currentColumn(cols); ok {
			m.state.ToggleHeaderSort(c.Key)
		}
	case key.Matches(msg, m.keys.SelectionSort):
		m.state.ToggleSelectionSort()
	case key.Matches(msg, m.keys.OnlySelected):
		m.state.ToggleOnlySelected()
	case key.Matches(msg, m.keys.Search):
		return m.focusSearch()
	case key.Matches(msg, m.keys.Filter):
		if c, ok := m.currentColumn(cols); ok {
			return m.focusFilter(c.Key)
		}
	case key.Matches(msg, m.keys.ValueFilter):
		if c, ok := m.currentColumn(cols); ok && c.Filterable {
			return m.openValueFilter(c.Key)
		}
	case key.Matches(msg, m.keys.Columns):
		r, _ := m.ZoneRect(ZoneColumns)
		return send(OpenColumnsMsg{Anchor: r})
	case key.Matches(msg, m.keys.Clear):
		m.Clear()
	case key.Matches(msg, m.keys.NextPage):
		m.state.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		m.state.PrevPage()
	case key.Matches(msg, m.keys.FirstPage):
		m.state.FirstPage()
	case key.Matches(msg, m.keys.LastPage):
		m.state.LastPage()
	case key.Matches(msg, m.keys.PageSizeUp):
		m.stepPageSize(1, false)
	case key.Matches(msg, m.keys.PageSizeDown):
		m.stepPageSize(-1, false)
	case key.Matches(msg, m.keys.Export):
		return send(ExportMsg{})
	case key.Matches(msg, m.keys.Refresh):
		return send(RefreshMsg{})
	case key.Matches(msg, m.keys.Copy):
		return send(CopySelectionMsg{})
	}
	m.clampCursor()
	return nil
}

func (m *GridModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.blurInputs()
		return nil
	case "enter", "tab":
		m.debounce.Cancel()
		m.state.CommitSearch(m.search.Value())
		m.blurInputs()
		m.clampCursor()
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.state.SetSearchInput(after)
		return tea.Batch(cmd, m.debounce.Trigger(after))
	}
	return cmd
}

func (m *GridModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.blurInputs()
		return nil
	}
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		m.state.SetTextFilter(m.filterKey, after)
		m.clampCursor()
	}
	return cmd
}

func (m *GridModel) focusSearch() tea.Cmd {
	m.blurInputs()
	m.focus = focusSearch
	m.search.SetValue(m.state.SearchInput())
	m.search.CursorEnd()
	return m.search.Focus()
}

func (m *GridModel) focusFilter(key string) tea.Cmd {
	m.blurInputs()
	m.focus = focusFilter
	m.filterKey = key
	if w, ok := m.slotWidth(key); ok {
		m.filter.Width = max(1, w-1)
	}
	m.filter.SetValue(m.state.TextFilter(key))
	m.filter.CursorEnd()
	return m.filter.Focus()
}

func (m *GridModel) blurInputs() {
	m.search.Blur()
	m.filter.Blur()
	m.focus = focusRows
	m.filterKey = ""
}

func (m *GridModel) openValueFilter(key string) tea.Cmd {
	m.ensureColVisible()
	r, ok := m.ZoneRect(FunnelZone(key))
	if !ok {
		return nil
	}
	return send(OpenValueFilterMsg{Key: key, Anchor: r})
}

// Clear resets search, filters, sort, only-selected and the page. The
// selection is kept.
func (m *GridModel) Clear() {
	m.state.ClearFilters()
	m.debounce.Cancel()
	m.search.SetValue("")
	m.filter.SetValue("")
	m.blurInputs()
	m.cursorRow, m.rowOffset = 0, 0
}

// stepPageSize moves through the page-size options. wrap cycles past the
// ends instead of stopping.
func (m *GridModel) stepPageSize(delta int, wrap bool) {
	cur := m.state.PageSize()
	i := slices.Index(m.pageSizes, cur)
	if i < 0 {
		i = 0
	} else {
		i += delta
	}
	n := len(m.pageSizes)
	if wrap {
		i = (i%n + n) % n
	} else {
		i = min(max(i, 0), n-1)
	}
	m.state.SetPageSize(m.pageSizes[i])
	m.rowOffset = 0
}

func (m *GridModel) currentColumn(cols []grid.Column) (grid.Column, bool) {
	if m.cursorCol < 0 || m.cursorCol >= len(cols) {
		return grid.Column{}, false
	}
	return cols[m.cursorCol], true
}

// Sync re-clamps the cursor and scroll after the state changed elsewhere.
func (m *GridModel) Sync() {
	m.clampCursor()
}

func (m *GridModel) clampCursor() {
	v := m.state.View()
	m.cursorRow = min(max(m.cursorRow, 0), max(0, len(v.Rows)-1))
	cols := m.state.VisibleColumns()
	m.cursorCol = min(max(m.cursorCol, 0), max(0, len(cols)-1))
	m.ensureRowVisible()
	m.ensureColVisible()
}

func (m *GridModel) ensureRowVisible() {
	if m.state == nil {
		return
	}
	bodyH := m.bodyHeight()
	total := m.state.View().PageSize
	if m.cursorRow < m.rowOffset {
		m.rowOffset = m.cursorRow
	} else if m.cursorRow >= m.rowOffset+bodyH {
		m.rowOffset = m.cursorRow - bodyH + 1
	}
	m.rowOffset = min(max(0, m.rowOffset), max(0, total-bodyH))
}

func (m *GridModel) ensureColVisible() {
	if m.state == nil {
		return
	}
	n := len(m.state.VisibleColumns())
	if n == 0 {
		m.colOffset = 0
		return
	}
	m.colOffset = min(max(0, m.colOffset), n-1)
	if m.cursorCol < m.colOffset {
		m.colOffset = m.cursorCol
	}
	v := m.state.View()
	for m.colOffset < m.cursorCol {
		slots := m.slots(v)
		if len(slots) > 0 && slots[len(slots)-1].index >= m.cursorCol {
			break
		}
		m.colOffset++
	}
}

// Wheel scrolls the body by dy rows and the columns by dx. It reports
// whether anything moved.
func (m *GridModel) Wheel(dx, dy int) bool {
	moved := false
	if dy != 0 {
		total := m.state.View().PageSize
		next := min(max(0, m.rowOffset+dy), max(0, total-m.bodyHeight()))
		if next != m.rowOffset {
			m.rowOffset = next
			moved = true
			m.cursorRow = min(max(m.cursorRow, m.rowOffset), m.rowOffset+m.bodyHeight()-1)
			m.cursorRow = min(m.cursorRow, max(0, len(m.state.View().Rows)-1))
		}
	}
	if dx != 0 {
		n := len(m.state.VisibleColumns())
		next := min(max(0, m.colOffset+dx), max(0, n-1))
		if next != m.colOffset {
			m.colOffset = next
			moved = true
			if m.cursorCol < next {
				m.cursorCol = next
			}
			slots := m.slots(m.state.View())
			if len(slots) > 0 && m.cursorCol > slots[len(slots)-1].index {
				m.cursorCol = slots[len(slots)-1].index
			}
		}
	}
	return moved
}

// Click handles a left click at screen cell (x, y).
func (m *GridModel) Click(x, y int) tea.Cmd {
	z, ok := m.HitTest(x, y)
	if !ok {
		m.blurInputs()
		return nil
	}
	localX := x - m.x - 1

	if z.ID != ZoneSearch && !strings.HasPrefix(z.ID, "filter:") {
		m.blurInputs()
	}

	switch z.ID {
	case ZoneSearch:
		return m.focusSearch()
	case ZoneClear:
		m.Clear()
	case ZoneDownload:
		return send(ExportMsg{})
	case ZoneRefresh:
		return send(RefreshMsg{})
	case ZoneColumns:
		return send(OpenColumnsMsg{Anchor: z.Rect})
	case ZoneSelectAll:
		m.state.ToggleAllVisible()
	case ZoneSelectionSort:
		m.state.ToggleSelectionSort()
	case ZoneOnlySelected:
		m.state.ToggleOnlySelected()
	case ZonePageSize:
		m.stepPageSize(1, true)
	case ZoneFirst:
		m.state.FirstPage()
	case ZonePrev:
		m.state.PrevPage()
	case ZoneNext:
		m.state.NextPage()
	case ZoneLast:
		m.state.LastPage()
	default:
		kind, arg, _ := strings.Cut(z.ID, ":")
		switch kind {
		case "sort":
			m.moveCursorToColumn(arg)
			m.state.ToggleHeaderSort(arg)
		case "funnel":
			m.moveCursorToColumn(arg)
			return send(OpenValueFilterMsg{Key: arg, Anchor: z.Rect})
		case "filter":
			m.moveCursorToColumn(arg)
			return m.focusFilter(arg)
		case "row":
			i, _ := strconv.Atoi(arg)
			v := m.state.View()
			if i >= len(v.Rows) {
				break
			}
			m.cursorRow = i
			if localX < selWidth {
				m.state.ToggleRow(v.Rows[i].ID)
				break
			}
			for _, s := range m.slots(v) {
				if localX >= s.x && localX < s.x+s.w {
					m.cursorCol = s.index
				}
			}
		}
	}
	m.clampCursor()
	return nil
}

func (m *GridModel) moveCursorToColumn(key string) {
	for i, c := range m.state.VisibleColumns() {
		if c.Key == key {
			m.cursorCol = i
			return
		}
	}
}

// HitTest returns the zone under screen cell (x, y).
func (m *GridModel) HitTest(x, y int) (Zone, bool) {
	for _, z := range m.Zones() {
		if z.Rect.Contains(x, y) {
			return z, true
		}
	}
	return Zone{}, false
}

// ZoneRect returns the screen rectangle of a zone. It is false when the zone
// is not on screen, e.g. its column scrolled away.
func (m *GridModel) ZoneRect(id string) (popover.Rect, bool) {
	for _, z := range m.Zones() {
		if z.ID == id {
			return z.Rect, true
		}
	}
	return popover.Rect{}, false
}

// Zones returns every clickable region in screen cells.
func (m *GridModel) Zones() []Zone {
	_, zones := m.render()
	ox, oy := m.x+1, m.y+1
	for i := range zones {
		r := zones[i].Rect
		zones[i].Rect = popover.Rect{Left: r.Left + ox, Top: r.Top + oy, Right: r.Right + ox, Bottom: r.Bottom + oy}
	}
	return zones
}

// View renders the grid with its border.
func (m *GridModel) View() string {
	lines, _ := m.render()
	innerW, innerH := m.innerSize()
	border := UnfocusedBorder
	if m.focused {
		border = FocusedBorder
	}
	return border.Width(innerW).Height(innerH).MaxHeight(innerH + 2).Render(strings.Join(lines, "\n"))
}

type colSlot struct {
	col   grid.Column
	index int
	x     int
	w     int
}

func (m *GridModel) slots(v grid.View) []colSlot {
	cols := m.state.VisibleColumns()
	if len(cols) == 0 {
		return nil
	}
	widths := columnWidths(cols, v.Rows)
	innerW, _ := m.innerSize()
	sepW := runewidth.StringWidth(colSep)
	off := min(max(0, m.colOffset), len(cols)-1)

	x := selWidth
	var out []colSlot
	for i := off; i < len(cols); i++ {
		start := x + sepW
		w := widths[i]
		if start+w > innerW {
			if len(out) > 0 {
				break
			}
			w = max(1, innerW-start)
		}
		out = append(out, colSlot{col: cols[i], index: i, x: start, w: w})
		x = start + w
	}
	return out
}

func (m *GridModel) slotWidth(key string) (int, bool) {
	for _, s := range m.slots(m.state.View()) {
		if s.col.Key == key {
			return s.w, true
		}
	}
	return 0, false
}

func columnWidths(cols []grid.Column, rows []grid.Row) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		// room for the sort arrow and the funnel
		w := runewidth.StringWidth(c.Header) + 4
		for _, r := range rows {
			w = max(w, runewidth.StringWidth(sanitizeCell(c.Format(r))))
		}
		widths[i] = min(maxColWidth, max(minColWidth, w))
	}
	return widths
}

// line accumulates one rendered row and the zones inside it.
type line struct {
	b     strings.Builder
	x, y  int
	zones *[]Zone
}

func (l *line) text(s string, style lipgloss.Style) {
	l.b.WriteString(style.Render(s))
	l.x += runewidth.StringWidth(s)
}

func (l *line) raw(s string, width int) {
	l.b.WriteString(s)
	l.x += width
}

func (l *line) zone(id string, width int) {
	*l.zones = append(*l.zones, Zone{ID: id, Rect: popover.RectAt(l.x, l.y, width, 1)})
}

func (l *line) button(id, label string, style lipgloss.Style) {
	l.zone(id, runewidth.StringWidth(label))
	l.text(label, style)
}

// render draws the grid content without the border and returns the zones in
// content-local cells.
func (m *GridModel) render() ([]string, []Zone) {
	v := m.state.View()
	slots := m.slots(v)
	innerW, _ := m.innerSize()
	var zones []Zone
	var out []string

	newLine := func() *line { return &line{y: len(out), zones: &zones} }
	finish := func(l *line) {
		s := l.b.String()
		if ansi.StringWidth(s) > innerW {
			s = ansi.Truncate(s, innerW, "")
		}
		out = append(out, s)
	}

	finish(m.renderToolbar(newLine()))
	finish(m.renderHeader(newLine(), v, slots))
	finish(m.renderFilterRow(newLine(), v, slots))
	finish(m.renderRule(newLine(), innerW))

	visible := min(m.bodyHeight(), v.PageSize)
	for k := 0; k < visible; k++ {
		finish(m.renderBodyLine(newLine(), v, slots, m.rowOffset+k))
	}

	// keep the border height fixed when the page is shorter than the body
	for k := visible; k < m.bodyHeight(); k++ {
		finish(newLine())
	}
	finish(m.renderRule(newLine(), innerW))
	finish(m.renderFooter(newLine(), v))

	// drop zones that were cut off on the right
	zones = slices.DeleteFunc(zones, func(z Zone) bool { return z.Rect.Left >= innerW })
	return out, zones
}

func (m *GridModel) renderToolbar(l *line) *line {
	l.text("Search: ", SearchLabel)
	l.zone(ZoneSearch, searchWidth)
	var field string
	if m.focus == focusSearch {
		field = m.search.View()
	} else if in := m.state.SearchInput(); in != "" {
		field = CellNormal.Render(runewidth.Truncate(in, searchWidth, "…"))
	} else {
		field = SearchPlaceholder.Render(m.search.Placeholder)
	}
	l.raw(fitANSI(field, searchWidth), searchWidth)
	l.text("  ", CellNormal)

	clear := ButtonStyle
	if m.state.HasFilters() {
		clear = ButtonHotStyle
	}
	l.button(ZoneClear, "[Clear]", clear)
	l.text(" ", CellNormal)
	l.button(ZoneDownload, "[Download]", ButtonStyle)
	l.text(" ", CellNormal)
	l.button(ZoneRefresh, "[Refresh]", ButtonStyle)
	l.text(" ", CellNormal)
	l.button(ZoneColumns, "[Columns]", ButtonStyle)
	return l
}

func checkbox(c grid.Coverage) string {
	switch c {
	case grid.CoverAll:
		return "[x]"
	case grid.CoverSome:
		return "[-]"
	}
	return "[ ]"
}

func sortArrow(spec *grid.SortSpec, key string) string {
	if spec == nil || spec.Key != key {
		return ""
	}
	if spec.Direction == grid.Desc {
		return "↓"
	}
	return "↑"
}

func (m *GridModel) renderHeader(l *line, v grid.View, slots []colSlot) *line {
	spec := m.state.Sort()

	l.zone(ZoneSelectAll, 3)
	l.text(checkbox(v.Coverage), CheckboxStyle)
	l.text(" ", CellNormal)
	arrow := sortArrow(spec, grid.SelectionKey)
	style := DimText
	if arrow == "" {
		arrow = "↕"
	} else {
		style = ActiveText
	}
	l.zone(ZoneSelectionSort, 1)
	l.text(arrow, style)
	l.text(strings.Repeat(" ", selWidth-5), CellNormal)

	for _, s := range slots {
		l.text(colSep, DimText)
		label := s.col.Header
		if a := sortArrow(spec, s.col.Key); a != "" {
			label += " " + a
		}
		labelW := max(1, s.w-2)
		if s.col.Sortable {
			l.zone(SortZone(s.col.Key), labelW)
		}
		l.text(runewidth.FillRight(runewidth.Truncate(label, labelW, "…"), labelW), HeaderStyle)
		if s.w-labelW < 2 {
			continue
		}
		if !s.col.Filterable {
			l.text("  ", CellNormal)
			continue
		}
		funnel := DimText
		if _, active := m.state.ValueFilter(s.col.Key); active {
			funnel = ActiveText
		}
		l.text(" ", CellNormal)
		l.zone(FunnelZone(s.col.Key), 1)
		l.text("▾", funnel)
	}
	return l
}

func (m *GridModel) renderFilterRow(l *line, v grid.View, slots []colSlot) *line {
	only := "[ ]"
	style := DimText
	if m.state.OnlySelected() {
		only = "[x]"
		style = ActiveText
	}
	l.zone(ZoneOnlySelected, selWidth-1)
	l.text(runewidth.FillRight(only+" sel", selWidth), style)

	for _, s := range slots {
		l.text(colSep, DimText)
		l.zone(FilterZone(s.col.Key), s.w)
		switch {
		case m.focus == focusFilter && m.filterKey == s.col.Key:
			l.raw(fitANSI(m.filter.View(), s.w), s.w)
		case m.state.TextFilter(s.col.Key) != "":
			l.text(runewidth.FillRight(runewidth.Truncate(m.state.TextFilter(s.col.Key), s.w, "…"), s.w), AccentText)
		default:
			l.text(runewidth.FillRight(runewidth.Truncate("filter…", s.w, ""), s.w), SearchPlaceholder)
		}
	}
	return l
}

func (m *GridModel) renderRule(l *line, width int) *line {
	l.text(strings.Repeat("─", width), DimText)
	return l
}

func (m *GridModel) renderBodyLine(l *line, v grid.View, slots []colSlot, i int) *line {
	if i >= len(v.Rows) {
		if i == 0 && len(v.Rows) == 0 {
			l.text(EmptyMessage, EmptyText)
		}
		return l
	}
	row := v.Rows[i]
	selected := m.state.IsSelected(row.ID)
	base := CellNormal
	if selected {
		base = RowSelected
	}
	cursorLine := m.focused && m.focus == focusRows && i == m.cursorRow

	l.zone(RowZone(i), max(selWidth, slotsRight(slots)))
	box := "[ ]"
	if selected {
		box = "[x]"
	}
	boxStyle := CheckboxStyle
	if cursorLine && len(slots) == 0 {
		boxStyle = CellCursor
	}
	l.text(box, boxStyle)
	l.text(strings.Repeat(" ", selWidth-3), base)

	for _, s := range slots {
		l.text(colSep, DimText)
		cell := runewidth.FillRight(runewidth.Truncate(sanitizeCell(s.col.Format(row)), s.w, "…"), s.w)
		style := base
		if cursorLine && s.index == m.cursorCol {
			style = CellCursor
		} else if row.Get(s.col.Key) == nil && !selected {
			style = EmptyText
		}
		l.text(cell, style)
	}
	return l
}

func slotsRight(slots []colSlot) int {
	if len(slots) == 0 {
		return 0
	}
	last := slots[len(slots)-1]
	return last.x + last.w
}

func (m *GridModel) renderFooter(l *line, v grid.View) *line {
	l.text("Rows ", DimText)
	l.button(ZonePageSize, fmt.Sprintf("‹%d›", v.PageSize), ButtonHotStyle)
	l.text(" │ ", DimText)
	l.text(grid.RangeLabel(v), CellNormal)
	l.text(" │ ", DimText)

	l.button(ZoneFirst, "«", ButtonStyle)
	l.text(" ", CellNormal)
	l.button(ZonePrev, "‹", ButtonStyle)
	l.text(fmt.Sprintf(" Page %d of %d ", v.Page, v.PageCount), CellNormal)
	l.button(ZoneNext, "›", ButtonStyle)
	l.text(" ", CellNormal)
	l.button(ZoneLast, "»", ButtonStyle)

	m.pager.PerPage = v.PageSize
	m.pager.TotalPages = v.PageCount
	m.pager.Page = v.Page - 1
	if v.PageCount <= 10 {
		m.pager.Type = paginator.Dots
	} else {
		m.pager.Type = paginator.Arabic
	}
	dots := m.pager.View()
	l.text(" │ ", DimText)
	l.raw(dots, ansi.StringWidth(dots))

	if n := m.state.Selection().Len(); n > 0 {
		l.text(" │ ", DimText)
		l.text(fmt.Sprintf("%d selected", n), ActiveText)
	}
	return l
}

// fitANSI pads or cuts a styled string to exactly width cells.
func fitANSI(s string, width int) string {
	w := ansi.StringWidth(s)
	switch {
	case w > width:
		return ansi.Truncate(s, width, "")
	case w < width:
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "↵")
	s = strings.ReplaceAll(s, "\n", "↵")
	s = strings.ReplaceAll(s, "\r", "↵")
	s = strings.ReplaceAll(s, "\t", " ")
	return s
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
