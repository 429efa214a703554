package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TableSelectedMsg is sent when a table is picked in the sidebar.
type TableSelectedMsg struct {
	Name string
}

// sidebarHeader is the number of lines above the table list.
const sidebarHeader = 2

// SidebarModel lists the tables of the connected database.
type SidebarModel struct {
	tables   []string
	schema   string
	cursor   int
	offset   int
	selected string
	focused  bool
	width    int
	height   int
}

// NewSidebarModel creates a new sidebar with the given table list.
func NewSidebarModel(schema string, tables []string) SidebarModel {
	return SidebarModel{schema: schema, tables: tables}
}

// SetFocused sets the focus state.
func (m *SidebarModel) SetFocused(f bool) {
	m.focused = f
}

// Focused returns the focus state.
func (m SidebarModel) Focused() bool {
	return m.focused
}

// SetSize sets the sidebar dimensions.
func (m *SidebarModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.scroll()
}

// SetTables updates the table list.
func (m *SidebarModel) SetTables(tables []string) {
	m.tables = tables
	if m.cursor >= len(tables) {
		m.cursor = max(0, len(tables)-1)
	}
	m.scroll()
}

// Tables returns the listed tables.
func (m SidebarModel) Tables() []string {
	return m.tables
}

// Select marks name as the loaded table and moves the cursor to it.
func (m *SidebarModel) Select(name string) {
	m.selected = name
	for i, t := range m.tables {
		if t == name {
			m.cursor = i
		}
	}
	m.scroll()
}

// Selected returns the currently selected table name.
func (m SidebarModel) Selected() string {
	return m.selected
}

func (m *SidebarModel) listHeight() int {
	return max(1, m.height-2-sidebarHeader)
}

func (m *SidebarModel) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.tables)-h))
}

func (m *SidebarModel) pick() tea.Cmd {
	if len(m.tables) == 0 {
		return nil
	}
	m.selected = m.tables[m.cursor]
	return send(TableSelectedMsg{Name: m.selected})
}

// Update handles key events.
func (m SidebarModel) Update(msg tea.Msg) (SidebarModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tables)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, len(m.tables)-1)
		case "enter":
			return m, m.pick()
		}
		m.scroll()
	}
	return m, nil
}

// Click picks the table on the given row, counted from the sidebar's top
// border.
func (m *SidebarModel) Click(row int) tea.Cmd {
	i := m.offset + row - 1 - sidebarHeader
	if i < 0 || i >= len(m.tables) || i >= m.offset+m.listHeight() {
		return nil
	}
	m.cursor = i
	return m.pick()
}

// Wheel scrolls the list by delta rows.
func (m *SidebarModel) Wheel(delta int) {
	m.cursor = max(0, min(len(m.tables)-1, m.cursor+delta))
	m.scroll()
}

// View renders the sidebar.
func (m SidebarModel) View() string {
	borderStyle := UnfocusedBorder
	if m.focused {
		borderStyle = FocusedBorder
	}

	innerW := max(5, m.width-2)
	innerH := max(1, m.height-2)

	var lines []string
	lines = append(lines, HeaderStyle.Render("Tables"))
	lines = append(lines, SubHeaderStyle.Render("  "+m.schema))

	if len(m.tables) == 0 {
		lines = append(lines, DimText.Render("  No tables found"))
	}
	end := min(len(m.tables), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		t := m.tables[i]
		label := runewidth.Truncate("T "+t, innerW-1, "…")
		switch {
		case i == m.cursor && m.focused:
			lines = append(lines, SidebarCursorItem.Width(innerW).Render(label))
		case t == m.selected:
			lines = append(lines, SidebarActiveItem.Width(innerW).Render(label))
		default:
			lines = append(lines, SidebarTableItem.Width(innerW).Render(label))
		}
	}

	content := lipgloss.NewStyle().Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
	return borderStyle.Width(innerW).Height(innerH).Render(content)
}
