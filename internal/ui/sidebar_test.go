package ui

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func newTestSidebar(tables ...string) SidebarModel {
	m := NewSidebarModel("public", tables)
	m.SetSize(24, 8)
	m.SetFocused(true)
	return m
}

func picked(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("no command")
	}
	msg, ok := cmd().(TableSelectedMsg)
	if !ok {
		t.Fatalf("got %T", cmd())
	}
	return msg.Name
}

func TestSidebarKeys(t *testing.T) {
	m := newTestSidebar("accounts", "orders", "users")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := picked(t, cmd); got != "orders" {
		t.Errorf("picked %q", got)
	}
	if m.Selected() != "orders" {
		t.Errorf("selected = %q", m.Selected())
	}

	m, _ = m.Update(runes("G"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := picked(t, cmd); got != "users" {
		t.Errorf("end picked %q", got)
	}
}

func TestSidebarUnfocused(t *testing.T) {
	m := newTestSidebar("a", "b")
	m.SetFocused(false)
	if m.Focused() {
		t.Fatal("still focused")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("unfocused sidebar picked a table")
	}
}

func TestSidebarClickAndScroll(t *testing.T) {
	tables := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"}
	m := newTestSidebar(tables...)

	// border, title and schema sit above the first table
	if got := picked(t, m.Click(3)); got != "t0" {
		t.Errorf("click picked %q", got)
	}
	if m.Click(2) != nil {
		t.Error("click on the header picked a table")
	}

	// four list rows fit; scrolling to the bottom shifts the window
	m.Wheel(10)
	if got := picked(t, m.Click(3)); got != "t3" {
		t.Errorf("after scrolling the first row is %q", got)
	}
	if !strings.Contains(ansi.Strip(m.View()), "t6") {
		t.Error("last table not drawn after scrolling")
	}
}

func TestSidebarSetTables(t *testing.T) {
	m := newTestSidebar("a", "b", "c")
	m.Wheel(2)
	m.SetTables([]string{"x"})
	if !slices.Equal(m.Tables(), []string{"x"}) {
		t.Fatalf("tables = %v", m.Tables())
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := picked(t, cmd); got != "x" {
		t.Errorf("cursor not clamped: picked %q", got)
	}

	m.SetTables(nil)
	if !strings.Contains(ansi.Strip(m.View()), "No tables found") {
		t.Error("empty list message missing")
	}
}
