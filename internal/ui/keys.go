package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every grid binding. It implements help.KeyMap.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	ToggleRow     key.Binding
	ToggleAll     key.Binding
	DeselectAll   key.Binding
	Sort          key.Binding
	SelectionSort key.Binding
	OnlySelected  key.Binding
	Search        key.Binding
	Filter        key.Binding
	ValueFilter   key.Binding
	Columns       key.Binding
	Clear         key.Binding
	NextPage      key.Binding
	PrevPage      key.Binding
	FirstPage     key.Binding
	LastPage      key.Binding
	PageSizeUp    key.Binding
	PageSizeDown  key.Binding
	Export        key.Binding
	Refresh       key.Binding
	Copy          key.Binding
	SwitchPane    key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		ToggleRow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select row"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select page"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "deselect all"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		SelectionSort: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort by selection"),
		),
		OnlySelected: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "only selected"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter column"),
		),
		ValueFilter: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "filter values"),
		),
		Columns: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "columns"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n/pgdn", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p/pgup", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "last page"),
		),
		PageSizeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more rows"),
		),
		PageSizeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer rows"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "download csv"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy ids"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleRow, k.Sort, k.Search, k.ValueFilter, k.NextPage, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.ToggleRow, k.ToggleAll, k.DeselectAll},
		{k.Sort, k.SelectionSort, k.OnlySelected, k.Search, k.Filter, k.ValueFilter},
		{k.Columns, k.Clear, k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.PageSizeUp, k.PageSizeDown, k.Export, k.Refresh, k.Copy, k.SwitchPane},
		{k.Help, k.Quit},
	}
}
