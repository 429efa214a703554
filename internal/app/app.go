package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridtui/internal/config"
	"gridtui/internal/db"
	"gridtui/internal/grid"
	"gridtui/internal/popover"
	"gridtui/internal/source"
	"gridtui/internal/ui"
)

// Pane represents which pane is focused.
type Pane int

const (
	SidebarPane Pane = iota
	GridPane
)

const (
	sidebarWidth = 28
	loadTimeout  = 30 * time.Second
)

// Panel sizes before the first measurement, in cells.
var (
	valuePanelSize   = popover.Size{Width: 32, Height: 16}
	columnsPanelSize = popover.Size{Width: 32, Height: 10}
)

// tickMsg is sent to clear expired status messages.
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// datasetMsg carries a loaded dataset back to the app.
type datasetMsg struct {
	dataset *source.Dataset
	refresh bool
	elapsed time.Duration
	err     error
}

// exportResultMsg carries the result of a CSV export.
type exportResultMsg struct {
	path string
	rows int
	err  error
}

// tablesMsg carries a reloaded table list.
type tablesMsg struct {
	tables []string
	err    error
}

// copyResultMsg carries the result of copying selected ids.
type copyResultMsg struct {
	count int
	err   error
}

// Options configures the root model.
type Options struct {
	Config *config.Config
	// Loader provides the dataset. In database mode it may be nil until a
	// table is picked.
	Loader source.Loader
	// DB enables the table sidebar.
	DB     *db.DB
	Tables []string
	// ExportDir receives CSV downloads; empty means the working directory.
	ExportDir string
}

// popups holds the floating panels. It is shared by every copy of Model so
// the panels' dismissal callbacks can reach it.
type popups struct {
	hub     *popover.Hub
	values  *popover.Panel
	columns *popover.Panel
	filter  *ui.FilterPanel
	cols    *ui.ColumnsPanel
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg        *config.Config
	loader     source.Loader
	db         *db.DB
	exportDir  string
	keys       ui.KeyMap
	activePane Pane
	sidebar    ui.SidebarModel
	grid       *ui.GridModel
	statusbar  ui.StatusBarModel
	pop        *popups
	showHelp   bool
	mouseX     int
	mouseY     int
	width      int
	height     int
	startCmd   tea.Cmd
}

// NewModel creates the root app model.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{Grid: config.DefaultGridPrefs()}
	}
	keys := ui.DefaultKeyMap()

	m := Model{
		cfg:        cfg,
		loader:     opts.Loader,
		db:         opts.DB,
		exportDir:  opts.ExportDir,
		keys:       keys,
		activePane: GridPane,
		statusbar:  ui.NewStatusBarModel(keys),
	}
	m.grid = ui.NewGridModel(m.newState(nil), keys, cfg.Grid.PageSizes, cfg.Grid.Debounce())
	m.grid.SetFocused(true)

	if m.db != nil {
		m.sidebar = ui.NewSidebarModel("public", opts.Tables)
		if m.loader == nil {
			m.activePane = SidebarPane
			m.grid.SetFocused(false)
			m.sidebar.SetFocused(true)
			m.statusbar.SetMessage(fmt.Sprintf("%d tables, pick one to browse", len(opts.Tables)), ui.MsgInfo)
		}
	}

	m.pop = newPopups(cfg.Grid, m.grid)
	if m.loader != nil {
		m.startCmd = tea.Batch(m.statusbar.StartLoading("Loading "+m.loader.Name()+"…"), m.load(false))
	}
	return m
}

func newPopups(prefs config.GridPrefs, g *ui.GridModel) *popups {
	p := &popups{hub: popover.NewHub()}
	placer := popover.Placer{Margin: prefs.Margin, MinWidth: 24, MinHeight: 8}
	p.values = popover.NewPanel(p.hub, popover.PanelConfig{
		Placer:  placer,
		Initial: valuePanelSize,
		Anchor: func() (popover.Rect, bool) {
			if p.filter == nil {
				return popover.Rect{}, false
			}
			return g.ZoneRect(ui.FunnelZone(p.filter.Key()))
		},
		OnDismiss: func() { p.filter = nil },
	})
	p.columns = popover.NewPanel(p.hub, popover.PanelConfig{
		Placer:  placer,
		Initial: columnsPanelSize,
		Anchor: func() (popover.Rect, bool) {
			return g.ZoneRect(ui.ZoneColumns)
		},
		OnDismiss: func() { p.cols = nil },
	})
	return p
}

func (p *popups) open() bool {
	return p.values.IsOpen() || p.columns.IsOpen()
}

func (p *popups) closeAll() {
	p.values.Close()
	p.columns.Close()
	p.filter = nil
	p.cols = nil
}

func (m *Model) newState(ds *source.Dataset) *grid.State {
	opts := grid.Options{
		PageSize: m.cfg.Grid.PageSize,
		OnSelectionChange: func(ids []grid.ID) {
			slog.Debug("selection changed", "count", len(ids))
		},
	}
	if ds == nil {
		return grid.New(nil, nil, opts)
	}
	opts.InitialSort = ds.InitialSort
	return grid.New(ds.Columns, ds.Rows, opts)
}

// Init starts the app.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.startCmd)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncPanels()
	m.syncStatus()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		m.pop.hub.Dispatch(popover.Event{Kind: popover.Resize, Size: m.viewport()})
		return nil

	case tickMsg:
		m.statusbar.ClearExpiredMessage()
		return tickCmd()

	case spinner.TickMsg:
		return m.statusbar.Update(msg)

	case ui.DebouncedMsg:
		return m.grid.Update(msg)

	case datasetMsg:
		m.applyDataset(msg)
		return nil

	case ui.TableSelectedMsg:
		m.loader = db.Table{DB: m.db, Table: msg.Name, Limit: m.cfg.Grid.RowLimit}
		m.sidebar.Select(msg.Name)
		m.focus(GridPane)
		return tea.Batch(m.statusbar.StartLoading("Loading "+msg.Name+"…"), m.load(false))

	case ui.RefreshMsg:
		if m.loader == nil {
			return nil
		}
		return tea.Batch(m.statusbar.StartLoading("Refreshing…"), m.load(true))

	case ui.ExportMsg:
		return m.export()

	case exportResultMsg:
		if msg.err != nil {
			slog.Error("export failed", "err", msg.err)
			m.statusbar.SetMessage("Download failed: "+msg.err.Error(), ui.MsgError)
		} else {
			m.statusbar.SetMessage(fmt.Sprintf("Saved %d rows to %s", msg.rows, msg.path), ui.MsgSuccess)
		}
		return nil

	case tablesMsg:
		m.statusbar.StopLoading()
		if msg.err != nil {
			slog.Error("list tables failed", "err", msg.err)
			m.statusbar.SetMessage("List tables failed: "+msg.err.Error(), ui.MsgError)
			return nil
		}
		m.sidebar.SetTables(msg.tables)
		m.statusbar.SetMessage(fmt.Sprintf("%d tables", len(msg.tables)), ui.MsgInfo)
		return nil

	case ui.CopySelectionMsg:
		return m.copySelection()

	case copyResultMsg:
		if msg.err != nil {
			m.statusbar.SetMessage("Copy failed: "+msg.err.Error(), ui.MsgError)
		} else {
			m.statusbar.SetMessage(fmt.Sprintf("Copied %d ids", msg.count), ui.MsgSuccess)
		}
		return nil

	case ui.OpenValueFilterMsg:
		if m.pop.filter != nil && m.pop.filter.Key() == msg.Key {
			m.pop.closeAll()
			return nil
		}
		m.pop.closeAll()
		m.pop.filter = ui.NewFilterPanel(m.grid.State(), msg.Key)
		m.pop.filter.SetLayout(m.pop.values.Open(msg.Anchor, m.viewport()))
		return m.pop.filter.Init()

	case ui.OpenColumnsMsg:
		if m.pop.cols != nil {
			m.pop.closeAll()
			return nil
		}
		m.pop.closeAll()
		m.pop.cols = ui.NewColumnsPanel(m.grid.State())
		m.pop.cols.SetLayout(m.pop.columns.Open(msg.Anchor, m.viewport()))
		return nil

	case ui.ApplyValueFilterMsg:
		s := m.grid.State()
		if msg.Values == nil {
			s.ClearValueFilter(msg.Key)
		} else {
			s.SetValueFilter(msg.Key, msg.Values)
		}
		m.pop.closeAll()
		m.grid.Sync()
		return nil

	case ui.ApplyColumnsMsg:
		m.grid.State().SetVisibleColumns(msg.Keys)
		m.pop.closeAll()
		m.grid.Sync()
		return nil

	case ui.ClosePanelMsg:
		m.pop.closeAll()
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.pop.open() {
		m.pop.hub.Dispatch(popover.Event{Kind: popover.KeyDown, Key: msg.String()})
		switch {
		case m.pop.filter != nil:
			return m.pop.filter.Update(msg)
		case m.pop.cols != nil:
			return m.pop.cols.Update(msg)
		}
		return nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" || msg.String() == "q" {
			m.showHelp = false
		}
		return nil
	}

	if m.activePane == GridPane && m.grid.Editing() {
		return m.grid.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.SwitchPane):
		if m.db != nil {
			if m.activePane == GridPane {
				m.focus(SidebarPane)
			} else {
				m.focus(GridPane)
			}
		}
		return nil
	}

	if m.activePane == SidebarPane {
		if key.Matches(msg, m.keys.Refresh) {
			return tea.Batch(m.statusbar.StartLoading("Listing tables…"), m.listTables())
		}
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return cmd
	}
	return m.grid.Update(msg)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X, msg.Y
	defer func() { m.mouseX, m.mouseY = x, y }()

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.pop.filter != nil && m.pop.filter.Resizing() {
			m.pop.filter.DragBy(x-m.mouseX, y-m.mouseY)
		}
		return nil
	case tea.MouseActionRelease:
		if m.pop.filter != nil {
			m.pop.filter.StopResize()
		}
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return m.handleWheel(msg)
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	m.pop.hub.Dispatch(popover.Event{Kind: popover.PointerDown, X: x, Y: y})

	if m.pop.filter != nil {
		if b := m.pop.values.Bounds(); b.Contains(x, y) {
			return m.pop.filter.Click(x-b.Left, y-b.Top)
		}
	}
	if m.pop.cols != nil {
		if b := m.pop.columns.Bounds(); b.Contains(x, y) {
			return m.pop.cols.Click(x-b.Left, y-b.Top)
		}
	}
	if m.showHelp {
		m.showHelp = false
		return nil
	}

	if m.grid.Bounds().Contains(x, y) {
		m.focus(GridPane)
		return m.grid.Click(x, y)
	}
	if m.db != nil && x < sidebarWidth && y >= 1 {
		m.focus(SidebarPane)
		return m.sidebar.Click(y - 1)
	}
	return nil
}

func (m *Model) handleWheel(msg tea.MouseMsg) tea.Cmd {
	var dx, dy int
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		dy = -1
	case tea.MouseButtonWheelDown:
		dy = 1
	case tea.MouseButtonWheelLeft:
		dx = -1
	case tea.MouseButtonWheelRight:
		dx = 1
	}
	if msg.Shift {
		dx, dy = dy, dx
	}

	switch {
	case m.grid.Bounds().Contains(msg.X, msg.Y):
		if m.grid.Wheel(dx, dy) {
			m.pop.hub.Dispatch(popover.Event{Kind: popover.Scroll, X: msg.X, Y: msg.Y})
		}
	case m.db != nil && msg.X < sidebarWidth:
		m.sidebar.Wheel(dy)
	}
	return nil
}

func (m *Model) focus(p Pane) {
	m.activePane = p
	m.grid.SetFocused(p == GridPane)
	if m.db != nil {
		m.sidebar.SetFocused(p == SidebarPane)
	}
}

func (m *Model) applyDataset(msg datasetMsg) {
	m.statusbar.StopLoading()
	name := ""
	if m.loader != nil {
		name = m.loader.Name()
	}
	if msg.err != nil {
		slog.Error("load failed", "source", name, "err", msg.err)
		m.statusbar.SetMessage("Load failed: "+msg.err.Error(), ui.MsgError)
		return
	}
	ds := msg.dataset
	slog.Info("dataset loaded", "source", name, "rows", len(ds.Rows), "columns", len(ds.Columns), "elapsed", msg.elapsed)

	if msg.refresh {
		s := m.grid.State()
		s.SetColumns(ds.Columns)
		s.SetRows(ds.Rows)
		m.grid.Sync()
		m.statusbar.SetMessage(fmt.Sprintf("Refreshed %d rows", len(ds.Rows)), ui.MsgSuccess)
		return
	}
	m.pop.closeAll()
	m.grid.SetState(m.newState(ds))
	m.statusbar.SetMessage(fmt.Sprintf("Loaded %d rows from %s in %s", len(ds.Rows), name, msg.elapsed.Round(time.Millisecond)), ui.MsgSuccess)
}

func (m *Model) load(refresh bool) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		start := time.Now()
		ds, err := loader.Load(ctx)
		if err != nil {
			return datasetMsg{refresh: refresh, err: fmt.Errorf("load %s: %w", loader.Name(), err)}
		}
		return datasetMsg{dataset: ds, refresh: refresh, elapsed: time.Since(start)}
	}
}

func (m *Model) listTables() tea.Cmd {
	d := m.db
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		tables, err := d.ListTables(ctx)
		return tablesMsg{tables: tables, err: err}
	}
}

// export writes the filtered, sorted rows with the visible columns.
func (m *Model) export() tea.Cmd {
	s := m.grid.State()
	rows := s.View().Filtered
	cols := s.VisibleColumns()
	name := "grid"
	if m.loader != nil {
		name = m.loader.Name()
	}
	path := filepath.Join(m.exportDir, exportFileName(name, time.Now()))

	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("create %s: %w", path, err)}
		}
		if err := source.WriteCSV(f, cols, rows); err != nil {
			f.Close()
			return exportResultMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return exportResultMsg{err: fmt.Errorf("close %s: %w", path, err)}
		}
		return exportResultMsg{path: path, rows: len(rows)}
	}
}

// exportFileName builds "<source>-<timestamp>.csv" with the extension of the
// source name dropped.
func exportFileName(sourceName string, now time.Time) string {
	base := sourceName
	switch ext := filepath.Ext(base); strings.ToLower(ext) {
	case ".csv", ".json":
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = "grid"
	}
	return fmt.Sprintf("%s-%s.csv", base, now.Format("20060102-150405"))
}

func (m *Model) copySelection() tea.Cmd {
	ids := m.grid.State().Selection().IDs()
	if len(ids) == 0 {
		m.statusbar.SetMessage("Nothing selected", ui.MsgInfo)
		return nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	text := strings.Join(parts, "\n")
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copyResultMsg{err: err}
		}
		return copyResultMsg{count: len(ids)}
	}
}

// syncPanels measures the open panel and feeds the size back to its
// positioner until the layout settles.
func (m *Model) syncPanels() {
	type content interface {
		SetLayout(popover.Layout)
		Size() popover.Size
	}
	var panel *popover.Panel
	var c content
	switch {
	case m.pop.filter != nil && m.pop.values.IsOpen():
		panel, c = m.pop.values, m.pop.filter
	case m.pop.cols != nil && m.pop.columns.IsOpen():
		panel, c = m.pop.columns, m.pop.cols
	default:
		return
	}
	// the size depends on the max bounds, so two rounds are enough
	for range 2 {
		c.SetLayout(panel.Layout())
		if _, changed := panel.ContentResized(c.Size()); !changed {
			return
		}
	}
	c.SetLayout(panel.Layout())
}

func (m *Model) syncStatus() {
	s := m.grid.State()
	name := ""
	if m.loader != nil {
		name = m.loader.Name()
	}
	m.statusbar.SetSummary(name, s.Selection().Len(), s.RangeLabel())
}

func (m *Model) viewport() popover.Size {
	return popover.Size{Width: m.width, Height: m.height}
}

func (m *Model) mainHeight() int {
	// top bar + status bar
	return max(8, m.height-2)
}

func (m *Model) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	gridX := 0
	if m.db != nil {
		gridX = sidebarWidth
		m.sidebar.SetSize(sidebarWidth, m.mainHeight())
	}
	m.grid.SetBounds(gridX, 1, m.width-gridX, m.mainHeight())
	m.statusbar.SetWidth(m.width)
}

// View renders the full layout.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	title := "gridtui"
	switch {
	case m.db != nil && m.sidebar.Selected() != "":
		title = m.db.ConnInfo() + " · " + m.sidebar.Selected()
	case m.db != nil:
		title = m.db.ConnInfo()
	case m.loader != nil:
		title = "gridtui · " + m.loader.Name()
	}
	topBar := ui.TopBarStyle.Width(m.width).MaxHeight(1).Render(title)

	mainArea := m.grid.View()
	if m.db != nil {
		mainArea = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), mainArea)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, topBar, mainArea, m.statusbar.View())

	switch {
	case m.pop.filter != nil && m.pop.values.IsOpen():
		l := m.pop.values.Layout()
		out = ui.PlaceOverlay(l.Left, l.Top, m.pop.filter.View(), out)
	case m.pop.cols != nil && m.pop.columns.IsOpen():
		l := m.pop.columns.Layout()
		out = ui.PlaceOverlay(l.Left, l.Top, m.pop.cols.View(), out)
	}
	if m.showHelp {
		out = ui.CenterOverlay(m.statusbar.HelpView(), out, m.width, m.height)
	}
	return out
}
