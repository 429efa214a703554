package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridtui/internal/app"
	"gridtui/internal/config"
	"gridtui/internal/db"
	"gridtui/internal/source"
	"gridtui/internal/ui"
)

// ---------------------------------------------------------------------------
// pickerModel – choose from saved connections
// ---------------------------------------------------------------------------

type pickerModel struct {
	cfg        *config.Config
	cursor     int
	err        string
	connecting bool
	done       bool
	db         *db.DB
	tables     []string
}

type connectResultMsg struct {
	db     *db.DB
	tables []string
	err    error
}

func newPickerModel(cfg *config.Config) pickerModel {
	return pickerModel{cfg: cfg}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.connecting {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.cfg.Connections)-1 {
				m.cursor++
			}
		case "d", "x":
			if len(m.cfg.Connections) == 0 {
				return m, nil
			}
			m.cfg.Delete(m.cursor)
			if err := m.cfg.Save(); err != nil {
				m.err = err.Error()
			}
			if m.cursor >= len(m.cfg.Connections) && m.cursor > 0 {
				m.cursor--
			}
			if len(m.cfg.Connections) == 0 {
				return m, tea.Quit
			}
		case "enter":
			if len(m.cfg.Connections) == 0 {
				return m, nil
			}
			m.connecting = true
			m.err = ""
			return m, connectSaved(m.cfg.Connections[m.cursor])
		}

	case connectResultMsg:
		m.connecting = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.done = true
		m.db = msg.db
		m.tables = msg.tables
		return m, tea.Quit
	}

	return m, nil
}

func (m pickerModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorAccent).
		Bold(true).
		MarginBottom(1)

	var b strings.Builder

	b.WriteString(titleStyle.Render("gridtui - Saved Connections"))
	b.WriteString("\n\n")

	for i, conn := range m.cfg.Connections {
		display := conn.Name
		if conn.URI != "" {
			display += ui.DimText.Render("  " + redactURI(conn.URI))
		} else {
			display += ui.DimText.Render(fmt.Sprintf("  %s@%s:%s/%s", conn.User, conn.Host, conn.Port, conn.Database))
		}

		if i == m.cursor {
			b.WriteString(ui.AccentText.Bold(true).Render("  ▸ " + display))
		} else {
			b.WriteString("    " + display)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(ui.ErrorText.Render(fmt.Sprintf("  Connection failed: %s", m.err)))
		b.WriteString("\n\n")
	}

	if m.connecting {
		b.WriteString(ui.DimText.Render("  Connecting..."))
	} else {
		b.WriteString(ui.DimText.Render("  Enter to connect | d delete | q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// redactURI hides the password of a connection URI.
func redactURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	scheme := strings.Index(uri, "://")
	if at < 0 || scheme < 0 {
		return uri
	}
	creds := uri[scheme+3 : at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		return uri[:scheme+3] + user + ":***" + uri[at:]
	}
	return uri
}

func connectSaved(conn config.SavedConnection) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var d *db.DB
		var err error
		if conn.URI != "" {
			d, err = db.ConnectURI(ctx, conn.URI)
		} else {
			d, err = db.Connect(ctx, conn.Host, conn.Port, conn.User, conn.Password, conn.Database)
		}
		if err != nil {
			return connectResultMsg{err: err}
		}
		tables, err := d.ListTables(ctx)
		if err != nil {
			d.Close()
			return connectResultMsg{err: fmt.Errorf("failed to list tables: %w", err)}
		}
		return connectResultMsg{db: d, tables: tables}
	}
}

// ---------------------------------------------------------------------------
// main
// ---------------------------------------------------------------------------

type flags struct {
	jsonPath   string
	csvPath    string
	csvComma   string
	uri        string
	table      string
	connName   string
	saveAs     string
	configPath string
	pageSize   int
	debug      bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.jsonPath, "json", "", "load rows from a JSON array file")
	flag.StringVar(&f.csvPath, "csv", "", "load rows from a CSV file")
	flag.StringVar(&f.csvComma, "comma", ",", "CSV field separator")
	flag.StringVar(&f.uri, "db", "", "PostgreSQL connection URI")
	flag.StringVar(&f.table, "table", "", "table to open after connecting")
	flag.StringVar(&f.connName, "conn", "", "saved connection to use")
	flag.StringVar(&f.saveAs, "save", "", "save the -db connection under this name")
	flag.StringVar(&f.configPath, "config", "", "config file (default ~/.config/gridtui/config.json)")
	flag.IntVar(&f.pageSize, "page-size", 0, "initial rows per page")
	flag.BoolVar(&f.debug, "debug", false, "write a debug log to gridtui.log")
	flag.Parse()
	return f
}

func setupLogging(debug bool) (io.Closer, error) {
	if !debug && os.Getenv("GRIDTUI_DEBUG") == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	}
	f, err := tea.LogToFile("gridtui.log", "gridtui")
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f, nil
}

func loadConfig(path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Warn("config ignored", "err", err)
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return cfg
}

var errNoConnection = errors.New("no saved connections; pass -db postgres://...")

// connect opens the database named by the flags, showing the picker when no
// connection was given.
func connect(f flags, cfg *config.Config) (*db.DB, []string, error) {
	ctx := context.Background()

	if f.uri != "" {
		d, err := db.ConnectURI(ctx, f.uri)
		if err != nil {
			return nil, nil, err
		}
		if f.saveAs != "" {
			cfg.Add(config.SavedConnection{Name: f.saveAs, URI: f.uri})
			if err := cfg.Save(); err != nil {
				slog.Warn("save connection", "err", err)
			}
		}
		tables, err := d.ListTables(ctx)
		if err != nil {
			d.Close()
			return nil, nil, fmt.Errorf("failed to list tables: %w", err)
		}
		return d, tables, nil
	}

	if f.connName != "" {
		conn, ok := cfg.Find(f.connName)
		if !ok {
			return nil, nil, fmt.Errorf("no saved connection named %q", f.connName)
		}
		msg := connectSaved(conn)()
		res := msg.(connectResultMsg)
		return res.db, res.tables, res.err
	}

	if len(cfg.Connections) == 0 {
		return nil, nil, errNoConnection
	}
	result, err := tea.NewProgram(newPickerModel(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, nil, err
	}
	pm, ok := result.(pickerModel)
	if !ok || !pm.done {
		return nil, nil, nil
	}
	return pm.db, pm.tables, nil
}

func main() {
	f := parseFlags()

	logFile, err := setupLogging(f.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	cfg := loadConfig(f.configPath)
	if f.pageSize > 0 {
		cfg.Grid.PageSize = f.pageSize
	}

	opts := app.Options{Config: cfg}
	switch {
	case f.jsonPath != "":
		opts.Loader = source.JSONFile{Path: f.jsonPath}
	case f.csvPath != "":
		comma := []rune(f.csvComma)
		if len(comma) != 1 {
			fmt.Fprintln(os.Stderr, "Error: -comma must be a single character")
			os.Exit(2)
		}
		opts.Loader = source.CSVFile{Path: f.csvPath, Comma: comma[0]}
	case f.uri != "" || f.connName != "" || f.table != "":
		database, tables, err := connect(f, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if database == nil {
			return
		}
		defer database.Close()
		opts.DB = database
		opts.Tables = tables
		if f.table != "" {
			opts.Loader = db.Table{DB: database, Table: f.table, Limit: cfg.Grid.RowLimit}
		}
	default:
		opts.Loader = source.Demo{}
	}

	slog.Info("starting", "args", os.Args[1:])
	p := tea.NewProgram(app.NewModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
