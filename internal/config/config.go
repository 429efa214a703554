package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const appName = "gridtui"

type SavedConnection struct {
	Name     string `json:"name"`
	Host     string `json:"host,omitempty"`
	Port     string `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// GridPrefs are the user's table defaults.
type GridPrefs struct {
	PageSize       int   `json:"page_size,omitempty"`
	PageSizes      []int `json:"page_sizes,omitempty"`
	DebounceMillis int   `json:"debounce_ms,omitempty"`
	// Margin is the popover distance from the viewport edge in cells.
	Margin   int `json:"popover_margin,omitempty"`
	RowLimit int `json:"row_limit,omitempty"`
}

type Config struct {
	Connections []SavedConnection `json:"connections"`
	Grid        GridPrefs         `json:"grid"`

	path string
}

// DefaultGridPrefs returns the built-in preferences.
func DefaultGridPrefs() GridPrefs {
	return GridPrefs{
		PageSize:       10,
		PageSizes:      []int{10, 25, 50, 100},
		DebounceMillis: 250,
		Margin:         1,
		RowLimit:       10000,
	}
}

// Debounce returns the search debounce delay.
func (g GridPrefs) Debounce() time.Duration {
	return time.Duration(g.DebounceMillis) * time.Millisecond
}

// withDefaults fills unset or invalid fields from DefaultGridPrefs.
func (g GridPrefs) withDefaults() GridPrefs {
	def := DefaultGridPrefs()
	sizes := slices.DeleteFunc(slices.Clone(g.PageSizes), func(n int) bool { return n <= 0 })
	if len(sizes) == 0 {
		sizes = def.PageSizes
	}
	slices.Sort(sizes)
	g.PageSizes = slices.Compact(sizes)
	if g.PageSize <= 0 {
		g.PageSize = def.PageSize
	}
	if !slices.Contains(g.PageSizes, g.PageSize) {
		g.PageSizes = append(g.PageSizes, g.PageSize)
		slices.Sort(g.PageSizes)
	}
	if g.DebounceMillis <= 0 {
		g.DebounceMillis = def.DebounceMillis
	}
	if g.Margin < 0 {
		g.Margin = def.Margin
	}
	if g.RowLimit <= 0 {
		g.RowLimit = def.RowLimit
	}
	return g
}

// DefaultPath returns ~/.config/gridtui/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.json"), nil
}

// Load reads the config from DefaultPath.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return &Config{Grid: DefaultGridPrefs()}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path, Grid: DefaultGridPrefs()}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return &Config{path: path, Grid: DefaultGridPrefs()}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Grid = cfg.Grid.withDefaults()
	return cfg, nil
}

// Path returns where Save writes.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Add inserts conn, replacing a saved connection with the same name.
func (c *Config) Add(conn SavedConnection) {
	for i, existing := range c.Connections {
		if existing.Name == conn.Name {
			c.Connections[i] = conn
			return
		}
	}
	c.Connections = append(c.Connections, conn)
}

// Find returns the saved connection called name.
func (c *Config) Find(name string) (SavedConnection, bool) {
	for _, conn := range c.Connections {
		if conn.Name == name {
			return conn, true
		}
	}
	return SavedConnection{}, false
}

func (c *Config) Delete(index int) {
	if index < 0 || index >= len(c.Connections) {
		return
	}
	c.Connections = slices.Delete(c.Connections, index, index+1)
}
