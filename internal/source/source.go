// Package source loads datasets for the grid from files, the built-in demo
// and (through internal/db) PostgreSQL tables.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gridtui/internal/grid"
)

var (
	// ErrNotArray is returned when a JSON dataset is not an array of objects.
	ErrNotArray = errors.New("dataset is not an array of objects")
	// ErrMissingID is returned when a row has no usable id.
	ErrMissingID = errors.New("row has no id")
	// ErrInvalidID is returned when an id is neither a string nor an integer.
	ErrInvalidID = errors.New("id must be a string or an integer")
	// ErrDuplicateID is returned when two rows share an id.
	ErrDuplicateID = errors.New("duplicate row id")
)

// IDKey is the field that carries the row identity in file datasets.
const IDKey = "id"

// Dataset is a loaded table ready for grid.New.
type Dataset struct {
	Name        string
	Columns     []grid.Column
	Rows        []grid.Row
	InitialSort *grid.SortSpec
}

// Loader produces a dataset. Load is called again on refresh.
type Loader interface {
	Name() string
	Load(ctx context.Context) (*Dataset, error)
}

// DateLayout is how date cells are displayed.
const DateLayout = "1/2/2006"

// RenderDate shows a date cell as a local calendar date.
func RenderDate(v any, _ grid.Row) string {
	if !grid.Truthy(v) {
		return ""
	}
	ms, ok := grid.ParseDate(v)
	if !ok {
		return grid.Stringify(v)
	}
	return time.UnixMilli(int64(ms)).Local().Format(DateLayout)
}

// RenderYesNo shows a boolean cell as Yes or No.
func RenderYesNo(v any, _ grid.Row) string {
	if grid.Truthy(v) {
		return "Yes"
	}
	return "No"
}

// Renderer returns the default renderer for a column type, or nil.
func Renderer(t grid.ColumnType) grid.Renderer {
	switch t {
	case grid.TypeDate:
		return RenderDate
	case grid.TypeBoolean:
		return RenderYesNo
	}
	return nil
}

// NewColumn builds a sortable, filterable column with a humanized header and
// the default renderer for its type.
func NewColumn(key string, t grid.ColumnType) grid.Column {
	return grid.Column{
		Key:        key,
		Header:     Humanize(key),
		Sortable:   true,
		Filterable: true,
		Type:       t,
		Render:     Renderer(t),
	}
}

// Humanize turns a field key such as "firstName" or "start_date" into a
// header such as "First Name" or "Start Date".
func Humanize(key string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	if len(words) == 0 {
		return key
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// looksLikeDate reports whether s parses as a date and is long enough not to
// be a bare number.
func looksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return false
	}
	_, ok := grid.ParseDate(s)
	return ok
}

// inferType picks a column type from decoded values. nil is ignored; a
// column with no values is a string column.
func inferType(values []any) grid.ColumnType {
	var seen, bools, nums, dates int
	for _, v := range values {
		switch x := v.(type) {
		case nil:
			continue
		case bool:
			bools++
		case float64, int64, int:
			nums++
		case json.Number:
			nums++
		case string:
			if looksLikeDate(x) {
				dates++
			}
		}
		seen++
	}
	switch {
	case seen == 0:
		return grid.TypeString
	case bools == seen:
		return grid.TypeBoolean
	case nums == seen:
		return grid.TypeNumber
	case dates == seen:
		return grid.TypeDate
	}
	return grid.TypeString
}

// checkIDs rejects duplicate ids.
func checkIDs(rows []grid.Row) error {
	seen := make(map[grid.ID]struct{}, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("id %s: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
