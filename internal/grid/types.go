package grid

import (
	"strconv"
)

// ColumnType controls how a column is compared and filtered.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// ID identifies a row. It is either a string or an integer and is comparable,
// so it can key maps directly.
type ID struct {
	str   string
	num   int64
	isNum bool
}

// StringID returns a string row ID.
func StringID(s string) ID {
	return ID{str: s}
}

// IntID returns an integer row ID.
func IntID(n int64) ID {
	return ID{num: n, isNum: true}
}

// IsInt reports whether the ID holds an integer.
func (id ID) IsInt() bool {
	return id.isNum
}

// Int returns the integer value of the ID (zero for string IDs).
func (id ID) Int() int64 {
	return id.num
}

func (id ID) String() string {
	if id.isNum {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// Row is an opaque record owned by the host. The engine only reads it.
type Row struct {
	ID     ID
	Values map[string]any
}

// Get returns the value stored under key, or nil when absent.
func (r Row) Get(key string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[key]
}

// Renderer formats a cell value for display.
type Renderer func(value any, row Row) string

// Column describes one field of the dataset.
type Column struct {
	Key        string
	Header     string
	Sortable   bool
	Filterable bool
	Type       ColumnType
	Render     Renderer
}

// Kind returns the column type, defaulting to string.
func (c Column) Kind() ColumnType {
	if c.Type == "" {
		return TypeString
	}
	return c.Type
}

// Format renders a cell of this column for row.
func (c Column) Format(row Row) string {
	v := row.Get(c.Key)
	if c.Render != nil {
		return c.Render(v, row)
	}
	return Stringify(v)
}

// Direction is the sort order of a SortSpec.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SelectionKey is the reserved sort key that groups rows by selection state.
const SelectionKey = "__selection__"

// SortSpec is the single active sort. A nil *SortSpec means unsorted.
type SortSpec struct {
	Key       string
	Direction Direction
}

// Query bundles every input of the filtering pipeline.
type Query struct {
	Search       string
	TextFilters  map[string]string
	ValueFilters map[string]ValueSet
	Selection    *Selection
	OnlySelected bool
	Sort         *SortSpec
}

// ValueSet is the set of accepted stringified values of a value filter.
type ValueSet map[string]struct{}

// NewValueSet builds a ValueSet from values.
func NewValueSet(values ...string) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is accepted.
func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Clone returns an independent copy of the set.
func (s ValueSet) Clone() ValueSet {
	out := make(ValueSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}
