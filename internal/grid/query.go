package grid

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// UniqueValues returns, for every filterable column, the sorted distinct
// stringified values present in rows. It feeds the value-filter pickers.
func UniqueValues(columns []Column, rows []Row) map[string][]string {
	out := make(map[string][]string)
	for _, col := range columns {
		if !col.Filterable {
			continue
		}
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, row := range rows {
			s := stringifyFor(row.Get(col.Key), col.Kind())
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			values = append(values, s)
		}
		sort.Strings(values)
		out[col.Key] = values
	}
	return out
}

// Apply runs the filtering pipeline and returns the ordered, unpaginated rows.
// Stages run in a fixed order: global search, per-column filters, selection
// scoping, then a stable sort. The input slice is never modified.
func Apply(rows []Row, columns []Column, q Query) []Row {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if search != "" && !matchesSearch(row, columns, search) {
			continue
		}
		if !matchesFilters(row, columns, q.TextFilters, q.ValueFilters) {
			continue
		}
		if q.OnlySelected && !q.Selection.Has(row.ID) {
			continue
		}
		out = append(out, row)
	}

	if q.Sort != nil {
		sortRows(out, columns, *q.Sort, q.Selection)
	}
	return out
}

func matchesSearch(row Row, columns []Column, search string) bool {
	for _, col := range columns {
		if strings.Contains(normalize(row.Get(col.Key)), search) {
			return true
		}
	}
	return false
}

func matchesFilters(row Row, columns []Column, text map[string]string, values map[string]ValueSet) bool {
	for _, col := range columns {
		v := row.Get(col.Key)

		if picked, ok := values[col.Key]; ok {
			// a present but empty set accepts nothing
			if !picked.Has(stringifyFor(v, col.Kind())) {
				return false
			}
		}

		if !matchesText(v, col.Kind(), text[col.Key]) {
			return false
		}
	}
	return true
}

// matchesText applies a single per-column text filter. Numeric columns match
// on exact equality with the number-coerced value, so a non-numeric cell
// never matches a numeric filter.
func matchesText(v any, t ColumnType, filter string) bool {
	text := strings.ToLower(strings.TrimSpace(filter))
	if text == "" {
		return true
	}
	switch t {
	case TypeNumber:
		return formatNumber(ToNumber(v)) == text
	case TypeBoolean:
		return strconv.FormatBool(Truthy(v)) == text
	default:
		return strings.Contains(normalize(v), text)
	}
}

func sortRows(rows []Row, columns []Column, spec SortSpec, sel *Selection) {
	var cmp func(a, b Row) int
	if spec.Key == SelectionKey {
		cmp = func(a, b Row) int {
			return boolInt(sel.Has(a.ID)) - boolInt(sel.Has(b.ID))
		}
	} else {
		t := TypeString
		for _, col := range columns {
			if col.Key == spec.Key {
				t = col.Kind()
				break
			}
		}
		collator := NewCollator()
		cmp = func(a, b Row) int {
			return Compare(a.Get(spec.Key), b.Get(spec.Key), t, collator)
		}
	}
	if spec.Direction == Desc {
		asc := cmp
		cmp = func(a, b Row) int { return -asc(a, b) }
	}
	slices.SortStableFunc(rows, cmp)
}

// PageCount returns max(1, ceil(n/pageSize)).
func PageCount(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces page into [1, pageCount].
func ClampPage(page, pageCount int) int {
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns rows[(page-1)*pageSize : page*pageSize]. Callers clamp
// page first; out-of-range pages yield an empty slice rather than a panic.
func Paginate(rows []Row, page, pageSize int) []Row {
	if pageSize < 1 || page < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// ToggleHeaderSort cycles a column through none → asc → desc → none.
// Another column always starts at asc; non-sortable columns are a no-op.
func ToggleHeaderSort(current *SortSpec, col Column) *SortSpec {
	if !col.Sortable {
		return current
	}
	if current == nil || current.Key != col.Key {
		return &SortSpec{Key: col.Key, Direction: Asc}
	}
	if current.Direction == Asc {
		return &SortSpec{Key: col.Key, Direction: Desc}
	}
	return nil
}

// ToggleSelectionSort cycles the selection grouping through
// none → desc (selected first) → asc → none.
func ToggleSelectionSort(current *SortSpec) *SortSpec {
	if current == nil || current.Key != SelectionKey {
		return &SortSpec{Key: SelectionKey, Direction: Desc}
	}
	if current.Direction == Desc {
		return &SortSpec{Key: SelectionKey, Direction: Asc}
	}
	return nil
}
