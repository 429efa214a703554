package grid

import (
	"fmt"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 10

// PageSizes are the page sizes offered by the page-size picker.
var PageSizes = []int{10, 25, 50, 100}

// Options configures a new State.
type Options struct {
	InitialSort *SortSpec
	PageSize    int
	// OnSelectionChange receives the full ordered selection after every change.
	OnSelectionChange func(ids []ID)
}

// View is the derived, render-ready result of the current State.
type View struct {
	Rows      []Row // current page
	Filtered  []Row // full ordered result, before paging
	Total     int
	Page      int
	PageCount int
	PageSize  int
	// PadCount is the number of blank rows that keep the page at a fixed height.
	PadCount int
	// Coverage of the current page by the selection (drives the header box).
	Coverage Coverage
}

// State holds every live input of the grid and derives a View from them.
// Each mutation bumps a revision; View recomputes only when it changed.
type State struct {
	columns []Column
	rows    []Row

	searchInput  string
	search       string
	textFilters  map[string]string
	valueFilters map[string]ValueSet
	sort         *SortSpec
	selection    *Selection
	onlySelected bool
	visible      map[string]bool

	page     int
	pageSize int

	onSelectionChange func([]ID)

	rev       uint64
	viewRev   uint64
	view      View
	uniqueRev uint64
	dataRev   uint64
	unique    map[string][]string
}

// New builds a State. Nil columns or rows are treated as empty.
func New(columns []Column, rows []Row, opts Options) *State {
	s := &State{
		textFilters:       make(map[string]string),
		valueFilters:      make(map[string]ValueSet),
		selection:         NewSelection(),
		page:              1,
		pageSize:          opts.PageSize,
		onSelectionChange: opts.OnSelectionChange,
		rev:               1,
		dataRev:           1,
	}
	if s.pageSize < 1 {
		s.pageSize = DefaultPageSize
	}
	if opts.InitialSort != nil {
		spec := *opts.InitialSort
		s.sort = &spec
	}
	s.columns = columns
	s.rows = rows
	s.visible = make(map[string]bool, len(columns))
	for _, c := range columns {
		s.visible[c.Key] = true
	}
	return s
}

func (s *State) touch() {
	s.rev++
}

// resetPage moves back to the first page after a query-shaping change.
func (s *State) resetPage() {
	s.page = 1
	s.touch()
}

// Columns returns the column definitions.
func (s *State) Columns() []Column {
	return s.columns
}

// Rows returns the full dataset.
func (s *State) Rows() []Row {
	return s.rows
}

// Column looks up a column definition by key.
func (s *State) Column(key string) (Column, bool) {
	for _, c := range s.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// SetRows replaces the dataset. The selection is kept as is.
func (s *State) SetRows(rows []Row) {
	s.rows = rows
	s.dataRev++
	s.touch()
}

// SetColumns replaces the column definitions. The visible set is intersected
// with the new keys; keys that are new to the schema start visible.
func (s *State) SetColumns(columns []Column) {
	known := make(map[string]bool, len(s.columns))
	for _, c := range s.columns {
		known[c.Key] = true
	}
	visible := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !known[c.Key] || s.visible[c.Key] {
			visible[c.Key] = true
		}
	}
	s.columns = columns
	s.visible = visible
	s.dataRev++
	s.touch()
}

// SearchInput returns the raw search text as typed.
func (s *State) SearchInput() string {
	return s.searchInput
}

// Search returns the committed (debounced) search text.
func (s *State) Search() string {
	return s.search
}

// SetSearchInput records the raw search text for echo. It does not refilter.
func (s *State) SetSearchInput(text string) {
	s.searchInput = text
}

// CommitSearch makes text the search used by the pipeline.
func (s *State) CommitSearch(text string) {
	if text == s.search {
		return
	}
	s.search = text
	s.resetPage()
}

// TextFilter returns the text filter of a column.
func (s *State) TextFilter(key string) string {
	return s.textFilters[key]
}

// SetTextFilter sets the text filter of a column. Empty text removes it.
func (s *State) SetTextFilter(key, text string) {
	if s.textFilters[key] == text {
		return
	}
	if text == "" {
		delete(s.textFilters, key)
	} else {
		s.textFilters[key] = text
	}
	s.resetPage()
}

// ValueFilter returns the accepted values of a column and whether a value
// filter is present.
func (s *State) ValueFilter(key string) (ValueSet, bool) {
	set, ok := s.valueFilters[key]
	return set, ok
}

// SetValueFilter installs a value filter. An empty set is kept and matches
// no rows; use ClearValueFilter to remove the constraint.
func (s *State) SetValueFilter(key string, values ValueSet) {
	if values == nil {
		values = ValueSet{}
	}
	s.valueFilters[key] = values.Clone()
	s.resetPage()
}

// ClearValueFilter removes the value filter of a column.
func (s *State) ClearValueFilter(key string) {
	if _, ok := s.valueFilters[key]; !ok {
		return
	}
	delete(s.valueFilters, key)
	s.resetPage()
}

// Sort returns the active sort, or nil.
func (s *State) Sort() *SortSpec {
	if s.sort == nil {
		return nil
	}
	spec := *s.sort
	return &spec
}

// SetSort replaces the active sort.
func (s *State) SetSort(spec *SortSpec) {
	if spec != nil {
		cp := *spec
		spec = &cp
	}
	s.sort = spec
	s.resetPage()
}

// ToggleHeaderSort advances the sort cycle of the column with key.
func (s *State) ToggleHeaderSort(key string) {
	col, ok := s.Column(key)
	if !ok || !col.Sortable {
		return
	}
	s.SetSort(ToggleHeaderSort(s.sort, col))
}

// ToggleSelectionSort advances the selection grouping sort.
func (s *State) ToggleSelectionSort() {
	s.SetSort(ToggleSelectionSort(s.sort))
}

// OnlySelected reports whether only selected rows are shown.
func (s *State) OnlySelected() bool {
	return s.onlySelected
}

// SetOnlySelected scopes the view to selected rows.
func (s *State) SetOnlySelected(on bool) {
	if s.onlySelected == on {
		return
	}
	s.onlySelected = on
	s.touch()
}

// ToggleOnlySelected flips the only-selected scope.
func (s *State) ToggleOnlySelected() {
	s.SetOnlySelected(!s.onlySelected)
}

// Selection returns a copy of the current selection.
func (s *State) Selection() *Selection {
	return s.selection.Clone()
}

// IsSelected reports whether the row with id is selected.
func (s *State) IsSelected(id ID) bool {
	return s.selection.Has(id)
}

// ToggleRow flips the selection of one row.
func (s *State) ToggleRow(id ID) {
	s.selection.Toggle(id)
	s.selectionChanged()
}

// ToggleAllVisible selects or deselects exactly the rows of the current page.
func (s *State) ToggleAllVisible() {
	v := s.View()
	ids := make([]ID, len(v.Rows))
	for i, r := range v.Rows {
		ids[i] = r.ID
	}
	if s.selection.ToggleAllVisible(ids) {
		s.selectionChanged()
	}
}

// ClearSelection deselects everything.
func (s *State) ClearSelection() {
	if s.selection.Len() == 0 {
		return
	}
	s.selection = NewSelection()
	s.selectionChanged()
}

func (s *State) selectionChanged() {
	// the selection feeds only-selected scoping and selection sorting
	s.touch()
	if s.onSelectionChange != nil {
		s.onSelectionChange(s.selection.IDs())
	}
}

// IsColumnVisible reports whether the column with key is rendered.
func (s *State) IsColumnVisible(key string) bool {
	return s.visible[key]
}

// VisibleColumns returns the rendered columns in definition order.
func (s *State) VisibleColumns() []Column {
	out := make([]Column, 0, len(s.columns))
	for _, c := range s.columns {
		if s.visible[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

// SetVisibleColumns replaces the visible set. Unknown keys are dropped.
func (s *State) SetVisibleColumns(keys []string) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	visible := make(map[string]bool, len(keys))
	for _, c := range s.columns {
		if want[c.Key] {
			visible[c.Key] = true
		}
	}
	s.visible = visible
	s.touch()
}

// ToggleColumnVisible flips the visibility of one column.
func (s *State) ToggleColumnVisible(key string) {
	if _, ok := s.Column(key); !ok {
		return
	}
	if s.visible[key] {
		delete(s.visible, key)
	} else {
		s.visible[key] = true
	}
	s.touch()
}

// ShowAllColumns makes every column visible.
func (s *State) ShowAllColumns() {
	for _, c := range s.columns {
		s.visible[c.Key] = true
	}
	s.touch()
}

// PageSize returns the rows per page.
func (s *State) PageSize() int {
	return s.pageSize
}

// SetPageSize changes the rows per page and returns to the first page.
func (s *State) SetPageSize(n int) {
	if n < 1 || n == s.pageSize {
		return
	}
	s.pageSize = n
	s.resetPage()
}

// SetPage moves to page n, clamped to the valid range.
func (s *State) SetPage(n int) {
	count := PageCount(len(s.View().Filtered), s.pageSize)
	n = ClampPage(n, count)
	if n == s.page {
		return
	}
	s.page = n
	s.touch()
}

// FirstPage moves to page 1.
func (s *State) FirstPage() { s.SetPage(1) }

// PrevPage moves one page back.
func (s *State) PrevPage() { s.SetPage(s.View().Page - 1) }

// NextPage moves one page forward.
func (s *State) NextPage() { s.SetPage(s.View().Page + 1) }

// LastPage moves to the last page.
func (s *State) LastPage() { s.SetPage(s.View().PageCount) }

// ClearFilters resets search, text and value filters, sort and the
// only-selected scope, and returns to the first page. Selection is kept.
func (s *State) ClearFilters() {
	s.searchInput = ""
	s.search = ""
	s.textFilters = make(map[string]string)
	s.valueFilters = make(map[string]ValueSet)
	s.sort = nil
	s.onlySelected = false
	s.resetPage()
}

// HasFilters reports whether any narrowing input is active.
func (s *State) HasFilters() bool {
	return s.search != "" || len(s.textFilters) > 0 || len(s.valueFilters) > 0 || s.onlySelected
}

// Query returns the pipeline inputs as they currently stand.
func (s *State) Query() Query {
	return Query{
		Search:       s.search,
		TextFilters:  s.textFilters,
		ValueFilters: s.valueFilters,
		Selection:    s.selection,
		OnlySelected: s.onlySelected,
		Sort:         s.sort,
	}
}

// View derives the current page. The result is cached until the next mutation.
func (s *State) View() View {
	if s.viewRev == s.rev {
		return s.view
	}

	filtered := Apply(s.rows, s.columns, s.Query())
	count := PageCount(len(filtered), s.pageSize)
	s.page = ClampPage(s.page, count)
	page := Paginate(filtered, s.page, s.pageSize)

	ids := make([]ID, len(page))
	for i, r := range page {
		ids[i] = r.ID
	}

	pad := s.pageSize - len(page)
	if len(filtered) == 0 {
		// the empty-state message takes one line
		pad = s.pageSize - 1
	}
	if pad < 0 {
		pad = 0
	}

	s.view = View{
		Rows:      page,
		Filtered:  filtered,
		Total:     len(filtered),
		Page:      s.page,
		PageCount: count,
		PageSize:  s.pageSize,
		PadCount:  pad,
		Coverage:  s.selection.Coverage(ids),
	}
	s.viewRev = s.rev
	return s.view
}

// UniqueValues returns the distinct values per filterable column, cached
// until rows or columns change.
func (s *State) UniqueValues() map[string][]string {
	if s.unique == nil || s.uniqueRev != s.dataRev {
		s.unique = UniqueValues(s.columns, s.rows)
		s.uniqueRev = s.dataRev
	}
	return s.unique
}

// RangeLabel renders the "a to b of n" footer text.
func (s *State) RangeLabel() string {
	return RangeLabel(s.View())
}

// RangeLabel renders the "a to b of n" footer text for v.
func RangeLabel(v View) string {
	if v.Total == 0 {
		return "0 to 0 of 0"
	}
	from := (v.Page-1)*v.PageSize + 1
	to := v.Page * v.PageSize
	if to > v.Total {
		to = v.Total
	}
	return fmt.Sprintf("%d to %d of %d", from, to, v.Total)
}
