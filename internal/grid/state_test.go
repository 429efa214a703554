package grid

import (
	"testing"
)

func TestStateDefensiveAgainstNilInput(t *testing.T) {
	s := New(nil, nil, Options{})
	v := s.View()
	if v.Total != 0 || v.Page != 1 || v.PageCount != 1 || len(v.Rows) != 0 {
		t.Fatalf("unexpected empty view: %+v", v)
	}
	if got := s.RangeLabel(); got != "0 to 0 of 0" {
		t.Fatalf("expected empty range label, got %q", got)
	}
	if v.PadCount != DefaultPageSize-1 {
		t.Fatalf("expected %d padding rows, got %d", DefaultPageSize-1, v.PadCount)
	}
}

func TestStatePaging(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{PageSize: 10})

	s.LastPage()
	v := s.View()
	if v.Page != 5 || v.PageCount != 5 {
		t.Fatalf("expected page 5 of 5, got %d of %d", v.Page, v.PageCount)
	}
	if got := s.RangeLabel(); got != "41 to 50 of 50" {
		t.Fatalf("unexpected range label %q", got)
	}

	s.NextPage()
	if s.View().Page != 5 {
		t.Fatal("next past the end should stay on the last page")
	}

	s.SetPageSize(25)
	if v := s.View(); v.Page != 1 || v.PageCount != 2 {
		t.Fatalf("page size change should reset to page 1, got %+v", v.Page)
	}

	s.SetPage(2)
	s.SetTextFilter("name", "ava")
	v = s.View()
	if v.Page != 1 {
		t.Fatalf("filter change should reset to page 1, got %d", v.Page)
	}
	if v.Total != 7 {
		t.Fatalf("expected 7 Avas, got %d", v.Total)
	}
	if v.PadCount != 25-7 {
		t.Fatalf("expected %d padding rows, got %d", 25-7, v.PadCount)
	}
}

func TestStateClampsWhenSelectionScopeShrinks(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{PageSize: 10})
	for i := int64(1); i <= 12; i++ {
		s.ToggleRow(IntID(i))
	}
	s.SetPage(4)
	s.SetOnlySelected(true)

	v := s.View()
	if v.PageCount != 2 || v.Page != 2 {
		t.Fatalf("expected clamp to page 2 of 2, got %d of %d", v.Page, v.PageCount)
	}
}

func TestStateSelectionSurvivesFilters(t *testing.T) {
	var notified [][]ID
	s := New(peopleColumns(), fiftyRows(), Options{
		OnSelectionChange: func(ids []ID) { notified = append(notified, ids) },
	})

	s.ToggleRow(IntID(2))
	s.SetTextFilter("name", "cara")
	for _, r := range s.View().Filtered {
		if r.ID == IntID(2) {
			t.Fatal("row 2 should be hidden by the filter")
		}
	}
	s.SetTextFilter("name", "")

	if !s.IsSelected(IntID(2)) {
		t.Fatal("selection must survive a filter round trip")
	}
	if len(notified) != 1 || len(notified[0]) != 1 || notified[0][0] != IntID(2) {
		t.Fatalf("expected one notification with id 2, got %v", notified)
	}
}

func TestStateToggleAllVisibleUsesCurrentPage(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{PageSize: 10})
	s.NextPage()
	s.ToggleAllVisible()

	sel := s.Selection()
	if sel.Len() != 10 || !sel.Has(IntID(11)) || !sel.Has(IntID(20)) || sel.Has(IntID(1)) {
		t.Fatalf("expected ids 11..20, got %v", sel.IDs())
	}
	if s.View().Coverage != CoverAll {
		t.Fatal("page should report full coverage")
	}

	s.ToggleAllVisible()
	if s.Selection().Len() != 0 {
		t.Fatalf("second toggle should clear the page, got %v", s.Selection().IDs())
	}
}

func TestStateSearchIsCommittedSeparately(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{})
	s.SetPage(3)

	s.SetSearchInput("hugo")
	if s.View().Total != 50 || s.View().Page != 3 {
		t.Fatal("raw search input must not refilter")
	}

	s.CommitSearch("hugo")
	v := s.View()
	if v.Total != 6 || v.Page != 1 {
		t.Fatalf("expected 6 Hugos on page 1, got %d on page %d", v.Total, v.Page)
	}
}

func TestStateSortCycle(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{InitialSort: &SortSpec{Key: "name", Direction: Asc}})
	if first := s.View().Rows[0]; first.Get("name") != "Ava" {
		t.Fatalf("initial sort should put Ava first, got %v", first.Get("name"))
	}

	s.ToggleHeaderSort("name")
	if sp := s.Sort(); sp == nil || sp.Direction != Desc {
		t.Fatalf("expected desc, got %+v", sp)
	}
	s.ToggleHeaderSort("name")
	if s.Sort() != nil {
		t.Fatal("expected no sort")
	}
	s.ToggleHeaderSort("missing")
	if s.Sort() != nil {
		t.Fatal("unknown column should be a no-op")
	}
}

func TestStateColumnVisibility(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{})

	s.SetVisibleColumns([]string{"active", "name", "bogus"})
	got := s.VisibleColumns()
	if len(got) != 2 || got[0].Key != "name" || got[1].Key != "active" {
		t.Fatalf("visible columns should follow definition order, got %v", got)
	}

	s.SetColumns([]Column{
		{Key: "name", Header: "Name"},
		{Key: "email", Header: "Email"},
	})
	got = s.VisibleColumns()
	if len(got) != 2 || got[0].Key != "name" || got[1].Key != "email" {
		t.Fatalf("unexpected visible columns after schema change: %v", got)
	}
	if s.IsColumnVisible("active") {
		t.Fatal("dropped key must disappear from the visible set")
	}

	s.ToggleColumnVisible("name")
	s.ShowAllColumns()
	if len(s.VisibleColumns()) != 2 {
		t.Fatal("show all should restore every column")
	}
}

func TestStateValueFilterLifecycle(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{})

	s.SetValueFilter("active", NewValueSet("true"))
	if s.View().Total != 17 {
		t.Fatalf("expected 17 rows, got %d", s.View().Total)
	}

	s.SetValueFilter("active", ValueSet{})
	if s.View().Total != 0 {
		t.Fatalf("empty value set should select nothing, got %d", s.View().Total)
	}

	s.ClearValueFilter("active")
	if s.View().Total != 50 {
		t.Fatalf("cleared filter should restore rows, got %d", s.View().Total)
	}
}

func TestStateClearFilters(t *testing.T) {
	s := New(peopleColumns(), fiftyRows(), Options{})
	s.ToggleRow(IntID(1))
	s.CommitSearch("ava")
	s.SetTextFilter("age", "20")
	s.SetValueFilter("active", NewValueSet("true"))
	s.SetOnlySelected(true)
	s.ToggleHeaderSort("age")

	s.ClearFilters()

	if s.HasFilters() || s.Sort() != nil || s.View().Total != 50 {
		t.Fatal("clear should drop every filter and the sort")
	}
	if !s.IsSelected(IntID(1)) {
		t.Fatal("clear must keep the selection")
	}
}

func TestStateUniqueValuesCached(t *testing.T) {
	s := New(peopleColumns(), samplePeople(), Options{})
	first := s.UniqueValues()
	s.SetTextFilter("name", "a")
	if second := s.UniqueValues(); len(second["name"]) != len(first["name"]) {
		t.Fatal("filters must not change unique values")
	}

	s.SetRows(fiftyRows())
	if got := s.UniqueValues()["name"]; len(got) != 8 {
		t.Fatalf("expected 8 names after new rows, got %v", got)
	}
}
