package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridtui/internal/grid"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestJSONFileLoad(t *testing.T) {
	path := writeFile(t, "people.json", `[
		{"id": 1, "name": "Ava", "age": 30, "joined": "2021-03-04", "active": true},
		{"id": "b-2", "name": "Ben", "age": 20.5, "joined": null, "active": false, "team": "core"}
	]`)

	ds, err := JSONFile{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Name != "people.json" {
		t.Errorf("unexpected name %q", ds.Name)
	}

	want := []struct {
		key string
		typ grid.ColumnType
	}{
		{"name", grid.TypeString},
		{"age", grid.TypeNumber},
		{"joined", grid.TypeDate},
		{"active", grid.TypeBoolean},
		{"team", grid.TypeString},
	}
	if len(ds.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(ds.Columns))
	}
	for i, w := range want {
		if ds.Columns[i].Key != w.key || ds.Columns[i].Type != w.typ {
			t.Errorf("column %d: got %s/%s, want %s/%s", i, ds.Columns[i].Key, ds.Columns[i].Type, w.key, w.typ)
		}
	}

	if ds.Rows[0].ID != grid.IntID(1) || ds.Rows[1].ID != grid.StringID("b-2") {
		t.Fatalf("unexpected ids %v %v", ds.Rows[0].ID, ds.Rows[1].ID)
	}
	if got := ds.Rows[1].Get("age"); got != 20.5 {
		t.Errorf("numbers should decode to float64, got %#v", got)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"object", `{"id": 1}`, ErrNotArray},
		{"array of numbers", `[1, 2]`, ErrNotArray},
		{"empty input", ``, ErrNotArray},
		{"missing id", `[{"name": "x"}]`, ErrMissingID},
		{"null id", `[{"id": null}]`, ErrMissingID},
		{"fractional id", `[{"id": 1.5}]`, ErrInvalidID},
		{"boolean id", `[{"id": true}]`, ErrInvalidID},
		{"duplicate id", `[{"id": 1}, {"id": 1}]`, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReadJSONEmptyArray(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Rows) != 0 || len(ds.Columns) != 0 {
		t.Fatalf("expected empty dataset, got %+v", ds)
	}
}

func TestCSVFileLoad(t *testing.T) {
	path := writeFile(t, "scores.csv", "id,player,score,won,played\n"+
		"7,ava,12,true,2024-01-02\n"+
		"x9,ben,,false,2024-02-03\n")

	ds, err := CSVFile{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Columns) != 4 {
		t.Fatalf("id column should not be displayed, got %d columns", len(ds.Columns))
	}
	types := map[string]grid.ColumnType{}
	for _, c := range ds.Columns {
		types[c.Key] = c.Type
	}
	if types["score"] != grid.TypeNumber || types["won"] != grid.TypeBoolean || types["played"] != grid.TypeDate {
		t.Fatalf("unexpected inferred types %v", types)
	}
	if ds.Rows[0].ID != grid.IntID(7) || ds.Rows[1].ID != grid.StringID("x9") {
		t.Fatalf("unexpected ids %v %v", ds.Rows[0].ID, ds.Rows[1].ID)
	}
	if ds.Rows[1].Get("score") != nil {
		t.Errorf("empty numeric cell should be nil, got %#v", ds.Rows[1].Get("score"))
	}
	if ds.Rows[0].Get("won") != true {
		t.Errorf("expected bool true, got %#v", ds.Rows[0].Get("won"))
	}
}

func TestReadCSVWithoutIDColumn(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("name;qty\nbolt;3\nnut;1\n"), ';')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Rows[0].ID != grid.IntID(1) || ds.Rows[1].ID != grid.IntID(2) {
		t.Fatalf("rows should be numbered from 1, got %v %v", ds.Rows[0].ID, ds.Rows[1].ID)
	}
	if ds.Columns[1].Header != "Qty" {
		t.Errorf("unexpected header %q", ds.Columns[1].Header)
	}
}

func TestReadCSVMissingID(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id,name\n,ghost\n"), 0)
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	cols := []grid.Column{
		{Key: "name", Header: "Name"},
		{Key: "note", Header: "Note"},
	}
	rows := []grid.Row{
		{ID: grid.IntID(1), Values: map[string]any{"name": "Ava", "note": "a, b"}},
		{ID: grid.StringID("z"), Values: map[string]any{"name": "Ben"}},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, cols, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "id,Name,Note\n1,Ava,\"a, b\"\nz,Ben,\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestDemoDataset(t *testing.T) {
	ds, err := Demo{}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Rows) != DemoRows {
		t.Fatalf("expected %d rows, got %d", DemoRows, len(ds.Rows))
	}
	if ds.InitialSort == nil || ds.InitialSort.Key != "firstName" {
		t.Fatal("demo should sort by first name")
	}

	first := ds.Rows[0]
	if first.Get("firstName") != "Ava" || first.Get("lastName") != "Ng" || first.Get("age") != 20 || first.Get("active") != true {
		t.Fatalf("unexpected first row %v", first.Values)
	}
	if got := ds.Rows[1].Get("age"); got != 27 {
		t.Fatalf("expected second age 27, got %v", got)
	}

	active := 0
	for _, r := range ds.Rows {
		if r.Get("active") == true {
			active++
		}
	}
	if active != 17 {
		t.Fatalf("expected 17 active people, got %d", active)
	}
}

func TestRenderers(t *testing.T) {
	local := time.Date(2020, 4, 6, 0, 0, 0, 0, time.Local)
	if got := RenderDate(local.UTC().Format(time.RFC3339), grid.Row{}); got != "4/6/2020" {
		t.Errorf("RenderDate = %q", got)
	}
	if got := RenderDate(nil, grid.Row{}); got != "" {
		t.Errorf("RenderDate(nil) = %q", got)
	}
	if RenderYesNo(true, grid.Row{}) != "Yes" || RenderYesNo(nil, grid.Row{}) != "No" {
		t.Error("RenderYesNo should map truthiness to Yes/No")
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"firstName":  "First Name",
		"start_date": "Start Date",
		"qty":        "Qty",
		"order-id":   "Order Id",
		"":           "",
	}
	for in, want := range tests {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
