package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gridtui/internal/grid"
)

// CSVFile loads a table from a CSV file with a header row. A column named
// "id" supplies row ids; otherwise rows are numbered from 1.
type CSVFile struct {
	Path  string
	Comma rune
}

func (f CSVFile) Name() string {
	return filepath.Base(f.Path)
}

func (f CSVFile) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	ds, err := ReadCSV(file, f.Comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	ds.Name = f.Name()
	return ds, nil
}

// ReadCSV decodes a dataset from r. A zero comma means ','.
func ReadCSV(r io.Reader, comma rune) (*Dataset, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	idCol := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if idCol < 0 && strings.EqualFold(header[i], IDKey) {
			idCol = i
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}

	rows := make([]grid.Row, len(records))
	for i, rec := range records {
		id := grid.IntID(int64(i + 1))
		if idCol >= 0 {
			raw := strings.TrimSpace(rec[idCol])
			if raw == "" {
				return nil, fmt.Errorf("row %d: %w", i+1, ErrMissingID)
			}
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				id = grid.IntID(n)
			} else {
				id = grid.StringID(raw)
			}
		}
		rows[i] = grid.Row{ID: id, Values: make(map[string]any, len(header))}
	}
	if err := checkIDs(rows); err != nil {
		return nil, err
	}

	var columns []grid.Column
	for c, key := range header {
		t := csvType(records, c)
		for i, rec := range records {
			rows[i].Values[key] = csvValue(rec[c], t)
		}
		if c == idCol {
			continue
		}
		columns = append(columns, NewColumn(key, t))
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

// csvType infers the type of column c from its non-empty cells.
func csvType(records [][]string, c int) grid.ColumnType {
	var seen, nums, bools, dates int
	for _, rec := range records {
		cell := strings.TrimSpace(rec[c])
		if cell == "" {
			continue
		}
		seen++
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			nums++
		}
		if _, err := strconv.ParseBool(cell); err == nil && !isDigits(cell) {
			bools++
		}
		if looksLikeDate(cell) {
			dates++
		}
	}
	switch {
	case seen == 0:
		return grid.TypeString
	case nums == seen:
		return grid.TypeNumber
	case bools == seen:
		return grid.TypeBoolean
	case dates == seen:
		return grid.TypeDate
	}
	return grid.TypeString
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func csvValue(cell string, t grid.ColumnType) any {
	trimmed := strings.TrimSpace(cell)
	switch t {
	case grid.TypeNumber:
		if trimmed == "" {
			return nil
		}
		f, _ := strconv.ParseFloat(trimmed, 64)
		return f
	case grid.TypeBoolean:
		if trimmed == "" {
			return nil
		}
		b, _ := strconv.ParseBool(trimmed)
		return b
	case grid.TypeDate:
		if trimmed == "" {
			return nil
		}
		return trimmed
	}
	return cell
}

// WriteCSV writes rows as CSV: the id first, then one column per entry of
// columns, using raw values rather than rendered ones.
func WriteCSV(w io.Writer, columns []grid.Column, rows []grid.Row) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(columns)+1)
	header = append(header, IDKey)
	for _, c := range columns {
		header = append(header, c.Header)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, r := range rows {
		rec[0] = r.ID.String()
		for i, c := range columns {
			rec[i+1] = grid.Stringify(r.Get(c.Key))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
