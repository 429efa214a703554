package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gridtui/internal/grid"
)

// JSONFile loads an array of objects from a file. Every object needs an
// "id" that is a string or an integer; the remaining keys become columns in
// first-seen order.
type JSONFile struct {
	Path string
}

func (f JSONFile) Name() string {
	return filepath.Base(f.Path)
}

func (f JSONFile) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	ds, err := ReadJSON(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	ds.Name = f.Name()
	return ds, nil
}

// ReadJSON decodes a dataset from r.
func ReadJSON(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		keys []string
		seen = map[string]bool{}
		rows []grid.Row
	)
	for dec.More() {
		values, order, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+1, err)
		}
		id, err := jsonID(values[IDKey])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+1, err)
		}
		for _, k := range order {
			if k != IDKey && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		rows = append(rows, grid.Row{ID: id, Values: values})
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if err := checkIDs(rows); err != nil {
		return nil, err
	}

	columns := make([]grid.Column, 0, len(keys))
	for _, k := range keys {
		values := make([]any, len(rows))
		for i, r := range rows {
			values[i] = r.Values[k]
		}
		t := inferType(values)
		if t == grid.TypeNumber {
			for _, r := range rows {
				if n, ok := r.Values[k].(json.Number); ok {
					if f, err := n.Float64(); err == nil {
						r.Values[k] = f
					}
				}
			}
		}
		columns = append(columns, NewColumn(k, t))
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNotArray
		}
		return fmt.Errorf("decode: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return ErrNotArray
	}
	return nil
}

// readObject reads one object and returns its fields plus the key order.
func readObject(dec *json.Decoder) (map[string]any, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	values := map[string]any{}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("decode: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, ErrNotArray
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("decode %q: %w", key, err)
		}
		if _, dup := values[key]; !dup {
			order = append(order, key)
		}
		values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return values, order, nil
}

func jsonID(v any) (grid.ID, error) {
	switch x := v.(type) {
	case nil:
		return grid.ID{}, ErrMissingID
	case string:
		return grid.StringID(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return grid.ID{}, fmt.Errorf("%s: %w", x, ErrInvalidID)
		}
		return grid.IntID(n), nil
	default:
		return grid.ID{}, ErrInvalidID
	}
}
