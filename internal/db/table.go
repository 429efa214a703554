package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"gridtui/internal/grid"
	"gridtui/internal/source"
)

const (
	loadTimeout = 30 * time.Second
	// DefaultRowLimit caps how many rows a table load reads.
	DefaultRowLimit = 10000
)

// Table loads one public table as a grid dataset. Rows are keyed by the
// primary key; tables without one are numbered from 1.
type Table struct {
	DB    *DB
	Table string
	Limit int
}

// Name is "<database>.<table>", used for export file names.
func (t Table) Name() string {
	if t.DB == nil || t.DB.Database() == "" {
		return t.Table
	}
	return t.DB.Database() + "." + t.Table
}

func (t Table) Load(ctx context.Context) (*source.Dataset, error) {
	if err := t.DB.Ping(ctx); err != nil {
		return nil, err
	}
	pk, err := t.DB.PrimaryKey(ctx, t.Table)
	if err != nil {
		return nil, fmt.Errorf("primary key of %s: %w", t.Table, err)
	}

	limit := t.Limit
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	sql := selectSQL(t.Table, pk)

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	rows, err := t.DB.Conn.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	pkIndex := make([]int, 0, len(pk))
	columns := make([]grid.Column, 0, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		col := source.NewColumn(f.Name, columnType(f.DataTypeOID))
		col.Header = f.Name
		columns = append(columns, col)
		for _, k := range pk {
			if k == f.Name {
				pkIndex = append(pkIndex, i)
			}
		}
	}
	if len(pkIndex) != len(pk) {
		pkIndex = nil
	}

	var out []grid.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Table, err)
		}
		row := grid.Row{Values: make(map[string]any, len(values))}
		for i, v := range values {
			row.Values[names[i]] = nativeValue(v)
		}
		row.ID = rowID(row.Values, names, pkIndex, len(out)+1)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", t.Table, err)
	}

	ds := &source.Dataset{Name: t.Table, Columns: columns, Rows: out}
	if len(pk) == 1 && len(pkIndex) == 1 {
		ds.InitialSort = &grid.SortSpec{Key: pk[0], Direction: grid.Asc}
	}
	return ds, nil
}

func selectSQL(table string, pk []string) string {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(pgx.Identifier{table}.Sanitize())
	if len(pk) > 0 {
		quoted := make([]string, len(pk))
		for i, k := range pk {
			quoted[i] = pgx.Identifier{k}.Sanitize()
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(quoted, ", "))
	}
	b.WriteString(" LIMIT $1")
	return b.String()
}

// columnType maps a PostgreSQL type OID to a grid column type.
func columnType(oid uint32) grid.ColumnType {
	switch oid {
	case pgtype.BoolOID:
		return grid.TypeBoolean
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID,
		pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return grid.TypeNumber
	case pgtype.DateOID, pgtype.TimestampOID, pgtype.TimestamptzOID:
		return grid.TypeDate
	default:
		return grid.TypeString
	}
}

// nativeValue turns driver values the grid cannot interpret into plain Go
// values.
func nativeValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return formatUUID(x)
	case []byte:
		return string(x)
	default:
		return v
	}
}

func formatUUID(b [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// rowID derives the row identity from the primary key columns. Single
// integer keys stay integers; anything else is joined into a string.
func rowID(values map[string]any, names []string, pkIndex []int, n int) grid.ID {
	if len(pkIndex) == 0 {
		return grid.IntID(int64(n))
	}
	if len(pkIndex) == 1 {
		switch x := values[names[pkIndex[0]]].(type) {
		case int16:
			return grid.IntID(int64(x))
		case int32:
			return grid.IntID(int64(x))
		case int64:
			return grid.IntID(x)
		}
	}
	parts := make([]string, len(pkIndex))
	for i, idx := range pkIndex {
		parts[i] = grid.Stringify(values[names[idx]])
	}
	return grid.StringID(strings.Join(parts, "/"))
}
