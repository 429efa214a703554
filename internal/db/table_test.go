package db

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"gridtui/internal/grid"
)

func TestSelectSQL(t *testing.T) {
	tests := []struct {
		table string
		pk    []string
		want  string
	}{
		{"users", nil, `SELECT * FROM "users" LIMIT $1`},
		{"users", []string{"id"}, `SELECT * FROM "users" ORDER BY "id" LIMIT $1`},
		{`we"ird`, []string{"a", "b"}, `SELECT * FROM "we""ird" ORDER BY "a", "b" LIMIT $1`},
	}
	for _, tt := range tests {
		if got := selectSQL(tt.table, tt.pk); got != tt.want {
			t.Errorf("selectSQL(%q, %v) = %s, want %s", tt.table, tt.pk, got, tt.want)
		}
	}
}

func TestColumnType(t *testing.T) {
	tests := map[uint32]grid.ColumnType{
		pgtype.BoolOID:        grid.TypeBoolean,
		pgtype.Int4OID:        grid.TypeNumber,
		pgtype.NumericOID:     grid.TypeNumber,
		pgtype.TimestamptzOID: grid.TypeDate,
		pgtype.TextOID:        grid.TypeString,
		pgtype.UUIDOID:        grid.TypeString,
	}
	for oid, want := range tests {
		if got := columnType(oid); got != want {
			t.Errorf("columnType(%d) = %s, want %s", oid, got, want)
		}
	}
}

func TestNativeValue(t *testing.T) {
	n := pgtype.Numeric{Int: big.NewInt(1250), Exp: -2, Valid: true}
	if got := nativeValue(n); got != 12.5 {
		t.Errorf("numeric converted to %#v", got)
	}
	if got := nativeValue(pgtype.Numeric{}); got != nil {
		t.Errorf("null numeric should be nil, got %#v", got)
	}
	id := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 1, 2, 3, 4, 5, 6, 7, 8}
	if got := nativeValue(id); got != "12345678-9abc-def0-0102-030405060708" {
		t.Errorf("uuid formatted as %v", got)
	}
	if got := nativeValue([]byte("raw")); got != "raw" {
		t.Errorf("bytes converted to %#v", got)
	}
}

func TestRowID(t *testing.T) {
	names := []string{"id", "org", "name"}
	values := map[string]any{"id": int32(7), "org": "acme", "name": "x"}

	if got := rowID(values, names, nil, 3); got != grid.IntID(3) {
		t.Errorf("no key should number rows, got %v", got)
	}
	if got := rowID(values, names, []int{0}, 3); got != grid.IntID(7) {
		t.Errorf("integer key should stay an integer, got %v", got)
	}
	if got := rowID(values, names, []int{1, 0}, 3); got != grid.StringID("acme/7") {
		t.Errorf("composite key should join, got %v", got)
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		db   *DB
		want string
	}{
		{nil, "orders"},
		{&DB{}, "orders"},
		{&DB{database: "shop"}, "shop.orders"},
	}
	for _, tt := range tests {
		if got := (Table{DB: tt.db, Table: "orders"}).Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}
