// Package backend adapts concrete SQL stores to the single interface the
// rest of the engine consumes. Two implementations exist: a row-oriented
// embedded backend (SQLite, via mattn/go-sqlite3) and a columnar analytical
// backend (DuckDB, via duckdb-go). Neither backend is ever mutated by the
// engine; each is opened read-only when Options.ReadOnly is set.
package backend

import (
	"context"
	"time"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrConnect, ErrQuery, and ErrSchema are the three DbError kinds from
// spec.md §4.1. Each is constructed with the offending detail so the
// caller's error message names the failing table, SQL, or path.
var (
	ErrConnect = goerrors.NewKind("connect failed: %s")
	ErrQuery   = goerrors.NewKind("query failed: %s")
	ErrSchema  = goerrors.NewKind("schema lookup failed for table %s: %s")
	ErrTimeout = goerrors.NewKind("query exceeded timeout of %s")
)

// ColumnType is the subset of SQL types the engine distinguishes. CN-like
// columns are always Text; the engine never reinterprets them as numeric,
// per spec.md invariant 5.
type ColumnType int

const (
	Unknown ColumnType = iota
	Text
	Int64
	Float64
	Bool
)

// Column describes one column of a table as reported by the backend's
// schema introspection.
type Column struct {
	Name string
	Type ColumnType
}

// Value is a single cell. CN columns always carry a string even when the
// underlying store is integer-keyed; the adapter performs that coercion,
// never the caller.
type Value = interface{}

// ColumnarFrame is a materialized, typed, columnar result set returned by
// Execute. Column order matches Schema order.
type ColumnarFrame struct {
	Schema  []Column
	Columns [][]Value // Columns[i] holds the values of Schema[i]
}

// NumRows reports the row count, inferred from the first column (all
// columns of a ColumnarFrame are the same length by construction).
func (f *ColumnarFrame) NumRows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0])
}

// ColumnIndex returns the position of name in the schema, or -1.
func (f *ColumnarFrame) ColumnIndex(name string) int {
	for i, c := range f.Schema {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Options configures a backend connection.
type Options struct {
	ReadOnly    bool
	MemoryLimit string // e.g. "4GB"; empty means backend default
	Threads     int    // 0 means backend default
	Timeout     time.Duration
}

// Backend is the single polymorphic interface C1 exposes over the
// row-oriented and columnar concrete stores. Implementations must treat
// every column named "CN" or ending in "_CN" as text even if the
// underlying storage is integer, and must batch IN-lists at or above
// ~900 entries (see ChunkInClause) rather than emit one enormous predicate.
type Backend interface {
	// Execute runs sql with the given positional params and returns a
	// materialized columnar frame. Params are never interpolated into the
	// SQL string; they are always bound.
	Execute(ctx context.Context, sql string, params []Value) (*ColumnarFrame, error)

	// Schema returns the column set of table, cached after first lookup.
	Schema(ctx context.Context, table string) ([]Column, error)

	// TableExists reports whether table is present in the store.
	TableExists(ctx context.Context, table string) (bool, error)

	// Close releases the underlying connection.
	Close() error

	// Name identifies the backend kind for logging ("sqlite", "duckdb").
	Name() string
}

// IsCNColumn reports whether name denotes a textual control-number column
// under the spec's naming convention (§3: "CN columns are textual
// throughout").
func IsCNColumn(name string) bool {
	if name == "CN" {
		return true
	}
	if len(name) > 3 && name[len(name)-3:] == "_CN" {
		return true
	}
	return false
}
