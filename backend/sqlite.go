package backend

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteBackend is the row-oriented embedded-SQL implementation of Backend,
// used for smaller FIA extracts and for the converter's native format
// before a columnar conversion is available. Connections are serialized
// with a mutex: database/sql's own pool would otherwise let two goroutines
// race on PRAGMA state that isn't per-connection-safe in mattn/go-sqlite3.
type SQLiteBackend struct {
	db     *sql.DB
	opts   Options
	log    *logrus.Entry
	mu     sync.Mutex
	schema map[string][]Column
}

// OpenSQLite connects to a SQLite file (or ":memory:") and returns a
// Backend. path and dsn options are passed straight to the driver; a
// read-only mode is requested via the "mode=ro" DSN parameter when
// opts.ReadOnly is set.
func OpenSQLite(path string, opts Options) (*SQLiteBackend, error) {
	dsn := path
	if opts.ReadOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, ErrConnect.New(err.Error())
	}
	if err := db.Ping(); err != nil {
		return nil, ErrConnect.New(err.Error())
	}
	// SQLite allows only one writer and serializes well under a single
	// connection; cap the pool so query concurrency doesn't corrupt
	// PRAGMA-scoped settings like busy_timeout.
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{
		db:     db,
		opts:   opts,
		log:    logrus.WithField("backend", "sqlite").WithField("path", path),
		schema: make(map[string][]Column),
	}
	return b, nil
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) Execute(ctx context.Context, query string, params []Value) (*ColumnarFrame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if b.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.Timeout)
		defer cancel()
	}
	b.log.WithField("timeout", b.opts.Timeout).Tracef("executing query (%d params)", len(params))

	rows, err := b.db.QueryContext(ctx, query, params...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrTimeout.New(b.opts.Timeout)
		}
		return nil, ErrQuery.New(err.Error())
	}
	defer rows.Close()

	frame, err := scanRows(rows, b.colTypeHints(query))
	b.log.Tracef("query finished in %s", time.Since(start))
	if err != nil {
		return nil, ErrQuery.New(err.Error())
	}
	return frame, nil
}

// colTypeHints is a placeholder hook: concrete column typing is resolved
// from driver column metadata in scanRows. Kept as a seam so callers that
// know a table's Schema() can force CN columns to Text even if the driver
// reports them as integer-affinity.
func (b *SQLiteBackend) colTypeHints(query string) map[string]ColumnType { return nil }

func scanRows(rows *sql.Rows, hints map[string]ColumnType) (*ColumnarFrame, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	schema := make([]Column, len(cols))
	for i, c := range cols {
		t := sqliteColumnType(c)
		if hints != nil {
			if forced, ok := hints[c.Name()]; ok {
				t = forced
			}
		}
		if IsCNColumn(c.Name()) {
			t = Text
		}
		schema[i] = Column{Name: c.Name(), Type: t}
	}

	frame := &ColumnarFrame{Schema: schema, Columns: make([][]Value, len(schema))}
	scanDest := make([]interface{}, len(schema))
	scanBuf := make([]interface{}, len(schema))
	for i := range scanDest {
		scanDest[i] = &scanBuf[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return nil, err
		}
		for i, c := range schema {
			v := coerceValue(scanBuf[i], c.Type)
			frame.Columns[i] = append(frame.Columns[i], v)
		}
	}
	return frame, rows.Err()
}

func sqliteColumnType(c *sql.ColumnType) ColumnType {
	switch c.DatabaseTypeName() {
	case "INTEGER", "BIGINT", "INT":
		return Int64
	case "REAL", "FLOAT", "DOUBLE":
		return Float64
	case "BOOLEAN":
		return Bool
	default:
		return Text
	}
}

// coerceValue casts a raw driver value into the engine's column type,
// forcing CN columns to string even when the store used an integer
// affinity. This is the one place numeric-to-text coercion happens; every
// other layer treats CN as opaque text.
func coerceValue(v interface{}, t ColumnType) Value {
	if v == nil {
		return nil
	}
	switch t {
	case Text:
		switch x := v.(type) {
		case []byte:
			return string(x)
		case string:
			return x
		default:
			return fmt.Sprintf("%v", x)
		}
	case Int64:
		switch x := v.(type) {
		case int64:
			return x
		case []byte:
			var out int64
			fmt.Sscanf(string(x), "%d", &out)
			return out
		}
	case Float64:
		switch x := v.(type) {
		case float64:
			return x
		case []byte:
			var out float64
			fmt.Sscanf(string(x), "%f", &out)
			return out
		}
	}
	return v
}

func (b *SQLiteBackend) Schema(ctx context.Context, table string) ([]Column, error) {
	b.mu.Lock()
	if cached, ok := b.schema[table]; ok {
		b.mu.Unlock()
		return cached, nil
	}
	b.mu.Unlock()

	frame, err := b.Execute(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", table), nil)
	if err != nil {
		return nil, ErrSchema.New(table, err.Error())
	}
	b.mu.Lock()
	b.schema[table] = frame.Schema
	b.mu.Unlock()
	return frame.Schema, nil
}

func (b *SQLiteBackend) TableExists(ctx context.Context, table string) (bool, error) {
	frame, err := b.Execute(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", []Value{table})
	if err != nil {
		return false, err
	}
	return frame.NumRows() > 0, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
