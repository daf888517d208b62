package backend

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/sirupsen/logrus"
)

// DuckDBBackend is the columnar analytical-store implementation of
// Backend. It is the preferred backend for production-sized extracts.
// Execute reads results through database/sql with the same row-by-row
// scanRows transpose SQLiteBackend uses.
type DuckDBBackend struct {
	db     *sql.DB
	opts   Options
	log    *logrus.Entry
	mu     sync.Mutex
	schema map[string][]Column
}

// OpenDuckDB connects to a DuckDB database file (or ":memory:"), applying
// opts.MemoryLimit and opts.Threads as session PRAGMAs.
func OpenDuckDB(path string, opts Options) (*DuckDBBackend, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, ErrConnect.New(err.Error())
	}
	if err := db.Ping(); err != nil {
		return nil, ErrConnect.New(err.Error())
	}

	if opts.ReadOnly {
		if _, err := db.Exec("SET access_mode = 'READ_ONLY'"); err != nil {
			return nil, ErrConnect.New(err.Error())
		}
	}
	if opts.MemoryLimit != "" {
		if _, err := db.Exec(fmt.Sprintf("SET memory_limit='%s'", opts.MemoryLimit)); err != nil {
			return nil, ErrConnect.New(err.Error())
		}
	}
	if opts.Threads > 0 {
		if _, err := db.Exec(fmt.Sprintf("SET threads=%d", opts.Threads)); err != nil {
			return nil, ErrConnect.New(err.Error())
		}
	}

	return &DuckDBBackend{
		db:     db,
		opts:   opts,
		log:    logrus.WithField("backend", "duckdb").WithField("path", path),
		schema: make(map[string][]Column),
	}, nil
}

func (b *DuckDBBackend) Name() string { return "duckdb" }

func (b *DuckDBBackend) Execute(ctx context.Context, query string, params []Value) (*ColumnarFrame, error) {
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

	frame, err := scanRows(rows, nil)
	b.log.Tracef("query finished in %s", time.Since(start))
	if err != nil {
		return nil, ErrQuery.New(err.Error())
	}
	return frame, nil
}

func (b *DuckDBBackend) Schema(ctx context.Context, table string) ([]Column, error) {
	b.mu.Lock()
	if cached, ok := b.schema[table]; ok {
		b.mu.Unlock()
		return cached, nil
	}
	b.mu.Unlock()

	frame, err := b.Execute(ctx, fmt.Sprintf("DESCRIBE %s", table), nil)
	if err != nil {
		return nil, ErrSchema.New(table, err.Error())
	}
	nameIdx := frame.ColumnIndex("column_name")
	typeIdx := frame.ColumnIndex("column_type")
	if nameIdx < 0 || typeIdx < 0 {
		return nil, ErrSchema.New(table, "unexpected DESCRIBE output")
	}
	cols := make([]Column, frame.NumRows())
	for i := 0; i < frame.NumRows(); i++ {
		name, _ := frame.Columns[nameIdx][i].(string)
		ddbType, _ := frame.Columns[typeIdx][i].(string)
		t := duckDBColumnType(ddbType)
		if IsCNColumn(name) {
			t = Text
		}
		cols[i] = Column{Name: name, Type: t}
	}

	b.mu.Lock()
	b.schema[table] = cols
	b.mu.Unlock()
	return cols, nil
}

func duckDBColumnType(ddbType string) ColumnType {
	switch ddbType {
	case "BIGINT", "INTEGER", "SMALLINT", "TINYINT", "HUGEINT":
		return Int64
	case "DOUBLE", "FLOAT", "DECIMAL":
		return Float64
	case "BOOLEAN":
		return Bool
	default:
		return Text
	}
}

func (b *DuckDBBackend) TableExists(ctx context.Context, table string) (bool, error) {
	frame, err := b.Execute(ctx, "SELECT table_name FROM information_schema.tables WHERE table_name = ?", []Value{table})
	if err != nil {
		return false, err
	}
	return frame.NumRows() > 0, nil
}

func (b *DuckDBBackend) Close() error {
	return b.db.Close()
}
