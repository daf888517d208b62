// Package table implements the lazy, typed columnar frame layer (C2):
// an unexecuted plan plus a schema, materialized only at Collect. Frames
// sourced directly from a Backend push predicates and projections down
// into the SQL sent to that backend; frames derived from a join or from
// another frame's Collect are already materialized and filter/project
// in-memory instead, since there is no further SQL to push into.
package table

import (
	"context"
	"fmt"
	"strings"

	"github.com/mihiarc/pyfia-sub006/backend"
	"github.com/mihiarc/pyfia-sub006/domain/expr"
)

// Frame is an unexecuted plan (when sourced from a Backend table) or an
// already-materialized result (when derived from a join or a prior
// Collect). Frame values are immutable: every transform returns a new
// Frame, matching spec.md §9's "Lazy frame graphs" design note.
type Frame struct {
	schema []backend.Column

	// Source-backed fields. table == "" means this Frame is materialized.
	backend    backend.Backend
	table      string
	predicates []expr.Expr
	projection []string // nil means "all columns"

	// Materialized fields, valid once resolved (or always, for a
	// materialized-from-birth Frame such as a join result).
	materialized *backend.ColumnarFrame
}

// FromTable builds a lazy Frame over table name tbl, backed by b. No SQL
// runs until Collect.
func FromTable(ctx context.Context, b backend.Backend, tbl string) (*Frame, error) {
	schema, err := b.Schema(ctx, tbl)
	if err != nil {
		return nil, err
	}
	return &Frame{schema: schema, backend: b, table: tbl}, nil
}

// FromColumnar wraps an already-materialized result (e.g. a join output,
// or a test fixture) as a Frame.
func FromColumnar(cf *backend.ColumnarFrame) *Frame {
	return &Frame{schema: cf.Schema, materialized: cf}
}

// Schema returns the frame's column list without materializing it.
func (f *Frame) Schema() []backend.Column { return f.schema }

func (f *Frame) isLazy() bool { return f.table != "" && f.materialized == nil }

// Filter returns a new Frame with pred applied. For a lazy, source-backed
// frame the predicate is accumulated and pushed into the SQL sent at
// Collect time; for a materialized frame it is applied immediately and a
// new materialized Frame is returned, in-memory.
func (f *Frame) Filter(pred expr.Expr) *Frame {
	if f.isLazy() {
		next := *f
		next.predicates = append(append([]expr.Expr{}, f.predicates...), pred)
		return &next
	}
	rows := f.materialized
	kept := &backend.ColumnarFrame{Schema: rows.Schema, Columns: make([][]backend.Value, len(rows.Schema))}
	for i := 0; i < rows.NumRows(); i++ {
		row := f.rowAt(i)
		ok, err := expr.Eval(pred, row)
		if err != nil || !ok {
			continue
		}
		for c := range rows.Schema {
			kept.Columns[c] = append(kept.Columns[c], rows.Columns[c][i])
		}
	}
	return FromColumnar(kept)
}

// Select returns a new Frame projected to cols. On a lazy frame the
// projection is pushed into the SELECT list at Collect time.
func (f *Frame) Select(cols ...string) *Frame {
	if f.isLazy() {
		next := *f
		next.projection = cols
		next.schema = projectSchema(f.schema, cols)
		return &next
	}
	rows := f.materialized
	out := &backend.ColumnarFrame{Schema: projectSchema(rows.Schema, cols)}
	out.Columns = make([][]backend.Value, len(out.Schema))
	for i, name := range cols {
		idx := rows.ColumnIndex(name)
		if idx >= 0 {
			out.Columns[i] = rows.Columns[idx]
		}
	}
	return FromColumnar(out)
}

func projectSchema(schema []backend.Column, cols []string) []backend.Column {
	out := make([]backend.Column, 0, len(cols))
	for _, name := range cols {
		for _, c := range schema {
			if c.Name == name {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Collect materializes the frame, running SQL for a lazy frame (with
// predicate/projection push-down) or returning the already-materialized
// result otherwise. Collect never reorders stage boundaries: a caller that
// calls Collect on stage N's output before building stage N+1 observes a
// fully materialized stage N, per spec.md §5.
func (f *Frame) Collect(ctx context.Context) (*backend.ColumnarFrame, error) {
	if f.materialized != nil {
		return f.materialized, nil
	}
	if !f.isLazy() {
		return &backend.ColumnarFrame{Schema: f.schema}, nil
	}

	cols := "*"
	if f.projection != nil {
		cols = strings.Join(f.projection, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", cols, f.table)
	var params []interface{}
	if len(f.predicates) > 0 {
		var clauses []string
		for _, p := range f.predicates {
			sqlFrag, ps := expr.Render(p)
			clauses = append(clauses, sqlFrag)
			params = append(params, ps...)
		}
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	result, err := f.backend.Execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	f.materialized = result
	return result, nil
}

// Rows materializes the frame (if needed) and returns it as a Row slice,
// convenient for downstream decoding into typed domain structs.
func (f *Frame) Rows(ctx context.Context) ([]Row, error) {
	cf, err := f.Collect(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, cf.NumRows())
	for i := range rows {
		rows[i] = rowAtOf(cf, i)
	}
	return rows, nil
}

func (f *Frame) rowAt(i int) Row {
	return rowAtOf(f.materialized, i)
}

func rowAtOf(cf *backend.ColumnarFrame, i int) Row {
	vals := make([]backend.Value, len(cf.Schema))
	for c := range cf.Schema {
		vals[c] = cf.Columns[c][i]
	}
	return Row{schema: cf.Schema, values: vals}
}
