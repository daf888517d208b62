package table

import "github.com/mihiarc/pyfia-sub006/backend"

// Row is a single materialized row addressed by column name. It implements
// expr.RowGetter so a domain predicate can be evaluated against it without
// going back to SQL.
type Row struct {
	schema []backend.Column
	values []backend.Value
}

// Get returns the value of col and whether col exists in the row's schema.
// A NULL value returns (nil, true); a missing column returns (nil, false).
func (r Row) Get(col string) (interface{}, bool) {
	for i, c := range r.schema {
		if c.Name == col {
			return r.values[i], true
		}
	}
	return nil, false
}

// MustGet returns the value of col, or nil if absent. Convenience for
// aggregation code that already validated the schema.
func (r Row) MustGet(col string) interface{} {
	v, _ := r.Get(col)
	return v
}

// Columns returns the row's column names, in schema order.
func (r Row) Columns() []string {
	names := make([]string, len(r.schema))
	for i, c := range r.schema {
		names[i] = c.Name
	}
	return names
}
