package table

import (
	"context"
	"testing"

	"github.com/mihiarc/pyfia-sub006/backend"
	"github.com/mihiarc/pyfia-sub006/domain/expr"
	"github.com/stretchr/testify/require"
)

func sampleTreeFrame() *Frame {
	return FromColumnar(&backend.ColumnarFrame{
		Schema: []backend.Column{
			{Name: "CN", Type: backend.Text},
			{Name: "DIA", Type: backend.Float64},
			{Name: "STATUSCD", Type: backend.Int64},
		},
		Columns: [][]backend.Value{
			{"T1", "T2", "T3"},
			{4.0, 6.0, 22.0},
			{int64(1), int64(1), int64(2)},
		},
	})
}

func TestFrameFilterInMemory(t *testing.T) {
	f := sampleTreeFrame()
	live := f.Filter(expr.Cmp{Op: expr.Eq, LHS: expr.Column{Name: "STATUSCD"}, RHS: expr.Literal{Kind: expr.NumberLiteral, Num: 1}})

	rows, err := live.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestFrameSelectProjectsColumns(t *testing.T) {
	f := sampleTreeFrame()
	projected := f.Select("CN", "DIA")
	require.Equal(t, []string{"CN", "DIA"}, schemaNames(projected.Schema()))

	rows, err := projected.Rows(context.Background())
	require.NoError(t, err)
	_, ok := rows[0].Get("STATUSCD")
	require.False(t, ok)
}
