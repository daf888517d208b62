package table

import (
	"context"
	"testing"

	"github.com/mihiarc/pyfia-sub006/backend"
	"github.com/mihiarc/pyfia-sub006/domain/expr"
	"github.com/stretchr/testify/require"
)

func treeCondFixtures() (*Frame, *Frame) {
	tree := FromColumnar(&backend.ColumnarFrame{
		Schema: []backend.Column{{Name: "PLT_CN", Type: backend.Text}, {Name: "CONDID", Type: backend.Int64}, {Name: "DIA", Type: backend.Float64}},
		Columns: [][]backend.Value{
			{"P1", "P1", "P2"},
			{int64(1), int64(2), int64(1)},
			{6.0, 12.0, 20.0},
		},
	})
	cond := FromColumnar(&backend.ColumnarFrame{
		Schema: []backend.Column{{Name: "PLT_CN", Type: backend.Text}, {Name: "CONDID", Type: backend.Int64}, {Name: "CONDPROP_UNADJ", Type: backend.Float64}},
		Columns: [][]backend.Value{
			{"P1", "P1", "P2"},
			{int64(1), int64(2), int64(1)},
			{0.6, 0.4, 1.0},
		},
	})
	return tree, cond
}

func TestJoinTreeConditionInner(t *testing.T) {
	tree, cond := treeCondFixtures()
	jm := NewJoinManager(16)
	out, err := jm.JoinTreeCondition(context.Background(), tree, cond)
	require.NoError(t, err)

	rows, err := out.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		_, ok := r.Get("CONDPROP_UNADJ")
		require.True(t, ok)
	}
}

func TestJoinNeverDropsColumns(t *testing.T) {
	tree, cond := treeCondFixtures()
	jm := NewJoinManager(0)
	out, err := jm.Join(context.Background(), tree, cond, [][2]string{{"PLT_CN", "PLT_CN"}, {"CONDID", "CONDID"}}, InnerJoin)
	require.NoError(t, err)
	require.Equal(t, []string{"PLT_CN", "CONDID", "DIA", "PLT_CN_right", "CONDID_right", "CONDPROP_UNADJ"}, schemaNames(out.Schema()))
}

func TestJoinEmptyResultPreservesSchema(t *testing.T) {
	tree, cond := treeCondFixtures()
	emptyCond := cond.Filter(expr.Cmp{Op: expr.Gt, LHS: expr.Column{Name: "CONDPROP_UNADJ"}, RHS: expr.Literal{Kind: expr.NumberLiteral, Num: 99}})

	jm := NewJoinManager(0)
	out, err := jm.JoinTreeCondition(context.Background(), tree, emptyCond)
	require.NoError(t, err)

	rows, err := out.Rows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
	require.NotEmpty(t, out.Schema())
}

func TestJoinLeftJoinKeepsUnmatchedRows(t *testing.T) {
	tree, cond := treeCondFixtures()
	missingCond := cond.Filter(expr.Cmp{Op: expr.Ne, LHS: expr.Column{Name: "PLT_CN"}, RHS: expr.Literal{Kind: expr.TextLiteral, Text: "P2"}})

	jm := NewJoinManager(0)
	out, err := jm.Join(context.Background(), tree, missingCond, [][2]string{{"PLT_CN", "PLT_CN"}, {"CONDID", "CONDID"}}, LeftJoin)
	require.NoError(t, err)

	rows, err := out.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestSortMergeJoinMatchesHashJoin(t *testing.T) {
	tree, cond := treeCondFixtures()
	treeRows, _ := tree.Collect(context.Background())
	condRows, _ := cond.Collect(context.Background())
	on := [][2]string{{"PLT_CN", "PLT_CN"}, {"CONDID", "CONDID"}}

	hashResult := hashJoin(treeRows, condRows, on, InnerJoin)
	sortResult := sortMergeJoin(treeRows, condRows, on, InnerJoin)
	require.Equal(t, hashResult.NumRows(), sortResult.NumRows())
}
