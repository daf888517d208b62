package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRejectsForbiddenConstructs(t *testing.T) {
	cases := []string{
		"DIA > 10; DROP TABLE TREE",
		"DIA > 10 UNION SELECT * FROM PLOT",
		"/*x*/ DIA > 5",
	}
	for _, c := range cases {
		_, err := Parse(c, nil)
		require.Error(t, err, c)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, ErrForbidden, pe.Kind, c)
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse("   ", nil)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrEmpty, pe.Kind)
}

func TestParseRejectsUnbalancedParens(t *testing.T) {
	_, err := Parse("(DIA > 5", nil)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrSyntax, pe.Kind)
}

func TestParseRejectsUnknownColumnInStrictMode(t *testing.T) {
	available := map[string]bool{"DIA": true}
	_, err := Parse("HEIGHT > 10", available)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrUnknownColumn, pe.Kind)
}

func TestParseAllowsUnknownColumnWhenUnrestricted(t *testing.T) {
	_, err := Parse("HEIGHT > 10", nil)
	require.NoError(t, err)
}

func TestParseBasicComparisonsAndCombinators(t *testing.T) {
	e, err := Parse("DIA >= 5.0 AND (STATUSCD = 1 OR STATUSCD = 2) AND NOT (SPCD = 131)", nil)
	require.NoError(t, err)
	require.NotNil(t, e)

	row := testRow{"DIA": 6.0, "STATUSCD": 1.0, "SPCD": 802.0}
	ok, err := Eval(e, row)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestParseInNotInBetweenIsNull(t *testing.T) {
	e, err := Parse("SPCD IN (131, 802) AND DIA BETWEEN 5 AND 20 AND HT IS NOT NULL", nil)
	require.NoError(t, err)

	row := testRow{"SPCD": 131.0, "DIA": 12.0, "HT": 50.0}
	ok, err := Eval(e, row)
	require.NoError(t, err)
	require.True(t, ok)

	rowMissingHeight := testRow{"SPCD": 131.0, "DIA": 12.0}
	ok, err = Eval(e, rowMissingHeight)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRenderProducesParameterizedSQL(t *testing.T) {
	e, err := Parse("DIA > 10 AND SPCD IN (131, 802)", nil)
	require.NoError(t, err)

	sql, params := Render(e)
	require.Contains(t, sql, "DIA > ?")
	require.Contains(t, sql, "SPCD IN (?, ?)")
	require.Equal(t, []interface{}{10.0, 131.0, 802.0}, params)
}

type testRow map[string]interface{}

func (r testRow) Get(col string) (interface{}, bool) {
	v, ok := r[col]
	return v, ok
}
