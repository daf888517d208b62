package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkValuesSplitsAtThreshold(t *testing.T) {
	values := make([]Value, 2*MaxInListSize+1)
	for i := range values {
		values[i] = i
	}

	chunks := ChunkValues(values)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], MaxInListSize)
	require.Len(t, chunks[1], MaxInListSize)
	require.Len(t, chunks[2], 1)
}

func TestChunkValuesEmpty(t *testing.T) {
	require.Nil(t, ChunkValues(nil))
}

func TestIsCNColumn(t *testing.T) {
	cases := map[string]bool{
		"CN":         true,
		"PLT_CN":     true,
		"STRATUM_CN": true,
		"DIA":        false,
		"STATECD":    false,
		"CNT":        false,
	}
	for name, want := range cases {
		require.Equal(t, want, IsCNColumn(name), name)
	}
}
