package determinism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashJSONIsOrderIndependent(t *testing.T) {
	a := map[string]float64{"paper": 0.8, "size": 1, "quantity": 500}
	b := map[string]float64{"quantity": 500, "paper": 0.8, "size": 1}

	ha, err := HashJSON(a)
	require.NoError(t, err)
	hb, err := HashJSON(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha.Hex(), 64)
	assert.Len(t, ha.String(), 12)
	assert.False(t, ha.IsZero())
}

func TestHashJSONRejectsUnencodable(t *testing.T) {
	h, err := HashJSON(map[string]any{"fn": func() {}})
	assert.Error(t, err)
	assert.True(t, h.IsZero())
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"TURNAROUND": 1, "ADDONS": 2, "QUANTITY": 3}
	assert.Equal(t, []string{"ADDONS", "QUANTITY", "TURNAROUND"}, SortedKeys(m))
	assert.Empty(t, SortedKeys(map[int]bool{}))
}
