package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_AreValid(t *testing.T) {
	products, err := Products()
	require.NoError(t, err)
	require.Len(t, products, 12)

	ids := make(map[string]bool)
	featured := 0
	for _, p := range products {
		assert.NoError(t, p.Validate(), p.ID)
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		if p.Featured {
			featured++
		}
	}
	assert.Equal(t, 4, featured)
}

func TestProducts_ReturnsFreshCopies(t *testing.T) {
	first, err := Products()
	require.NoError(t, err)
	first[0].Specs["Processor"] = "changed"

	second, err := Products()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second[0].Specs["Processor"])
}
