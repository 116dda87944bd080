package deck

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBatch(t *testing.T) {
	themes := []string{"a", "b", "c"}

	assert.Equal(t, []string{"a", "b"}, SelectBatch(themes, "2"))
	assert.Equal(t, themes, SelectBatch(themes, "3"))
	assert.Equal(t, themes, SelectBatch(themes, "10")) // clamped
	assert.Equal(t, themes, SelectBatch(themes, ""))
	assert.Equal(t, themes, SelectBatch(themes, "0"))
	assert.Equal(t, themes, SelectBatch(themes, "-1"))
	assert.Equal(t, themes, SelectBatch(themes, "all"))
	assert.Empty(t, SelectBatch(nil, "5"))
}

func TestFilterThenSelect(t *testing.T) {
	ledger, err := LoadLedger(filepath.Join(t.TempDir(), "completed.txt"))
	require.NoError(t, err)
	require.NoError(t, ledger.Record("B"))

	pending := ledger.Filter([]string{"A", "B", "C"})
	assert.Equal(t, []string{"A", "C"}, SelectBatch(pending, "2"))
}
