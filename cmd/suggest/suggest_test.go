package suggest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arven/deckhand/deck"
)

func TestFilterFresh(t *testing.T) {
	ledger, err := deck.LoadLedger(filepath.Join(t.TempDir(), "completed.txt"))
	require.NoError(t, err)
	require.NoError(t, ledger.Record("Herb garden"))

	existing := []string{"A year in the vegetable garden"}
	suggested := []string{
		"Herb garden",                    // already completed
		"a year in the vegetable garden", // existing theme, different case
		"Vegetable garden",               // repeats part of an existing theme
		"",
		"  ",
		"Pottery wheel basics",
		"Pottery wheel basics",
	}
	assert.Equal(t, []string{"Pottery wheel basics"}, filterFresh(suggested, existing, ledger))
}
