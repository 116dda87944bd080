package deck

import (
	"github.com/arven/deckhand/util"
)

// SelectBatch caps the pending themes to the first limit entries. A limit
// that is empty, non-numeric, zero or negative selects all of them; a limit
// larger than the list is clamped.
func SelectBatch(themes []string, limit string) []string {
	n := util.ParseInt(limit, 0)
	if n > 0 && n < len(themes) {
		return themes[:n]
	}
	return themes
}
