// Package all registers all subcommands.
package all

import (
	_ "github.com/arven/deckhand/cmd/batch"
	_ "github.com/arven/deckhand/cmd/generate"
	_ "github.com/arven/deckhand/cmd/slides"
	_ "github.com/arven/deckhand/cmd/slides/export"
	_ "github.com/arven/deckhand/cmd/slides/query"
	_ "github.com/arven/deckhand/cmd/suggest"
)
