package main

import (
	"github.com/arven/deckhand/cmd"
	_ "github.com/arven/deckhand/cmd/all"
)

func main() {
	cmd.Execute()
}
