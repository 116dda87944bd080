package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arven/deckhand/config"
	"github.com/arven/deckhand/version"
)

var RootCmd = &cobra.Command{
	Use:   "deckhand",
	Short: "deckhand " + version.Version,
	Long: `deckhand ` + version.Version + "." + `
A CLI tool that batch-generates monthly slide series (copy + images + CSV) from a themes list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(command *cobra.Command, args []string) error {
		return config.Load()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}
