// Package slides groups operations on the generated per-theme CSV tables.
package slides

import (
	"github.com/spf13/cobra"

	"github.com/arven/deckhand/cmd"
)

var SlidesCmd = &cobra.Command{
	Use:   "slides",
	Short: "Operations on generated slide CSV tables",
	Long:  `Operations on generated slide CSV tables.`,
}

// Flags shared by the slides subcommands.
var (
	FlagOutput   string
	FlagForce    bool
	FlagNoHeader bool
)

func init() {
	SlidesCmd.PersistentFlags().StringVarP(&FlagOutput, "output", "O", "-", `Output file. "-" for stdout`)
	SlidesCmd.PersistentFlags().BoolVarP(&FlagForce, "force", "", false, `Force overwriting existing output file`)
	SlidesCmd.PersistentFlags().BoolVarP(&FlagNoHeader, "no-header", "", false, `Treat csv files as having no header line`)
	cmd.RootCmd.AddCommand(SlidesCmd)
}
