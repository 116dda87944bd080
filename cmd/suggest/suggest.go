package suggest

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arven/deckhand/cmd"
	"github.com/arven/deckhand/config"
	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/deck"
	"github.com/arven/deckhand/features/llm"
	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/helper"
	"github.com/arven/deckhand/util/stringutil"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [topic]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Ask the LLM to suggest new candidate themes",
	Long: `Ask the LLM to suggest new candidate themes.

The model returns a strict JSON list of theme names, optionally narrowed to a
topic. Suggestions that already appear in the themes file or the ledger are
dropped. By default the result is printed to stdout; with --write it is
appended to the themes file instead.`,
	RunE: doSuggest,
}

var (
	flagCount      int
	flagWrite      bool
	flagForce      bool
	flagThemesFile string
	flagLedgerFile string
	flagModel      string
	flagModelKey   string
)

type suggestions struct {
	Themes []string `json:"themes" jsonschema:"description=Suggested slide series theme names"`
}

func init() {
	suggestCmd.Flags().IntVarP(&flagCount, "count", "n", 10, `Number of themes to suggest`)
	suggestCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, `Append the new themes to the themes file`)
	suggestCmd.Flags().BoolVarP(&flagForce, "force", "", false, `Do not ask for confirmation before writing`)
	suggestCmd.Flags().StringVarP(&flagThemesFile, "themes-file", "f", "", `Candidate themes file (default "`+constants.DEFAULT_THEMES_FILE+`")`)
	suggestCmd.Flags().StringVarP(&flagLedgerFile, "ledger-file", "", "", `Completed themes ledger file (default "`+constants.DEFAULT_LEDGER_FILE+`")`)
	suggestCmd.Flags().StringVarP(&flagModel, "model", "m", "", constants.HELP_MODEL)
	suggestCmd.Flags().StringVarP(&flagModelKey, "model-key", "k", "", constants.HELP_MODEL_KEY)
	cmd.RootCmd.AddCommand(suggestCmd)
}

func doSuggest(command *cobra.Command, args []string) error {
	themesFile := util.FirstNonZeroArg(flagThemesFile, config.GetThemesFile())
	model := util.FirstNonZeroArg(flagModel, config.GetDefaultModel())

	existing, err := deck.LoadThemes(themesFile)
	if err != nil {
		existing = nil
	}
	ledger, err := deck.LoadLedger(util.FirstNonZeroArg(flagLedgerFile, config.GetLedgerFile()))
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(`Suggest %d themes for monthly social media slide series `+
		`(a title card plus one slide per month of the year).`, flagCount)
	if len(args) > 0 {
		prompt += fmt.Sprintf(" All themes must relate to: %s.", args[0])
	}
	if len(existing) > 0 {
		prompt += fmt.Sprintf(" Avoid these existing themes: %s.", strings.Join(existing, "; "))
	}
	prompt += " Each theme is a short noun phrase, e.g. \"A year in the vegetable garden\"."

	result, err := llm.ChatJsonResponse[suggestions](flagModelKey, model, prompt)
	if err != nil {
		return err
	}
	fresh := filterFresh(result.Themes, existing, ledger)
	if len(fresh) == 0 {
		fmt.Printf("No new themes suggested.\n")
		return nil
	}

	if !flagWrite {
		for _, theme := range fresh {
			fmt.Printf("%s\n", theme)
		}
		return nil
	}
	if !flagForce && !helper.AskYesNoConfirm(fmt.Sprintf("Will append %d theme(s) to %q", len(fresh), themesFile)) {
		return fmt.Errorf("aborted")
	}
	file, err := os.OpenFile(themesFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open themes file %q: %w", themesFile, err)
	}
	defer file.Close()
	for _, theme := range fresh {
		if _, err := file.WriteString(strings.TrimSpace(theme) + "\n"); err != nil {
			return fmt.Errorf("append to themes file %q: %w", themesFile, err)
		}
	}
	fmt.Printf("Added %d theme(s) to %s\n", len(fresh), themesFile)
	return nil
}

// filterFresh drops blank suggestions, duplicates, completed themes, and any
// suggestion that repeats an existing theme ignoring case.
func filterFresh(suggested []string, existing []string, ledger *deck.Ledger) []string {
	return util.FilterSlice(util.UniqueSlice(suggested), func(theme string) bool {
		theme = strings.TrimSpace(theme)
		if theme == "" || ledger.IsCompleted(theme) {
			return false
		}
		for _, have := range existing {
			if stringutil.ContainsI(have, theme) {
				return false
			}
		}
		return true
	})
}
