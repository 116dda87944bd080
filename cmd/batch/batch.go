package batch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arven/deckhand/cmd"
	"github.com/arven/deckhand/config"
	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/deck"
	"github.com/arven/deckhand/features/drive"
	"github.com/arven/deckhand/features/translation"
	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/helper"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate slide series for all pending themes",
	Long: `Generate slide series for all pending themes.

Reads the themes file (one theme per line), skips themes already recorded in
the ledger file, optionally caps the batch to the first N pending themes, and
runs the full pipeline for each remaining theme: slide copy, images, local
files under the output dir, optional Google Drive upload and a per-theme CSV.

A theme is recorded in the ledger only after its CSV is written, so themes
that fail are retried on the next run. Theme failures never stop the batch;
the command exits non-zero if any theme failed.

Without --limit, and when run interactively, it asks how many themes to
process. Any answer that is not a positive number means "all".`,
	RunE: doBatch,
}

var (
	flagThemesFile  string
	flagLedgerFile  string
	flagOutputDir   string
	flagLimit       string
	flagParallel    int
	flagVersions    int
	flagModel       string
	flagImageModel  string
	flagModelKey    string
	flagTemperature float64
	flagTemplate    string
	flagArtTemplate string
	flagCrop        string
	flagCaptionLang string
	flagEmbedImages bool
	flagDriveFolder string
	flagListOnly    bool
)

func init() {
	batchCmd.Flags().StringVarP(&flagThemesFile, "themes-file", "f", "", `Candidate themes file, one theme per line. Glob patterns (e.g. "themes/*.txt") are supported (default "`+constants.DEFAULT_THEMES_FILE+`")`)
	batchCmd.Flags().StringVarP(&flagLedgerFile, "ledger-file", "", "", `Completed themes ledger file (default "`+constants.DEFAULT_LEDGER_FILE+`")`)
	batchCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", `Output dir for images and CSV files (default "`+constants.DEFAULT_OUTPUT_DIR+`")`)
	batchCmd.Flags().StringVarP(&flagLimit, "limit", "n", "", `Process at most this many pending themes. Empty, zero or non-numeric means all`)
	batchCmd.Flags().IntVarP(&flagParallel, "parallel", "p", 1, `Process up to this many themes concurrently`)
	batchCmd.Flags().IntVarP(&flagVersions, "versions", "", 1, `Image versions to render per slide (max 2)`)
	batchCmd.Flags().StringVarP(&flagModel, "model", "m", "", constants.HELP_MODEL)
	batchCmd.Flags().StringVarP(&flagImageModel, "image-model", "M", "", constants.HELP_IMAGE_MODEL)
	batchCmd.Flags().StringVarP(&flagModelKey, "model-key", "k", "", constants.HELP_MODEL_KEY)
	batchCmd.Flags().Float64VarP(&flagTemperature, "temperature", "T", 1.0, constants.HELP_TEMPERATURE_FLAG)
	batchCmd.Flags().StringVarP(&flagTemplate, "template", "", "", `Slide copy prompt template. `+constants.HELP_TEMPLATE_FLAG)
	batchCmd.Flags().StringVarP(&flagArtTemplate, "art-template", "", "", `Art style template for image prompts. `+constants.HELP_TEMPLATE_FLAG)
	batchCmd.Flags().StringVarP(&flagCrop, "crop", "", "", `Crop rendered images to this aspect ratio (e.g. "9:16") using content-aware cropping`)
	batchCmd.Flags().StringVarP(&flagCaptionLang, "caption-lang", "", "", `Translate slide captions in the CSV to this language. One of: `+constants.HELP_LANGS)
	batchCmd.Flags().BoolVarP(&flagEmbedImages, "embed-images", "", false, `Add an image_data column with the first image version as a data url`)
	batchCmd.Flags().StringVarP(&flagDriveFolder, "drive-folder", "", "", `Google Drive parent folder id to upload images to. If not set, it uses `+constants.ENV_DRIVE_FOLDER+` env, then the profile file. Empty disables uploading`)
	batchCmd.Flags().BoolVarP(&flagListOnly, "list", "l", false, `List the pending themes that would be processed and exit`)
	cmd.RootCmd.AddCommand(batchCmd)
}

func doBatch(command *cobra.Command, args []string) error {
	ctx := command.Context()
	themesFile := util.FirstNonZeroArg(flagThemesFile, config.GetThemesFile())
	ledgerFile := util.FirstNonZeroArg(flagLedgerFile, config.GetLedgerFile())
	outputDir := util.FirstNonZeroArg(flagOutputDir, config.GetOutputDir())

	themes, err := deck.LoadThemes(helper.ParseFilenameArgs(themesFile)...)
	if err != nil {
		return err
	}
	ledger, err := deck.LoadLedger(ledgerFile)
	if err != nil {
		return err
	}
	pending := ledger.Filter(themes)
	fmt.Printf("Themes: %d total, %d completed, %d pending\n", len(themes), len(themes)-len(pending), len(pending))
	if len(pending) == 0 {
		fmt.Printf("Nothing to do.\n")
		return nil
	}

	limit := flagLimit
	if limit == "" && !flagListOnly {
		limit = askLimit(len(pending))
	}
	selected := deck.SelectBatch(pending, limit)
	if flagListOnly {
		for _, theme := range selected {
			fmt.Printf("%s\n", theme)
		}
		return nil
	}
	fmt.Printf("Processing %d theme(s)\n", len(selected))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	pipeline, err := buildPipeline(ctx, ledger, outputDir)
	if err != nil {
		return err
	}
	errorCnt, err := pipeline.RunBatch(ctx, selected, flagParallel)
	if err != nil {
		return err
	}
	fmt.Printf("Batch complete.\n")
	if errorCnt > 0 {
		return fmt.Errorf("%d errors", errorCnt)
	}
	return nil
}

func buildPipeline(ctx context.Context, ledger *deck.Ledger, outputDir string) (*deck.Pipeline, error) {
	model := util.FirstNonZeroArg(flagModel, config.GetDefaultModel())
	imageModel := util.FirstNonZeroArg(flagImageModel, config.GetDefaultImageModel())
	// fail fast on a bad template before any API call is made
	for _, tpl := range []string{flagTemplate, flagArtTemplate} {
		if tpl != "" {
			if _, err := helper.GetTemplate(tpl, true); err != nil {
				return nil, err
			}
		}
	}

	pipeline := &deck.Pipeline{
		Text: &deck.LLMTextGenerator{
			ApiKey:      flagModelKey,
			Model:       model,
			Temperature: flagTemperature,
			Template:    flagTemplate,
		},
		Images: deck.NewImageRenderer(flagModelKey, imageModel, flagArtTemplate),
		Ledger: ledger,
		Opts: deck.Options{
			OutputDir:   outputDir,
			Versions:    flagVersions,
			EmbedImages: flagEmbedImages,
			CropAspect:  flagCrop,
		},
	}

	driveFolder := util.FirstNonZeroArg(flagDriveFolder, config.GetDriveFolder())
	if driveFolder != "" {
		client, err := drive.NewClient(ctx, config.GetDriveCredentials(), driveFolder)
		if err != nil {
			return nil, fmt.Errorf("drive client: %w", err)
		}
		pipeline.Remote = client
	}

	if flagCaptionLang != "" {
		translateFunc, err := translation.CaptionTranslator(ctx, flagCaptionLang)
		if err != nil {
			return nil, err
		}
		pipeline.Opts.Translate = translateFunc
	}
	return pipeline, nil
}

// askLimit prompts for the batch cap when attached to a terminal.
func askLimit(pending int) string {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}
	fmt.Printf("How many themes to process (1-%d, empty for all)? ", pending)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
