package generate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arven/deckhand/cmd"
	"github.com/arven/deckhand/config"
	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/deck"
	"github.com/arven/deckhand/features/drive"
	"github.com/arven/deckhand/util"
)

var generateCmd = &cobra.Command{
	Use:   "generate [theme]...",
	Short: "Generate a slide series for the given theme(s)",
	Long: `Generate a slide series for the given theme(s).

Unlike "batch", the themes are taken from the arguments, processed even if
already in the ledger, and recorded on success.

Running "deckhand generate" without arguments opens a simple interactive
shell; every entered line is generated as a theme. Themes from the themes
file are offered as completions.`,
	RunE: doGenerate,
}

var (
	flagOutputDir   string
	flagLedgerFile  string
	flagVersions    int
	flagModel       string
	flagImageModel  string
	flagModelKey    string
	flagTemperature float64
	flagTemplate    string
	flagArtTemplate string
	flagCrop        string
	flagEmbedImages bool
	flagDriveFolder string
)

func init() {
	generateCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", `Output dir for images and CSV files (default "`+constants.DEFAULT_OUTPUT_DIR+`")`)
	generateCmd.Flags().StringVarP(&flagLedgerFile, "ledger-file", "", "", `Completed themes ledger file (default "`+constants.DEFAULT_LEDGER_FILE+`")`)
	generateCmd.Flags().IntVarP(&flagVersions, "versions", "", 1, `Image versions to render per slide (max 2)`)
	generateCmd.Flags().StringVarP(&flagModel, "model", "m", "", constants.HELP_MODEL)
	generateCmd.Flags().StringVarP(&flagImageModel, "image-model", "M", "", constants.HELP_IMAGE_MODEL)
	generateCmd.Flags().StringVarP(&flagModelKey, "model-key", "k", "", constants.HELP_MODEL_KEY)
	generateCmd.Flags().Float64VarP(&flagTemperature, "temperature", "T", 1.0, constants.HELP_TEMPERATURE_FLAG)
	generateCmd.Flags().StringVarP(&flagTemplate, "template", "", "", `Slide copy prompt template. `+constants.HELP_TEMPLATE_FLAG)
	generateCmd.Flags().StringVarP(&flagArtTemplate, "art-template", "", "", `Art style template for image prompts. `+constants.HELP_TEMPLATE_FLAG)
	generateCmd.Flags().StringVarP(&flagCrop, "crop", "", "", `Crop rendered images to this aspect ratio (e.g. "9:16") using content-aware cropping`)
	generateCmd.Flags().BoolVarP(&flagEmbedImages, "embed-images", "", false, `Add an image_data column with the first image version as a data url`)
	generateCmd.Flags().StringVarP(&flagDriveFolder, "drive-folder", "", "", `Google Drive parent folder id to upload images to. If not set, it uses `+constants.ENV_DRIVE_FOLDER+` env, then the profile file. Empty disables uploading`)
	cmd.RootCmd.AddCommand(generateCmd)
}

func shellCompleter(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	if themes, err := deck.LoadThemes(config.GetThemesFile()); err == nil {
		for _, theme := range themes {
			s = append(s, prompt.Suggest{Text: theme})
		}
	}
	return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
}

func doGenerate(command *cobra.Command, args []string) error {
	ctx := command.Context()
	pipeline, err := buildPipeline(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("no theme is provided and not in tty")
		}
		p := prompt.New(func(input string) {
			theme := strings.TrimSpace(input)
			if theme == "" {
				return
			}
			if err := pipeline.RunTheme(ctx, theme); err != nil {
				fmt.Printf("<error: %v>\n", err)
				return
			}
			fmt.Printf("Done: %q\n", theme)
		}, shellCompleter, prompt.OptionTitle("deckhand-generate"))
		// https://github.com/c-bata/go-prompt/issues/265
		if runtime.GOOS != "windows" {
			defer exec.Command("reset").Run()
		}
		p.Run()
		return nil
	}

	errorCnt := 0
	for _, theme := range args {
		fmt.Printf("Processing %q: ⏳ GENERATING...\n", theme)
		if err := pipeline.RunTheme(ctx, theme); err != nil {
			errorCnt++
			fmt.Printf("Processing %q: ❌ FAILED (%v)\n", theme, err)
			continue
		}
		fmt.Printf("Processing %q: ✅ SUCCESS\n", theme)
	}
	if errorCnt > 0 {
		return fmt.Errorf("%d errors", errorCnt)
	}
	return nil
}

func buildPipeline(ctx context.Context) (*deck.Pipeline, error) {
	outputDir := util.FirstNonZeroArg(flagOutputDir, config.GetOutputDir())
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	ledger, err := deck.LoadLedger(util.FirstNonZeroArg(flagLedgerFile, config.GetLedgerFile()))
	if err != nil {
		return nil, err
	}
	pipeline := &deck.Pipeline{
		Text: &deck.LLMTextGenerator{
			ApiKey:      flagModelKey,
			Model:       util.FirstNonZeroArg(flagModel, config.GetDefaultModel()),
			Temperature: flagTemperature,
			Template:    flagTemplate,
		},
		Images: deck.NewImageRenderer(flagModelKey, util.FirstNonZeroArg(flagImageModel, config.GetDefaultImageModel()), flagArtTemplate),
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
	return pipeline, nil
}
