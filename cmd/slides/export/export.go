package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	slidesCmd "github.com/arven/deckhand/cmd/slides"
	"github.com/arven/deckhand/config"
	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/pathutil"
	"github.com/arven/deckhand/util/stringutil"
)

var exportCmd = &cobra.Command{
	Use:   "export [theme]...",
	Short: "Export slide CSV tables to a single xlsx workbook",
	Long: `Export slide CSV tables to a single xlsx workbook.

Each theme's csv becomes one worksheet. Without arguments all csv tables in
the output dir are exported; with arguments only the named themes. Use
--with-images to place each slide's first image into the sheet next to its
row.`,
	RunE: doExport,
}

var (
	flagDir        string
	flagWithImages bool
)

// xlsx sheet name hard limit
const maxSheetNameLen = 31

func init() {
	exportCmd.Flags().StringVarP(&flagDir, "dir", "d", "", `CSV tables dir (default the output dir, "`+constants.DEFAULT_OUTPUT_DIR+`")`)
	exportCmd.Flags().BoolVarP(&flagWithImages, "with-images", "i", false, `Embed each slide's first image into the sheet`)
	slidesCmd.SlidesCmd.AddCommand(exportCmd)
}

func doExport(command *cobra.Command, args []string) error {
	output := slidesCmd.FlagOutput
	if output == "" || output == "-" {
		output = "slides.xlsx"
	}
	if exists, err := util.FileExists(output); err != nil || (exists && !slidesCmd.FlagForce) {
		return fmt.Errorf("output file %q exists or can't access, err=%w", output, err)
	}
	dir := util.FirstNonZeroArg(flagDir, config.GetOutputDir())

	tables, err := findTables(dir, args)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("no csv tables found in %q", dir)
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	for i, table := range tables {
		if err := addSheet(workbook, table, i == 0); err != nil {
			return fmt.Errorf("export %q: %w", table, err)
		}
	}
	if err := workbook.SaveAs(output); err != nil {
		return fmt.Errorf("save %q: %w", output, err)
	}
	fmt.Printf("Exported %d sheet(s) to %s\n", len(tables), output)
	return nil
}

// findTables returns the csv files to export, sorted by name. With themes
// given, each must resolve to an existing table.
func findTables(dir string, themes []string) ([]string, error) {
	if len(themes) == 0 {
		tables, err := filepath.Glob(filepath.Join(dir, "*.csv"))
		if err != nil {
			return nil, err
		}
		sort.Strings(tables)
		return tables, nil
	}
	var tables []string
	for _, theme := range themes {
		table := filepath.Join(dir, pathutil.Slugify(theme)+".csv")
		if exists, err := util.FileExists(table); err != nil || !exists {
			return nil, fmt.Errorf("no table for theme %q (%s)", theme, table)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func addSheet(workbook *excelize.File, table string, first bool) error {
	file, err := os.Open(table)
	if err != nil {
		return err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	name := sheetName(table)
	if first {
		// replace the default sheet instead of leaving it empty
		if err := workbook.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := workbook.NewSheet(name); err != nil {
		return err
	}

	imageCol := -1
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			if rowIdx == 0 && value == "image_file" {
				imageCol = colIdx
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}
			if err := workbook.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
		if flagWithImages && rowIdx > 0 && imageCol >= 0 && imageCol < len(row) && row[imageCol] != "" {
			if err := placeImage(workbook, name, rowIdx+1, len(rows[0])+1, row[imageCol]); err != nil {
				return err
			}
		}
	}
	return nil
}

func placeImage(workbook *excelize.File, sheet string, row int, col int, path string) error {
	if exists, err := util.FileExists(path); err != nil || !exists {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := workbook.SetRowHeight(sheet, row, 120); err != nil {
		return err
	}
	return workbook.AddPicture(sheet, cell, path, &excelize.GraphicOptions{
		AutoFit: true,
	})
}

func sheetName(table string) string {
	name := filepath.Base(table)
	name = stringutil.CleanTitle(name[:len(name)-len(filepath.Ext(name))])
	return stringutil.StringPrefixInBytes(name, maxSheetNameLen)
}
