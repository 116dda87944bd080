package query

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mithrandie/csvq-driver"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	slidesCmd "github.com/arven/deckhand/cmd/slides"
	"github.com/arven/deckhand/config"
	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/helper"
	"github.com/arven/deckhand/util/stringutil"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a SQL query over the generated slide CSV tables",
	Long: `Run a SQL query over the generated slide CSV tables.

It uses csvq ( https://github.com/mithrandie/csvq ). Table names are the csv
file basenames inside the output dir.

Examples:
- deckhand slides query 'select theme, slide_number, slide_text from ` + "`garden_year`" + `'
- deckhand slides query 'select * from ` + "`garden_year.csv`" + ` where slide_number > 1' --one-line

The query result is written as csv with a header line unless --no-header is
set. With --template each row is rendered as one line of plain text instead.

Note:
- Table or column names containing special chars (like "." or "-") must be
  wrapped in backticks; in bash, wrap the whole query in single quotes then.
- Literal strings in sql should be wrapped in double quotes.`,
	Args: cobra.ExactArgs(1),
	RunE: doQuery,
}

var (
	flagDir      string
	flagTemplate string
	flagOneLine  bool
)

func init() {
	queryCmd.Flags().StringVarP(&flagDir, "dir", "d", "", `CSV tables dir (default the output dir, "`+constants.DEFAULT_OUTPUT_DIR+`")`)
	queryCmd.Flags().StringVarP(&flagTemplate, "template", "t", "",
		`Go text template string to render each row as plain text, e.g. '{{.theme}}: {{.slide_text}}'. `+
			constants.HELP_TEMPLATE_FLAG)
	queryCmd.Flags().BoolVarP(&flagOneLine, "one-line", "", false,
		`Force each output row onto one line, replacing newlines inside fields with spaces`)
	slidesCmd.SlidesCmd.AddCommand(queryCmd)
}

func doQuery(command *cobra.Command, args []string) (err error) {
	if slidesCmd.FlagOutput != "" && slidesCmd.FlagOutput != "-" {
		if exists, err := util.FileExists(slidesCmd.FlagOutput); err != nil || (exists && !slidesCmd.FlagForce) {
			return fmt.Errorf("output file %q exists or can't access, err=%w", slidesCmd.FlagOutput, err)
		}
	}
	dir := util.FirstNonZeroArg(flagDir, config.GetOutputDir())
	db, err := sqlx.Open("csvq", dir)
	if err != nil {
		return err
	}
	defer db.Close()

	if slidesCmd.FlagNoHeader {
		if _, err = db.Exec("SET @@NO_HEADER TO TRUE"); err != nil {
			return fmt.Errorf("failed to set no-header flag: %w", err)
		}
	}
	rows, err := db.Query(args[0])
	if err != nil {
		return err
	}

	reader, writer := io.Pipe()
	go func() {
		if flagTemplate != "" {
			writer.CloseWithError(writeRowsWithTemplate(rows, writer, flagTemplate, flagOneLine))
		} else {
			writer.CloseWithError(writeRowsAsCsv(rows, writer, slidesCmd.FlagNoHeader, flagOneLine))
		}
	}()
	if slidesCmd.FlagOutput == "-" {
		_, err = io.Copy(os.Stdout, reader)
	} else {
		err = atomic.WriteFile(slidesCmd.FlagOutput, reader)
	}
	return err
}

func scanRow(rows *sql.Rows, values []any, scanArgs []any) ([]string, error) {
	if err := rows.Scan(scanArgs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	row := make([]string, len(values))
	for i, val := range values {
		if val == nil {
			continue
		}
		switch v := val.(type) {
		case []byte:
			row[i] = string(v)
		default:
			row[i] = fmt.Sprintf("%v", v)
		}
	}
	return row, nil
}

// writeRowsAsCsv writes the query result as csv, columns in query order.
func writeRowsAsCsv(rows *sql.Rows, output io.Writer, noHeader bool, oneLine bool) error {
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}
	writer := csv.NewWriter(output)
	defer writer.Flush()
	if !noHeader {
		if err := writer.Write(cols); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	values := make([]any, len(cols))
	scanArgs := make([]any, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for rows.Next() {
		row, err := scanRow(rows, values, scanArgs)
		if err != nil {
			return err
		}
		if oneLine {
			row = util.Map(row, stringutil.ReplaceNewLinesWithSpace)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

// writeRowsWithTemplate renders each row through the template as one line of
// plain text. Rows whose rendered line is empty are skipped.
func writeRowsWithTemplate(rows *sql.Rows, output io.Writer, templateStr string, oneLine bool) error {
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}
	t, err := helper.GetTemplate(templateStr, true)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	values := make([]any, len(cols))
	scanArgs := make([]any, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for rows.Next() {
		row, err := scanRow(rows, values, scanArgs)
		if err != nil {
			return err
		}
		rowMap := make(map[string]any, len(cols))
		for i, colName := range cols {
			rowMap[colName] = row[i]
		}
		line, err := t.Exec(rowMap)
		if err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		if oneLine {
			line = stringutil.ReplaceNewLinesWithSpace(line)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(output, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}
