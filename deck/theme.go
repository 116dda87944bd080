package deck

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/stringutil"
)

// LoadThemes reads candidate themes from the given files, one theme per line.
// Blank lines are skipped, a leading "theme"/"themes" header line is dropped,
// later duplicates are removed. A missing file wraps ErrMissingInput.
func LoadThemes(filenames ...string) ([]string, error) {
	var themes []string
	for _, filename := range filenames {
		lines, err := readThemeFile(filename)
		if err != nil {
			return nil, err
		}
		themes = append(themes, lines...)
	}
	return util.UniqueSlice(themes), nil
}

func readThemeFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("themes file %q: %w", filename, ErrMissingInput)
		}
		return nil, fmt.Errorf("open themes file %q: %w", filename, err)
	}
	defer file.Close()
	data, err := io.ReadAll(stringutil.GetTextReader(file))
	if err != nil {
		return nil, fmt.Errorf("read themes file %q: %w", filename, err)
	}
	var themes []string
	first := true
	for _, line := range stringutil.SplitLines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first && isHeaderLine(line) {
			first = false
			continue
		}
		first = false
		themes = append(themes, line)
	}
	return themes, nil
}

func isHeaderLine(line string) bool {
	switch strings.ToLower(line) {
	case "theme", "themes":
		return true
	}
	return false
}
