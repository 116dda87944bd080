package deck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadThemes(t *testing.T) {
	path := writeFile(t, "themes.txt", "Garden year\n\n  Sourdough basics  \nGarden year\nPottery\n")
	themes, err := LoadThemes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden year", "Sourdough basics", "Pottery"}, themes)
}

func TestLoadThemesHeader(t *testing.T) {
	path := writeFile(t, "themes.txt", "Theme\nGarden year\nPottery\n")
	themes, err := LoadThemes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden year", "Pottery"}, themes)

	// A header is only recognized on the first non-empty line
	path = writeFile(t, "themes2.txt", "Garden year\ntheme\n")
	themes, err = LoadThemes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden year", "theme"}, themes)
}

func TestLoadThemesMissingFile(t *testing.T) {
	_, err := LoadThemes(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
}

func TestLoadThemesUtf16(t *testing.T) {
	// UTF-16 LE with BOM
	data := []byte{0xFF, 0xFE}
	for _, r := range "Garden year\nPottery\n" {
		data = append(data, byte(r), 0)
	}
	path := filepath.Join(t.TempDir(), "themes.txt")
	require.NoError(t, os.WriteFile(path, data, 0644))
	themes, err := LoadThemes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden year", "Pottery"}, themes)
}
