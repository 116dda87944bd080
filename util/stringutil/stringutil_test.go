package stringutil

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\r\nb"))
	assert.Empty(t, SplitLines(""))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "a b", CleanTitle("a\nb"))
	assert.Equal(t, "a b", CleanTitle("  a\tb  "))
}

func TestReplaceNewLinesWithSpace(t *testing.T) {
	assert.Equal(t, "a b c", ReplaceNewLinesWithSpace("a\nb\r\n\nc"))
}

func TestStringPrefixInBytes(t *testing.T) {
	assert.Equal(t, "abc", StringPrefixInBytes("abc", 10))
	assert.Equal(t, "ab", StringPrefixInBytes("abc", 2))
	// never cuts a rune in half
	assert.Equal(t, "a", StringPrefixInBytes("aéb", 2))
}

func TestStringPrefixInWidth(t *testing.T) {
	prefix, width := StringPrefixInWidth("abc", 10)
	assert.Equal(t, "abc", prefix)
	assert.Equal(t, 3, width)

	// CJK runes take two columns
	prefix, width = StringPrefixInWidth("a漢字", 3)
	assert.Equal(t, "a漢", prefix)
	assert.Equal(t, 3, width)
}

func TestContainsI(t *testing.T) {
	assert.True(t, ContainsI("A Year in the Garden", "year"))
	assert.False(t, ContainsI("A Year in the Garden", "pottery"))
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestGetTextReaderPlain(t *testing.T) {
	assert.Equal(t, "hello", readAll(t, GetTextReader(strings.NewReader("hello"))))
}

func TestGetTextReaderUtf8Bom(t *testing.T) {
	assert.Equal(t, "hello", readAll(t, GetTextReader(strings.NewReader("\xEF\xBB\xBFhello"))))
}

func TestGetTextReaderUtf16(t *testing.T) {
	le := []byte{0xFF, 0xFE}
	be := []byte{0xFE, 0xFF}
	for _, r := range "hi" {
		le = append(le, byte(r), 0)
		be = append(be, 0, byte(r))
	}
	assert.Equal(t, "hi", readAll(t, GetTextReader(strings.NewReader(string(le)))))
	assert.Equal(t, "hi", readAll(t, GetTextReader(strings.NewReader(string(be)))))
}
