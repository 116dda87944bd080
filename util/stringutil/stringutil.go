package stringutil

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/saintfish/chardet"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 0xEF, 0xBB, 0xBF
var Utf8bom = []byte{0xEF, 0xBB, 0xBF}

// CleanTitle:
// 1. Remove line breaks (replace them with space).
// 2. Clean (Remove invisible chars then TrimSpace).
func CleanTitle(s string) string {
	s = regexp.MustCompile(`[\t\r\n]+`).ReplaceAllString(s, " ")
	s = Clean(s)
	return s
}

// Clean:
// 1. removes non-graphic (excluding spaces) characters from the given string.
// 2. TrimSpace.
func Clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	s = strings.TrimSpace(s)
	return s
}

// SplitLines splits s into lines. Line breaks may be \n or \r\n.
// Trailing empty lines are dropped; interior lines are kept as is.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func ContainsI(str string, substr string) bool {
	return strings.Contains(
		strings.ToLower(str),
		strings.ToLower(substr),
	)
}

// /[\r\n]+/
var newLinesRegex = regexp.MustCompile(`[\r\n]+`)

// Replace one or more consecutive newline characters (\r, \n) with single space.
func ReplaceNewLinesWithSpace(str string) string {
	return newLinesRegex.ReplaceAllString(str, " ")
}

// Return prefix of str that is at most max bytes encoded in UTF-8.
func StringPrefixInBytes(str string, max int) string {
	if len(str) <= max {
		return str
	}
	length := 0
	sb := &strings.Builder{}
	for _, char := range str {
		runeLength := utf8.RuneLen(char)
		if length+runeLength > max {
			break
		}
		sb.WriteRune(char)
		length += runeLength
	}
	return sb.String()
}

// Return prefix of string at most width and actual width.
// ASCII char has 1 width. CJK char has 2 width.
func StringPrefixInWidth(str string, width int) (string, int) {
	strWidth := 0
	sb := &strings.Builder{}
	for _, char := range str {
		runeWidth := runewidth.RuneWidth(char)
		if strWidth+runeWidth > width {
			break
		}
		sb.WriteRune(char)
		strWidth += runeWidth
	}
	return sb.String(), strWidth
}

// GetTextReader wraps input so the returned reader yields UTF-8 text without
// a BOM, whatever the source encoding is among: UTF-8 (with or without BOM),
// UTF-16 LE BOM, UTF-16 BE BOM. Encoding is sniffed from the first bytes.
func GetTextReader(input io.Reader) io.Reader {
	br := bufio.NewReader(input)
	head, _ := br.Peek(1024)
	switch {
	case bytes.HasPrefix(head, Utf8bom):
		br.Discard(len(Utf8bom))
		return br
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}), bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		decoder := textunicode.UTF16(textunicode.LittleEndian, textunicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder)
	}
	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch result.Charset {
		case "UTF-16LE":
			return transform.NewReader(br, textunicode.UTF16(textunicode.LittleEndian, textunicode.IgnoreBOM).NewDecoder())
		case "UTF-16BE":
			return transform.NewReader(br, textunicode.UTF16(textunicode.BigEndian, textunicode.IgnoreBOM).NewDecoder())
		}
	}
	return br
}
