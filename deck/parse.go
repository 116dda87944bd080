package deck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/util/stringutil"
)

var (
	classKeywordRegexp = regexp.MustCompile(constants.CLASS_KEYWORD_PATTERN)
	visualLineRegexp   = regexp.MustCompile(`(?i)\*{0,2}` + constants.SLIDE_VISUAL_PREFIX + `\*{0,2}\s*(.+)`)
	slideTitleRegexp   = regexp.MustCompile(`(?i)slide\s*\d+\s*[–—-]\s*(.+)`)
)

// ExpectedSlideCount is 13 (title card plus one slide per month), or 14 when
// the theme mentions classes and gets an extra schedule slide.
func ExpectedSlideCount(theme string) int {
	if classKeywordRegexp.MatchString(theme) {
		return constants.CLASS_SLIDE_COUNT
	}
	return constants.DEFAULT_SLIDE_COUNT
}

// ParseSlides splits the generated markdown into slide blocks and extracts
// the title, visual prompt and caption of each. The block count must match
// expected exactly.
func ParseSlides(theme string, markdown string, expected int) ([]Slide, error) {
	blocks := splitBlocks(markdown)
	if len(blocks) != expected {
		return nil, &ParseError{Theme: theme, Expected: expected, Got: len(blocks)}
	}
	slides := make([]Slide, 0, len(blocks))
	for i, block := range blocks {
		slide, err := parseBlock(theme, i+1, block)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

func splitBlocks(markdown string) []string {
	var blocks []string
	var current []string
	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = nil
	}
	for _, line := range stringutil.SplitLines(markdown) {
		if strings.TrimSpace(line) == constants.SLIDE_DELIMITER {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

func parseBlock(theme string, index int, block string) (Slide, error) {
	slide := Slide{Index: index}
	lines := stringutil.SplitLines(block)
	caption := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := visualLineRegexp.FindStringSubmatch(trimmed); m != nil && slide.VisualPrompt == "" {
			slide.VisualPrompt = strings.TrimSpace(m[1])
			continue
		}
		if strings.Contains(trimmed, constants.SLIDE_TEXT_MARKER) {
			caption = i + 1
			break
		}
		if slide.Title == "" {
			slide.Title = cleanTitle(trimmed)
		}
	}
	if slide.Title == "" {
		return Slide{}, &ParseError{Theme: theme, Reason: fmt.Sprintf("slide %d: no title", index)}
	}
	if slide.VisualPrompt == "" {
		return Slide{}, &ParseError{Theme: theme, Reason: fmt.Sprintf("slide %d: no visual prompt", index)}
	}
	if caption < 0 || caption >= len(lines) {
		return Slide{}, &ParseError{Theme: theme, Reason: fmt.Sprintf("slide %d: no caption text", index)}
	}
	slide.Text = strings.TrimSpace(strings.Join(lines[caption:], "\n"))
	if slide.Text == "" {
		return Slide{}, &ParseError{Theme: theme, Reason: fmt.Sprintf("slide %d: empty caption", index)}
	}
	return slide, nil
}

func cleanTitle(line string) string {
	line = strings.Trim(line, "#* \t")
	if m := slideTitleRegexp.FindStringSubmatch(line); m != nil {
		line = m[1]
	}
	return strings.TrimSpace(strings.Trim(line, "*"))
}
