package deck

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slideMarkdown(n int) string {
	blocks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		blocks = append(blocks, fmt.Sprintf("**Slide %d – Block %d**\n"+
			"**visual:** a scene %d\n"+
			"**The slide should have this exact text (don't add any other text):**\n"+
			"Caption %d\n*Sub %d*", i, i, i, i, i))
	}
	return strings.Join(blocks, "\n---\n")
}

func TestExpectedSlideCount(t *testing.T) {
	assert.Equal(t, 13, ExpectedSlideCount("Garden year"))
	assert.Equal(t, 14, ExpectedSlideCount("Pottery classes for beginners"))
	assert.Equal(t, 14, ExpectedSlideCount("A year of yoga Classes"))
	// word match, not substring
	assert.Equal(t, 13, ExpectedSlideCount("Classic cars of the century"))
}

func TestParseSlides(t *testing.T) {
	slides, err := ParseSlides("Garden year", slideMarkdown(13), 13)
	require.NoError(t, err)
	require.Len(t, slides, 13)

	assert.Equal(t, 1, slides[0].Index)
	assert.Equal(t, "Block 1", slides[0].Title)
	assert.Equal(t, "a scene 1", slides[0].VisualPrompt)
	assert.Equal(t, "Caption 1\n*Sub 1*", slides[0].Text)
	assert.Equal(t, 13, slides[12].Index)
	assert.Equal(t, "Caption 13\n*Sub 13*", slides[12].Text)
}

func TestParseSlidesCountMismatch(t *testing.T) {
	_, err := ParseSlides("Garden year", slideMarkdown(12), 13)
	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 13, parseErr.Expected)
	assert.Equal(t, 12, parseErr.Got)
	assert.Equal(t, "Garden year", parseErr.Theme)
}

func TestParseSlidesMissingVisual(t *testing.T) {
	markdown := "**Slide 1 – Title**\n" +
		"**The slide should have this exact text (don't add any other text):**\nCaption"
	_, err := ParseSlides("Garden year", markdown, 1)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Error(), "no visual prompt")
}

func TestParseSlidesMissingCaption(t *testing.T) {
	markdown := "**Slide 1 – Title**\n**visual:** a scene"
	_, err := ParseSlides("Garden year", markdown, 1)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Error(), "no caption")
}

func TestParseSlidesMissingTitle(t *testing.T) {
	markdown := "**visual:** a scene\n" +
		"**The slide should have this exact text (don't add any other text):**\nCaption"
	_, err := ParseSlides("Garden year", markdown, 1)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Error(), "no title")
}

func TestParseSlidesDelimiterTrailingSpaces(t *testing.T) {
	markdown := "**Slide 1 – Title**\n**visual:** a scene\n" +
		"**The slide should have this exact text (don't add any other text):**\nCaption 1\n" +
		"---  \n" +
		"**Slide 2 – Next**\n**visual:** another scene\n" +
		"**The slide should have this exact text (don't add any other text):**\nCaption 2"
	slides, err := ParseSlides("Garden year", markdown, 2)
	require.NoError(t, err)
	assert.Equal(t, "Caption 1", slides[0].Text)
	assert.Equal(t, "Caption 2", slides[1].Text)
}

func TestParseSlidesIgnoresSurroundingNoise(t *testing.T) {
	// dashes inside caption lines are kept, only a bare delimiter line splits
	markdown := "**Slide 1 – Title**\n**visual:** a scene\n" +
		"**The slide should have this exact text (don't add any other text):**\n" +
		"Caption with --- inline\n" +
		"---\n" +
		"**Slide 2 – Next**\n**visual:** another scene\n" +
		"**The slide should have this exact text (don't add any other text):**\nCaption 2"
	slides, err := ParseSlides("Garden year", markdown, 2)
	require.NoError(t, err)
	assert.Equal(t, "Caption with --- inline", slides[0].Text)
}
