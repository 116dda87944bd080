package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSlideTextPrompt(t *testing.T) {
	prompt, err := BuildSlideTextPrompt(DefaultSlideTextTemplate, "Garden year", 13)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Garden year"`)
	assert.Contains(t, prompt, "exactly 13 slides")
	assert.NotContains(t, prompt, "class schedule")

	prompt, err = BuildSlideTextPrompt(DefaultSlideTextTemplate, "Pottery classes", 14)
	require.NoError(t, err)
	assert.Contains(t, prompt, "exactly 14 slides")
	assert.Contains(t, prompt, "class schedule")
}

func TestBuildImagePrompt(t *testing.T) {
	prompt, err := BuildImagePrompt(DefaultArtStyleTemplate, "Garden year", "seed trays on a windowsill")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Garden year")
	assert.Contains(t, prompt, "seed trays on a windowsill")
}

func TestBuildPromptCustomTemplate(t *testing.T) {
	prompt, err := BuildImagePrompt("{{ .Visual | upper }}", "t", "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI", prompt)

	_, err = BuildImagePrompt("{{ .Nope }}", "t", "hi")
	assert.Error(t, err) // strict mode rejects unknown fields
}
