package deck

import (
	"github.com/arven/deckhand/util/helper"
)

// Default prompt templates. Both can be swapped out with --template style
// flags; the art style template gets {{.Theme}} and {{.Visual}}, the slide
// text template gets {{.Theme}} and {{.SlideCount}}.
const (
	DefaultSlideTextTemplate = `You are a social media copywriter for a small creative studio.
Write the copy for a carousel of exactly {{.SlideCount}} slides about "{{.Theme}}".

The first slide is a title card introducing the series. Each following slide
covers one month of the year, January through December, in order.
{{- if gt .SlideCount 13}}
Add one final slide with a short class schedule call to action.
{{- end}}

Format every slide exactly like this, separated by a line containing only ---:

**Slide <number> – <short title>**
**visual:** <one sentence describing the image for this slide, no text in the image>
**The slide should have this exact text (don't add any other text):**
<the caption text that goes on the slide, two short lines at most>

Keep captions warm, concrete and specific to "{{.Theme}}". Do not number the
captions and do not add commentary outside the slide blocks.`

	DefaultArtStyleTemplate = `Soft, hand-painted gouache illustration with a muted seasonal palette,
gentle film grain and generous negative space near the bottom for text.
Theme of the series: {{.Theme}}.
Scene: {{.Visual}}
No words, letters or logos anywhere in the image.`
)

// BuildSlideTextPrompt renders the text generation prompt for a theme.
func BuildSlideTextPrompt(tpl string, theme string, slideCount int) (string, error) {
	t, err := helper.GetTemplate(tpl, true)
	if err != nil {
		return "", err
	}
	return t.Exec(map[string]any{
		"Theme":      theme,
		"SlideCount": slideCount,
	})
}

// BuildImagePrompt renders the image prompt by wrapping the slide's visual
// description in the art style template.
func BuildImagePrompt(tpl string, theme string, visual string) (string, error) {
	t, err := helper.GetTemplate(tpl, true)
	if err != nil {
		return "", err
	}
	return t.Exec(map[string]any{
		"Theme":  theme,
		"Visual": visual,
	})
}
