package deck

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/arven/deckhand/features/imagegen"
	"github.com/arven/deckhand/features/llm"
	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/imgutil"
	"github.com/arven/deckhand/util/stringutil"
)

const generateMaxTries = 3

// LLMTextGenerator drafts slide copy through a chat model.
type LLMTextGenerator struct {
	ApiKey      string
	Model       string
	Temperature float64
	Template    string // slide text prompt template, DefaultSlideTextTemplate when empty
}

func (g *LLMTextGenerator) SlideText(ctx context.Context, theme string, slideCount int) (string, error) {
	tpl := g.Template
	if tpl == "" {
		tpl = DefaultSlideTextTemplate
	}
	prompt, err := BuildSlideTextPrompt(tpl, theme, slideCount)
	if err != nil {
		return "", err
	}
	return llm.WithRetry(generateMaxTries, llm.GeminiApiBaseBackoff, llm.GeminiApiMaxBackoff, func() (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return llm.Chat(g.ApiKey, g.Model, prompt, g.Temperature)
	})
}

// APIImageRenderer renders slide images through an image model, wrapping each
// visual description in the art style template.
type APIImageRenderer struct {
	ApiKey   string
	Model    string
	Template string // art style template, DefaultArtStyleTemplate when empty
}

func (r *APIImageRenderer) Render(ctx context.Context, theme string, visual string, caption string) ([]byte, string, error) {
	tpl := r.Template
	if tpl == "" {
		tpl = DefaultArtStyleTemplate
	}
	prompt, err := BuildImagePrompt(tpl, theme, visual)
	if err != nil {
		return nil, "", err
	}
	preview, _ := stringutil.StringPrefixInWidth(stringutil.ReplaceNewLinesWithSpace(prompt), 100)
	log.Debugf("image prompt: %s", preview)
	type rendered struct {
		data     []byte
		mimeType string
	}
	result, err := llm.WithRetry(generateMaxTries, imagegen.ImageApiBaseBackoff, imagegen.ImageApiMaxBackoff, func() (rendered, error) {
		if err := ctx.Err(); err != nil {
			return rendered{}, err
		}
		data, mimeType, err := imagegen.Generate(r.ApiKey, r.Model, prompt)
		return rendered{data, mimeType}, err
	})
	if err != nil {
		return nil, "", err
	}
	return result.data, result.mimeType, nil
}

// PlaceholderRenderer produces flat gray stand-in images. Used when no image
// API key is configured, so the rest of the pipeline can still be exercised.
type PlaceholderRenderer struct {
	Width  int
	Height int
}

func (r *PlaceholderRenderer) Render(ctx context.Context, theme string, visual string, caption string) ([]byte, string, error) {
	w, h := r.Width, r.Height
	if w <= 0 || h <= 0 {
		w, h = parseSize(imagegen.DEFAULT_IMAGE_SIZE)
	}
	data, err := imgutil.Placeholder(w, h, imgutil.PlaceholderGray)
	if err != nil {
		return nil, "", err
	}
	return data, "image/png", nil
}

func parseSize(size string) (int, int) {
	parts := strings.SplitN(size, "x", 2)
	if len(parts) != 2 {
		return 1024, 1536
	}
	return util.ParseInt(parts[0], 1024), util.ParseInt(parts[1], 1536)
}

// NewImageRenderer picks the API renderer when a key for model is available
// and falls back to placeholder rendering otherwise.
func NewImageRenderer(apiKey string, model string, template string) ImageRenderer {
	if imagegen.HasApiKey(apiKey, model) {
		return &APIImageRenderer{ApiKey: apiKey, Model: model, Template: template}
	}
	log.Warnf("no API key for image model %q, generating placeholder images", model)
	return &PlaceholderRenderer{}
}
