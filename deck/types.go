// Package deck implements the slide-series pipeline: candidate themes are
// read from a source file, filtered through the completion ledger, capped to
// the batch limit, and each remaining theme is turned into parsed slide
// records, rendered images and a per-theme CSV table.
package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrMissingInput marks an absent candidate-themes file. It aborts the whole
// run, unlike theme-level failures.
var ErrMissingInput = errors.New("input file not found")

// ParseError reports a text response that doesn't match the expected slide
// block count or format. The affected theme is skipped and left out of the
// ledger so it is retried on the next run.
type ParseError struct {
	Theme    string
	Expected int
	Got      int
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("theme %q: %s", e.Theme, e.Reason)
	}
	return fmt.Sprintf("theme %q: expected %d slide blocks, got %d", e.Theme, e.Expected, e.Got)
}

// Slide is one parsed block of the LLM response.
type Slide struct {
	Index        int // 1-based
	Title        string
	VisualPrompt string // image generation prompt extracted from the block
	Text         string // on-slide caption text
}

// SlideRecord is one row of the output table: a parsed slide plus the
// rendered artifacts. Immutable once the theme pipeline finishes.
type SlideRecord struct {
	Theme string
	Slide
	ImagePaths []string // local file per rendered version
	RemoteURLs []string // Drive links, parallel to ImagePaths; empty when uploads are off
	DataURL    string   // first version as data url, only with embedding on
}

// TextGenerator drafts the markdown slide copy for a theme.
type TextGenerator interface {
	SlideText(ctx context.Context, theme string, slideCount int) (string, error)
}

// ImageRenderer renders one image for a slide.
type ImageRenderer interface {
	Render(ctx context.Context, theme string, visual string, caption string) (data []byte, mimeType string, err error)
}

// Uploader pushes rendered images to remote storage. A nil Uploader in the
// pipeline disables the step.
type Uploader interface {
	EnsureFolder(ctx context.Context, name string) (string, error)
	Upload(ctx context.Context, folderID string, name string, mimeType string, payload io.Reader) (string, error)
}
