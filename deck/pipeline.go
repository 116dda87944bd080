package deck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/sync/errgroup"

	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/imgutil"
	"github.com/arven/deckhand/util/pathutil"
)

// Options tune the per-theme pipeline.
type Options struct {
	OutputDir   string
	Versions    int    // image versions per slide, clamped to 1..MAX_IMAGE_VERSIONS
	EmbedImages bool   // add a data url column to the CSV
	CropAspect  string // e.g. "9:16", empty disables cropping
	// Translate rewrites the captions before the table is written. Failures
	// are logged and the original captions kept.
	Translate func(ctx context.Context, texts []string) ([]string, error)
}

// Pipeline runs one theme end to end: slide copy, parsing, images, local
// files, optional upload, CSV table, ledger record.
type Pipeline struct {
	Text   TextGenerator
	Images ImageRenderer
	Remote Uploader // nil disables uploads
	Ledger *Ledger
	Opts   Options
}

func (p *Pipeline) versions() int {
	v := p.Opts.Versions
	if v < 1 {
		return 1
	}
	if v > constants.MAX_IMAGE_VERSIONS {
		return constants.MAX_IMAGE_VERSIONS
	}
	return v
}

// RunTheme processes a single theme. The ledger is only written after every
// artifact of the theme is on disk, so an interrupted theme is redone in
// full on the next run.
func (p *Pipeline) RunTheme(ctx context.Context, theme string) error {
	expected := ExpectedSlideCount(theme)
	markdown, err := p.Text.SlideText(ctx, theme, expected)
	if err != nil {
		return fmt.Errorf("text generation: %w", err)
	}
	slides, err := ParseSlides(theme, markdown, expected)
	if err != nil {
		return err
	}
	log.Debugf("parsed %d slides for %q: %s", len(slides), theme, util.ToJson(slides))

	slug := pathutil.Slugify(theme)
	imageDir := filepath.Join(p.Opts.OutputDir, "images", slug)
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	records := make([]SlideRecord, 0, len(slides))
	for _, slide := range slides {
		record, err := p.renderSlide(ctx, theme, slide, imageDir)
		if err != nil {
			return fmt.Errorf("slide %d: %w", slide.Index, err)
		}
		records = append(records, record)
	}

	p.upload(ctx, theme, records)
	p.translate(ctx, records)

	tablePath := filepath.Join(p.Opts.OutputDir, slug+".csv")
	if err := WriteTable(tablePath, records, p.Opts.EmbedImages); err != nil {
		return err
	}
	if p.Ledger != nil {
		if err := p.Ledger.Record(theme); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) renderSlide(ctx context.Context, theme string, slide Slide, imageDir string) (SlideRecord, error) {
	record := SlideRecord{Theme: theme, Slide: slide}
	for v := 1; v <= p.versions(); v++ {
		data, mimeType, err := p.Images.Render(ctx, theme, slide.VisualPrompt, slide.Text)
		if err != nil {
			return SlideRecord{}, fmt.Errorf("image generation: %w", err)
		}
		if p.Opts.CropAspect != "" {
			data, err = cropToAspect(data, p.Opts.CropAspect)
			if err != nil {
				return SlideRecord{}, fmt.Errorf("crop: %w", err)
			}
			mimeType = constants.MIME_PNG
		}
		path := filepath.Join(imageDir, fmt.Sprintf("%02d_v%d%s", slide.Index, v, extForMime(mimeType)))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return SlideRecord{}, fmt.Errorf("save image: %w", err)
		}
		record.ImagePaths = append(record.ImagePaths, path)
		if v == 1 && p.Opts.EmbedImages {
			record.DataURL = dataurl.New(data, mimeType).String()
		}
	}
	return record, nil
}

// upload pushes the theme's images to remote storage. Best effort: failures
// are logged and the local run continues.
func (p *Pipeline) upload(ctx context.Context, theme string, records []SlideRecord) {
	if p.Remote == nil {
		return
	}
	folderID, err := p.Remote.EnsureFolder(ctx, theme)
	if err != nil {
		log.Warnf("upload of %q skipped: %v", theme, err)
		return
	}
	for i := range records {
		for _, path := range records[i].ImagePaths {
			url, err := p.uploadFile(ctx, folderID, path)
			if err != nil {
				log.Warnf("upload %s: %v", filepath.Base(path), err)
				records[i].RemoteURLs = append(records[i].RemoteURLs, "")
				continue
			}
			records[i].RemoteURLs = append(records[i].RemoteURLs, url)
		}
	}
}

func (p *Pipeline) uploadFile(ctx context.Context, folderID string, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return p.Remote.Upload(ctx, folderID, filepath.Base(path), mimeForExt(path), file)
}

func (p *Pipeline) translate(ctx context.Context, records []SlideRecord) {
	if p.Opts.Translate == nil {
		return
	}
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Text
	}
	translated, err := p.Opts.Translate(ctx, texts)
	if err != nil || len(translated) != len(records) {
		log.Warnf("caption translation skipped: %v", err)
		return
	}
	for i := range records {
		records[i].Text = translated[i]
	}
}

// RunBatch runs the pipeline over each theme, at most parallel at a time.
// A theme failure is logged and counted but never stops the batch.
func (p *Pipeline) RunBatch(ctx context.Context, themes []string, parallel int) (int, error) {
	if parallel < 1 {
		parallel = 1
	}
	var errorCnt int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, theme := range themes {
		g.Go(func() error {
			fmt.Printf("Processing %q: ⏳ GENERATING...\n", theme)
			if err := p.RunTheme(ctx, theme); err != nil {
				atomic.AddInt64(&errorCnt, 1)
				fmt.Printf("Processing %q: ❌ FAILED (%v)\n", theme, err)
				return nil
			}
			fmt.Printf("Processing %q: ✅ SUCCESS\n", theme)
			return nil
		})
	}
	_ = g.Wait()
	return int(errorCnt), nil
}

func cropToAspect(data []byte, aspect string) ([]byte, error) {
	parts := strings.SplitN(aspect, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("bad aspect ratio %q", aspect)
	}
	w := util.ParseInt(parts[0], 0)
	h := util.ParseInt(parts[1], 0)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("bad aspect ratio %q", aspect)
	}
	return imgutil.CropToAspect(data, w, h)
}

func extForMime(mimeType string) string {
	switch mimeType {
	case constants.MIME_JPEG:
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func mimeForExt(path string) string {
	if mimeType := util.GetMimeType(path); mimeType != "" {
		return mimeType
	}
	return constants.MIME_PNG
}
