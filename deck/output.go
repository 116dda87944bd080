package deck

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/natefinch/atomic"
)

// WriteTable writes the per-theme CSV. The file is replaced atomically so a
// crash mid-run never leaves a truncated table behind. With embed on, each
// row carries the first image version as a data url.
func WriteTable(path string, records []SlideRecord, embed bool) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"theme", "slide_number", "title", "visual_prompt", "slide_text", "image_file", "image_file_2", "remote_url", "remote_url_2"}
	if embed {
		header = append(header, "image_data")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.Theme,
			fmt.Sprintf("%d", record.Index),
			record.Title,
			record.VisualPrompt,
			record.Text,
			pick(record.ImagePaths, 0),
			pick(record.ImagePaths, 1),
			pick(record.RemoteURLs, 0),
			pick(record.RemoteURLs, 1),
		}
		if embed {
			row = append(row, record.DataURL)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func pick(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
