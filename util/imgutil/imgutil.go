package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	"github.com/muesli/smartcrop/nfnt"
	_ "golang.org/x/image/webp"
)

// Read image data from input, detect it's format (png / jpg (jpeg) / webp / gif / bmp, etc),
// and convert to target format using best possible quality. Write converted image to output.
// ext : image format extension, with or without leading dot.
func ConvertFormat(input io.Reader, output io.Writer, ext string) error {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("%s: %w", ext, err)
	}
	img, err := imaging.Decode(input)
	if err != nil {
		return err
	}
	return imaging.Encode(output, img, format)
}

// Placeholder returns the PNG bytes of a w x h image filled with c.
// Used in place of real renders when no image API key is configured.
func Placeholder(w, h int, c color.Color) ([]byte, error) {
	img := imaging.New(w, h, c)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PlaceholderGray is the neutral placeholder fill.
var PlaceholderGray = color.NRGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF}

// CropToAspect decodes data, finds the most salient crop window with the
// given aspect ratio (e.g. 9:16) and returns the cropped image re-encoded
// as PNG. If the image already has the target ratio it is returned as is.
func CropToAspect(data []byte, aspectW, aspectH int) ([]byte, error) {
	if aspectW <= 0 || aspectH <= 0 {
		return nil, fmt.Errorf("invalid aspect %d:%d", aspectW, aspectH)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w*aspectH == h*aspectW {
		return data, nil
	}

	// Largest window with the target ratio that fits inside the image.
	cropW, cropH := w, w*aspectH/aspectW
	if cropH > h {
		cropW, cropH = h*aspectW/aspectH, h
	}
	analyzer := smartcrop.NewAnalyzer(nfnt.NewDefaultResizer())
	window, err := analyzer.FindBestCrop(img, cropW, cropH)
	if err != nil {
		// Fall back to a center crop.
		window = image.Rect((w-cropW)/2, (h-cropH)/2, (w-cropW)/2+cropW, (h-cropH)/2+cropH)
	}
	cropped := imaging.Crop(img, window)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
