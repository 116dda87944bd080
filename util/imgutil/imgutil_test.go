package imgutil

import (
	"bytes"
	"image"
	_ "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	data, err := Placeholder(64, 96, PlaceholderGray)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())

	r, g, b, a := img.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xAAAA), r)
	assert.Equal(t, uint32(0xAAAA), g)
	assert.Equal(t, uint32(0xAAAA), b)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestCropToAspectAlreadyMatching(t *testing.T) {
	data, err := Placeholder(90, 160, PlaceholderGray)
	require.NoError(t, err)
	out, err := CropToAspect(data, 9, 16)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCropToAspect(t *testing.T) {
	data, err := Placeholder(200, 100, PlaceholderGray)
	require.NoError(t, err)
	out, err := CropToAspect(data, 1, 1)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 200)
	assert.LessOrEqual(t, img.Bounds().Dy(), 100)
	// the crop window cannot be larger than the largest fitting square
	assert.LessOrEqual(t, img.Bounds().Dx(), 110)
}

func TestCropToAspectBadArgs(t *testing.T) {
	data, err := Placeholder(10, 10, PlaceholderGray)
	require.NoError(t, err)
	_, err = CropToAspect(data, 0, 16)
	assert.Error(t, err)
	_, err = CropToAspect([]byte("not an image"), 9, 16)
	assert.Error(t, err)
}

func TestConvertFormat(t *testing.T) {
	data, err := Placeholder(10, 10, PlaceholderGray)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, ConvertFormat(bytes.NewReader(data), &out, "jpg"))

	_, format, err := image.Decode(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}
