package imageprep_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/SscSPs/medisave/internal/utils/imageprep"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaTypeFor(t *testing.T) {
	mt, ok := imageprep.MediaTypeFor("Receipt.JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", mt)

	mt, ok = imageprep.MediaTypeFor("scan.pdf")
	assert.True(t, ok)
	assert.Equal(t, "application/pdf", mt)

	_, ok = imageprep.MediaTypeFor("notes.txt")
	assert.False(t, ok)
}

func TestPrepare_DownscalesLargeImage(t *testing.T) {
	data := pngBytes(t, 400, 200)

	out, err := imageprep.Prepare(data, "image/png", 100)
	require.NoError(t, err)
	assert.True(t, out.Resized)
	assert.Equal(t, "image/jpeg", out.MediaType)

	img, _, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestPrepare_SmallImagePassesThrough(t *testing.T) {
	data := pngBytes(t, 50, 40)

	out, err := imageprep.Prepare(data, "image/png", 100)
	require.NoError(t, err)
	assert.False(t, out.Resized)
	assert.Equal(t, "image/png", out.MediaType)
	assert.Equal(t, data, out.Data)
}

func TestPrepare_NonImagePassesThrough(t *testing.T) {
	data := []byte("%PDF-1.4 fake")
	out, err := imageprep.Prepare(data, "application/pdf", 100)
	require.NoError(t, err)
	assert.False(t, out.Resized)
	assert.Equal(t, data, out.Data)
}

func TestPrepare_CorruptImage(t *testing.T) {
	_, err := imageprep.Prepare([]byte("not a png"), "image/png", 100)
	assert.Error(t, err)
}
