// Package imageprep shrinks receipt photos before they are sent to the model.
package imageprep

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// AllowedExtensions are the receipt file types accepted for scanning.
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".heic": "image/heic",
	".pdf":  "application/pdf",
}

// MediaTypeFor returns the media type for filename, or false when the
// extension is not accepted.
func MediaTypeFor(filename string) (string, bool) {
	mt, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return mt, ok
}

// Prepared is the payload to attach to the completion request.
type Prepared struct {
	MediaType string
	Data      []byte
	Resized   bool
}

// Prepare downsizes JPEG, PNG and GIF images so neither side exceeds
// maxDimension, re-encoding them as JPEG. Other types (HEIC, PDF) and images
// already within bounds pass through unchanged. maxDimension <= 0 disables
// resizing.
func Prepare(data []byte, mediaType string, maxDimension int) (Prepared, error) {
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	out := Prepared{MediaType: mediaType, Data: data}

	switch mediaType {
	case "image/jpeg", "image/png", "image/gif":
	default:
		return out, nil
	}
	if maxDimension <= 0 {
		return out, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Prepared{}, fmt.Errorf("decode %s receipt: %w", mediaType, err)
	}

	b := img.Bounds()
	if b.Dx() <= maxDimension && b.Dy() <= maxDimension {
		return out, nil
	}

	resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return Prepared{}, fmt.Errorf("encode resized receipt: %w", err)
	}
	return Prepared{MediaType: "image/jpeg", Data: buf.Bytes(), Resized: true}, nil
}
