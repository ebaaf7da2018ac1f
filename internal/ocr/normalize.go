package ocr

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Normalize re-encodes images Tesseract may not read as PNG. PNG and JPEG
// pass through untouched, as does anything that fails to decode; the engine
// reports those.
func Normalize(data []byte) []byte {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format == "png" || format == "jpeg" {
		return data
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return data
	}
	return buf.Bytes()
}
