package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

var (
	// ErrDecode marks input that is not a readable image.
	ErrDecode = errors.New("image decode failed")
	// ErrNoText marks an image from which the engine recovered nothing.
	ErrNoText = errors.New("no text recognized")
)

// Decode parses image bytes and returns the image with its format name.
// Empty, malformed and unsupported inputs all wrap ErrDecode.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !constants.IsAllowedImageFormat(format) {
		return nil, format, fmt.Errorf("%w: unsupported format %q", ErrDecode, format)
	}
	return img, format, nil
}

// toRGBA flattens paletted, gray, CMYK and YCbCr images into 8-bit RGBA,
// the mode tesseract handles most consistently.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}
