package media

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Format is an output image encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
)

// ErrUnsupportedFormat is returned for output formats other than webp, jpg and png.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat accepts webp, jpg, jpeg and png in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "webp":
		return FormatWebP, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// EncodeWebP writes img as lossy WebP at quality 0-100.
func EncodeWebP(w io.Writer, img image.Image, quality int) error {
	if IsVipsAvailable() {
		data, err := encodeWebPVips(img, quality)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return fmt.Errorf("webp encode failed: %w", err)
	}
	return nil
}

// Encode writes img in the given format. quality applies to webp and jpg.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case FormatWebP:
		return EncodeWebP(w, img, quality)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
