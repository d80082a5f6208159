package media

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Enhancement holds colour adjustment factors. A factor of 1.0 leaves the
// channel unchanged, 0 produces the degenerate image (black, flat grey or
// greyscale respectively).
type Enhancement struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// Enhance applies brightness, then contrast, then saturation.
func Enhance(img image.Image, e Enhancement) *image.NRGBA {
	out := imaging.Clone(img)

	if e.Brightness != 1.0 {
		f := e.Brightness
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: clamp8(float64(c.R) * f),
				G: clamp8(float64(c.G) * f),
				B: clamp8(float64(c.B) * f),
				A: c.A,
			}
		})
	}

	if e.Contrast != 1.0 {
		f := e.Contrast
		mean := meanLuminance(out)
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: clamp8(mean + f*(float64(c.R)-mean)),
				G: clamp8(mean + f*(float64(c.G)-mean)),
				B: clamp8(mean + f*(float64(c.B)-mean)),
				A: c.A,
			}
		})
	}

	if e.Saturation != 1.0 {
		f := e.Saturation
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			gray := luminance(c)
			return color.NRGBA{
				R: clamp8(gray + f*(float64(c.R)-gray)),
				G: clamp8(gray + f*(float64(c.G)-gray)),
				B: clamp8(gray + f*(float64(c.B)-gray)),
				A: c.A,
			}
		})
	}

	return out
}

// luminance uses the ITU-R 601-2 luma transform.
func luminance(c color.NRGBA) float64 {
	return float64(c.R)*0.299 + float64(c.G)*0.587 + float64(c.B)*0.114
}

// meanLuminance returns the rounded average luma of img.
func meanLuminance(img *image.NRGBA) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += float64(int(luminance(img.NRGBAAt(x, y))))
		}
	}
	return float64(int(sum/float64(n) + 0.5))
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
