package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Preprocess prepares an ID photo for OCR: downscale to maxWidth, grayscale,
// stretch contrast to the full range and sharpen.
func Preprocess(src image.Image, maxWidth int) *image.NRGBA {
	img := imaging.Clone(src)
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	img = imaging.Grayscale(img)
	img = normalizeContrast(img)
	return imaging.Sharpen(img, 1.0)
}

// normalizeContrast linearly maps the darkest pixel to 0 and the brightest to 255.
// img must already be grayscale.
func normalizeContrast(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return img
	}

	scale := 255.0 / float64(hi-lo)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := uint8(float64(c.R-lo)*scale + 0.5)
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
}
