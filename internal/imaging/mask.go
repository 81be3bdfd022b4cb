package imaging

import (
	"image"
	"image/color"
)

// Mask pixel values.
const (
	MaskOff uint8 = 0
	MaskOn  uint8 = 255
)

// InRange builds a binary mask from an HSV image.
//
// A mask pixel is on iff every channel of the source pixel lies within the
// corresponding [lower, upper] bound, both ends inclusive. The mask has the same
// bounds as src.
func InRange(src *HSVImage, lower, upper HSV) *image.Gray {
	bounds := src.Bounds()
	mask := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.HSVAt(x, y)
			if c.H < lower.H || c.H > upper.H {
				continue
			}
			if c.S < lower.S || c.S > upper.S {
				continue
			}
			if c.V < lower.V || c.V > upper.V {
				continue
			}
			mask.SetGray(x, y, color.Gray{Y: MaskOn})
		}
	}

	return mask
}

// CountOn returns the number of on pixels in a mask.
func CountOn(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v != MaskOff {
			n++
		}
	}
	return n
}
