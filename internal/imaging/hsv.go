package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV is a pixel in the 8-bit HSV encoding.
//
// H ranges over 0-179 (half-degrees), S and V over 0-255.
type HSV struct {
	H uint8 `json:"h"` // Hue: 0-179 half-degrees
	S uint8 `json:"s"` // Saturation: 0-255
	V uint8 `json:"v"` // Value: 0-255
}

// HSVImage is a frame re-expressed in HSV.
//
// Pixels are stored row-major, three bytes per pixel in H, S, V order. The
// image always has the same bounds as the frame it was converted from.
type HSVImage struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewHSVImage allocates a zeroed HSV image with the given bounds.
func NewHSVImage(r image.Rectangle) *HSVImage {
	return &HSVImage{
		Pix:    make([]uint8, 3*r.Dx()*r.Dy()),
		Stride: 3 * r.Dx(),
		Rect:   r,
	}
}

// Bounds returns the domain of the image.
func (p *HSVImage) Bounds() image.Rectangle { return p.Rect }

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *HSVImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// HSVAt returns the pixel at (x, y). Points outside the bounds yield the zero HSV.
func (p *HSVImage) HSVAt(x, y int) HSV {
	if !(image.Point{x, y}.In(p.Rect)) {
		return HSV{}
	}
	i := p.PixOffset(x, y)
	return HSV{H: p.Pix[i], S: p.Pix[i+1], V: p.Pix[i+2]}
}

// SetHSV stores c at (x, y). Points outside the bounds are ignored.
func (p *HSVImage) SetHSV(x, y int, c HSV) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = c.H
	p.Pix[i+1] = c.S
	p.Pix[i+2] = c.V
}

// ToHSV converts every pixel of img to HSV.
//
// Alpha is ignored; the colour channels are read as straight 8-bit values. The
// returned image shares no memory with img, so drawing onto img afterwards does not
// change the conversion.
func ToHSV(img image.Image) *HSVImage {
	bounds := img.Bounds()
	out := NewHSVImage(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.SetHSV(x, y, RGBToHSV(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}

	return out
}

// RGBToHSV converts one 8-bit RGB triple to the 8-bit HSV encoding.
//
// go-colorful yields hue in degrees [0,360) and saturation/value in [0,1]. Hue is
// halved and rounded, with 180 wrapping to 0; saturation and value are scaled to
// 0-255 and rounded.
func RGBToHSV(r, g, b uint8) HSV {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := c.Hsv()

	hue := int(math.Round(h / 2))
	if hue >= 180 {
		hue -= 180
	}

	return HSV{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// HSVSample is the colour found at a single pixel, in RGB and HSV form.
type HSVSample struct {
	X   int      `json:"x"`   // X coordinate that was sampled
	Y   int      `json:"y"`   // Y coordinate that was sampled
	Hex string   `json:"hex"` // "#RRGGBB", alpha excluded
	RGB RGBColor `json:"rgb"` // 8-bit RGB components
	HSV HSV      `json:"hsv"` // 8-bit HSV components
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// SampleHSV reads the pixel at (x, y) and reports it in RGB and HSV.
//
// Returns an error if the coordinates are outside the image bounds.
func SampleHSV(img image.Image, x, y int) (*HSVSample, error) {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, _ := img.At(x, y).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

	return &HSVSample{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSV: RGBToHSV(r8, g8, b8),
	}, nil
}
