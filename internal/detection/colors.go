package detection

import (
	"math"

	"github.com/ironsheep/colordetect/internal/imaging"
)

// ColorName is the label given to a detected region.
type ColorName string

// Region labels produced by ClassifyHue.
const (
	Red     ColorName = "Red"
	Yellow  ColorName = "Yellow"
	Green   ColorName = "Green"
	Blue    ColorName = "Blue"
	Purple  ColorName = "Purple"
	Unknown ColorName = "Unknown"
)

// HueBand is an open hue interval: a hue h belongs to the band iff
// Above < h < Below.
type HueBand struct {
	Name  ColorName
	Above int
	Below int
}

// Contains reports whether hue lies strictly inside the band.
func (b HueBand) Contains(hue int) bool {
	return b.Above < hue && hue < b.Below
}

// NamingBands is the ordered table ClassifyHue walks; the first band containing
// the hue names it. Red wraps around the hue circle and so takes two bands.
//
// The boundary values 10-20, 35, 85, 130 and 170 belong to no band and classify
// as Unknown.
var NamingBands = []HueBand{
	{Name: Red, Above: math.MinInt, Below: 10},
	{Name: Red, Above: 170, Below: math.MaxInt},
	{Name: Yellow, Above: 20, Below: 35},
	{Name: Green, Above: 35, Below: 85},
	{Name: Blue, Above: 85, Below: 130},
	{Name: Purple, Above: 130, Below: 170},
}

// ClassifyHue names a hue given in half-degrees (0-179).
//
// It is a pure function of hue; every integer maps to exactly one name.
func ClassifyHue(hue int) ColorName {
	for _, band := range NamingBands {
		if band.Contains(hue) {
			return band.Name
		}
	}
	return Unknown
}

// ColorRange is a named, inclusive HSV box used to build a detection mask.
type ColorRange struct {
	Name  string
	Lower imaging.HSV
	Upper imaging.HSV
}

// DetectionRanges are the masks searched for regions, in search order.
//
// These bounds are not derived from NamingBands and must not be merged with it.
var DetectionRanges = []ColorRange{
	{Name: "Red", Lower: imaging.HSV{H: 0, S: 120, V: 70}, Upper: imaging.HSV{H: 10, S: 255, V: 255}},
	{Name: "Green", Lower: imaging.HSV{H: 35, S: 100, V: 100}, Upper: imaging.HSV{H: 85, S: 255, V: 255}},
	{Name: "Blue", Lower: imaging.HSV{H: 100, S: 150, V: 0}, Upper: imaging.HSV{H: 140, S: 255, V: 255}},
}
