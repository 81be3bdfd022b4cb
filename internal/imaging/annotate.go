package imaging

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var labelFont *truetype.Font

func init() {
	var err error
	labelFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// AnnotationStyle controls how boxes and labels are drawn.
type AnnotationStyle struct {
	Color       color.Color // Stroke and text colour
	StrokeWidth float64     // Box outline width in pixels
	FontSize    float64     // Label size in points (pixels at 72 DPI)
	LabelOffset int         // Distance from the box top edge up to the label baseline
}

// DefaultAnnotationStyle is a 2 pixel black outline with black labels whose
// baseline sits 10 pixels above the box.
var DefaultAnnotationStyle = AnnotationStyle{
	Color:       color.Black,
	StrokeWidth: 2,
	FontSize:    16,
	LabelOffset: 10,
}

// Annotator draws boxes and labels directly onto a frame.
//
// Drawing mutates the frame passed to NewAnnotator; there is no intermediate
// buffer. Later draws cover earlier ones where they overlap.
type Annotator struct {
	dc    *gg.Context
	style AnnotationStyle
}

// NewAnnotator returns an Annotator that draws onto frame.
func NewAnnotator(frame *image.RGBA, style AnnotationStyle) *Annotator {
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: style.FontSize}))
	return &Annotator{dc: dc, style: style}
}

// Box strokes the outline of the rectangle spanning (r.Min) to (r.Max).
func (a *Annotator) Box(r image.Rectangle) {
	a.dc.SetColor(a.style.Color)
	a.dc.SetLineWidth(a.style.StrokeWidth)
	a.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	a.dc.Stroke()
}

// Label writes text with its baseline LabelOffset pixels above the top-left
// corner of r. Text that falls outside the frame is clipped.
func (a *Annotator) Label(r image.Rectangle, text string) {
	a.dc.SetColor(a.style.Color)
	a.dc.DrawString(text, float64(r.Min.X), float64(r.Min.Y-a.style.LabelOffset))
}
