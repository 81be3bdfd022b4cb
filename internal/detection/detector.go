package detection

import (
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/imaging"
)

// MinRegionArea is the contour area a region must strictly exceed to be kept.
// Smaller matches are treated as sensor noise.
const MinRegionArea = 500.0

// Region is a labelled area found in one frame.
type Region struct {
	// Bounds is the bounding rectangle of the contour. Bounds.Min is the
	// top-left pixel; Bounds.Max is exclusive.
	Bounds image.Rectangle `json:"bounds"`

	// Area is the polygon area enclosed by the contour, in square pixels.
	Area float64 `json:"area"`

	// Label is the hue classification of the pixel at the centre of Bounds.
	Label ColorName `json:"label"`

	// Range is the name of the detection range whose mask produced the region.
	// It is informational only and may differ from Label.
	Range string `json:"range"`
}

// Center returns the sampling point of the region: x + w/2, y + h/2 with
// integer division.
func (r Region) Center() image.Point {
	return image.Point{
		X: r.Bounds.Min.X + r.Bounds.Dx()/2,
		Y: r.Bounds.Min.Y + r.Bounds.Dy()/2,
	}
}

// keepArea reports whether a contour of the given area becomes a region.
func keepArea(area float64) bool {
	return area > MinRegionArea
}

// Detector finds and annotates coloured regions.
//
// A Detector holds no per-frame state; Detect and Annotate may be called any
// number of times and give the same result for the same pixels.
type Detector struct {
	logger *zap.Logger
	style  imaging.AnnotationStyle
}

// NewDetector creates a Detector that logs kept regions at debug level.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		logger: logger,
		style:  imaging.DefaultAnnotationStyle,
	}
}

// Detect returns every region of frame matched by DetectionRanges.
//
// Regions are ordered by range (Red, Green, Blue) and, within a range, by
// contour discovery order. Overlapping regions from different ranges are all
// returned.
func (d *Detector) Detect(frame image.Image) []Region {
	hsv := imaging.ToHSV(frame)
	var regions []Region

	for _, cr := range DetectionRanges {
		mask := imaging.InRange(hsv, cr.Lower, cr.Upper)
		contours, _ := FindContours(mask)

		for _, contour := range contours {
			area := ContourArea(contour)
			if !keepArea(area) {
				continue
			}

			region := Region{
				Bounds: BoundingRect(contour),
				Area:   area,
				Range:  cr.Name,
			}
			c := region.Center()
			region.Label = ClassifyHue(int(hsv.HSVAt(c.X, c.Y).H))

			d.logger.Debug("region detected",
				zap.String("range", cr.Name),
				zap.String("label", string(region.Label)),
				zap.Stringer("bounds", region.Bounds),
				zap.Float64("area", area),
			)
			regions = append(regions, region)
		}
	}

	return regions
}

// Annotate detects regions in frame and draws them onto it with Draw. The
// frame is modified in place and returned.
func (d *Detector) Annotate(frame *image.RGBA) *image.RGBA {
	d.Draw(frame, d.Detect(frame))
	return frame
}

// Draw strokes each region's bounding box and writes its label above it, in
// slice order. Later regions cover earlier ones where they overlap.
func (d *Detector) Draw(frame *image.RGBA, regions []Region) {
	if len(regions) == 0 {
		return
	}
	a := imaging.NewAnnotator(frame, d.style)
	for _, r := range regions {
		a.Box(r.Bounds)
		a.Label(r.Bounds, string(r.Label))
	}
}
