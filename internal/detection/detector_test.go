package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var (
	black  = color.RGBA{0, 0, 0, 255}
	white  = color.RGBA{255, 255, 255, 255}
	red    = color.RGBA{255, 0, 0, 255}
	green  = color.RGBA{0, 255, 0, 255}
	blue   = color.RGBA{0, 0, 255, 255}
	yellow = color.RGBA{255, 255, 0, 255}
	violet = color.RGBA{128, 0, 255, 255} // H 135: inside the Blue range, named Purple
	orange = color.RGBA{255, 85, 0, 255}  // H 10: inside the Red range, named Unknown
)

// newFrame creates a width x height frame filled with bg.
func newFrame(width, height int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	return img
}

// paint fills r (Max exclusive) with c.
func paint(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func isDark(c color.RGBA) bool {
	return c.R < 128 && c.G < 128 && c.B < 128
}

func newTestDetector(t *testing.T) *Detector {
	return NewDetector(zaptest.NewLogger(t))
}

func TestDetect_SingleRedBlock(t *testing.T) {
	frame := newFrame(60, 60, black)
	paint(frame, image.Rect(5, 5, 55, 55), red)

	regions := newTestDetector(t).Detect(frame)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, image.Rect(5, 5, 55, 55), r.Bounds)
	assert.Equal(t, 49.0*49.0, r.Area)
	assert.Equal(t, Red, r.Label)
	assert.Equal(t, "Red", r.Range)
	assert.Equal(t, image.Point{X: 30, Y: 30}, r.Center())
}

func TestDetect_TwoBlueBlocks(t *testing.T) {
	frame := newFrame(100, 50, black)
	paint(frame, image.Rect(5, 10, 35, 40), blue)
	paint(frame, image.Rect(60, 10, 90, 40), blue)

	regions := newTestDetector(t).Detect(frame)
	require.Len(t, regions, 2)

	assert.Equal(t, image.Rect(5, 10, 35, 40), regions[0].Bounds)
	assert.Equal(t, image.Rect(60, 10, 90, 40), regions[1].Bounds)
	for _, r := range regions {
		assert.Equal(t, Blue, r.Label)
		assert.Equal(t, "Blue", r.Range)
	}
}

func TestDetect_EmptyFrame(t *testing.T) {
	assert.Empty(t, newTestDetector(t).Detect(newFrame(40, 40, black)))
	assert.Empty(t, newTestDetector(t).Detect(newFrame(40, 40, white)))
}

func TestDetect_SmallBlockIgnored(t *testing.T) {
	frame := newFrame(60, 60, black)
	paint(frame, image.Rect(10, 10, 30, 30), red) // area 19*19

	assert.Empty(t, newTestDetector(t).Detect(frame))
}

func TestDetect_AreaThresholdIsStrict(t *testing.T) {
	d := newTestDetector(t)

	// A 21x26 block has contour area 20*25 = 500.
	atThreshold := newFrame(200, 200, black)
	paint(atThreshold, image.Rect(10, 10, 31, 36), red)
	assert.Empty(t, d.Detect(atThreshold))

	// A 4x168 block has contour area 3*167 = 501.
	overThreshold := newFrame(200, 200, black)
	paint(overThreshold, image.Rect(10, 10, 14, 178), red)
	regions := d.Detect(overThreshold)
	require.Len(t, regions, 1)
	assert.Equal(t, 501.0, regions[0].Area)
}

func TestDetect_RangeOrderBeforeRasterOrder(t *testing.T) {
	frame := newFrame(120, 60, black)
	paint(frame, image.Rect(5, 5, 45, 45), blue)
	paint(frame, image.Rect(60, 15, 100, 55), green)

	regions := newTestDetector(t).Detect(frame)
	require.Len(t, regions, 2)
	assert.Equal(t, "Green", regions[0].Range)
	assert.Equal(t, "Blue", regions[1].Range)
}

func TestDetect_LabelComesFromHueNotRange(t *testing.T) {
	t.Run("blue range named purple", func(t *testing.T) {
		frame := newFrame(60, 60, black)
		paint(frame, image.Rect(10, 10, 50, 50), violet)

		regions := newTestDetector(t).Detect(frame)
		require.Len(t, regions, 1)
		assert.Equal(t, "Blue", regions[0].Range)
		assert.Equal(t, Purple, regions[0].Label)
	})

	t.Run("red range named unknown", func(t *testing.T) {
		frame := newFrame(60, 60, black)
		paint(frame, image.Rect(10, 10, 50, 50), orange)

		regions := newTestDetector(t).Detect(frame)
		require.Len(t, regions, 1)
		assert.Equal(t, "Red", regions[0].Range)
		assert.Equal(t, Unknown, regions[0].Label)
	})
}

func TestDetect_YellowIsNeverSearched(t *testing.T) {
	frame := newFrame(60, 60, black)
	paint(frame, image.Rect(10, 10, 50, 50), yellow)

	assert.Empty(t, newTestDetector(t).Detect(frame))
}

func TestDetect_RingSamplesHoleCentre(t *testing.T) {
	frame := newFrame(80, 80, black)
	paint(frame, image.Rect(10, 10, 70, 70), green)
	paint(frame, image.Rect(25, 25, 55, 55), black)

	regions := newTestDetector(t).Detect(frame)
	require.Len(t, regions, 2, "outer border and hole border")

	assert.Equal(t, image.Rect(10, 10, 70, 70), regions[0].Bounds)
	assert.Equal(t, image.Rect(24, 24, 56, 56), regions[1].Bounds)
	for _, r := range regions {
		assert.Equal(t, "Green", r.Range)
		// the centre pixel is black, hue 0
		assert.Equal(t, Red, r.Label)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	frame := newFrame(120, 80, black)
	paint(frame, image.Rect(5, 5, 45, 45), red)
	paint(frame, image.Rect(60, 20, 110, 70), blue)

	d := newTestDetector(t)
	assert.Equal(t, d.Detect(frame), d.Detect(frame))

	// A second detector sees the same regions.
	assert.Equal(t, d.Detect(frame), NewDetector(nil).Detect(frame))
}

func TestDetect_LogsEachRegion(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDetector(zap.New(core))

	frame := newFrame(100, 50, black)
	paint(frame, image.Rect(5, 10, 35, 40), blue)
	paint(frame, image.Rect(60, 10, 90, 40), red)
	d.Detect(frame)

	entries := logs.FilterMessage("region detected").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Red", entries[0].ContextMap()["range"])
	assert.Equal(t, "Blue", entries[1].ContextMap()["range"])
}

func TestAnnotate_DrawsInPlace(t *testing.T) {
	frame := newFrame(100, 100, white)
	paint(frame, image.Rect(20, 30, 60, 70), red)

	out := newTestDetector(t).Annotate(frame)
	require.Same(t, frame, out)

	// Box outline straddles the region edge.
	assert.True(t, isDark(frame.RGBAAt(19, 50)), "left edge")
	assert.True(t, isDark(frame.RGBAAt(60, 50)), "right edge")
	assert.True(t, isDark(frame.RGBAAt(40, 29)), "top edge")
	assert.True(t, isDark(frame.RGBAAt(40, 70)), "bottom edge")
	assert.Equal(t, red, frame.RGBAAt(40, 50), "interior untouched")

	// Label text sits above the box, baseline at y=20.
	dark := 0
	for y := 5; y <= 21; y++ {
		for x := 20; x < 60; x++ {
			if isDark(frame.RGBAAt(x, y)) {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "label pixels above the box")
}

func TestAnnotate_NothingDetected(t *testing.T) {
	frame := newFrame(40, 40, white)
	before := make([]uint8, len(frame.Pix))
	copy(before, frame.Pix)

	newTestDetector(t).Annotate(frame)
	assert.Equal(t, before, frame.Pix)
}

func TestAnnotate_MatchesDetect(t *testing.T) {
	a := newFrame(80, 80, white)
	paint(a, image.Rect(10, 20, 50, 60), blue)
	b := newFrame(80, 80, white)
	paint(b, image.Rect(10, 20, 50, 60), blue)

	d := newTestDetector(t)
	d.Annotate(a)
	d.Annotate(b)
	assert.Equal(t, a.Pix, b.Pix)
}
