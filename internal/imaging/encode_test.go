package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePNG(t *testing.T) {
	img := createInMemoryImage(40, 30, color.RGBA{0, 0, 255, 255})

	res, err := EncodePNG(img, 1)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
	assert.Equal(t, "image/png", res.MimeType)

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	r, g, b, _ := decoded.At(20, 15).RGBA()
	assert.Equal(t, []uint32{0, 0, 255}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestEncodePNG_Scale(t *testing.T) {
	img := createInMemoryImage(40, 30, color.White)

	tests := []struct {
		scale      float64
		wantWidth  int
		wantHeight int
	}{
		{0, 40, 30},
		{1, 40, 30},
		{2, 80, 60},
		{0.5, 20, 15},
	}

	for _, tt := range tests {
		res, err := EncodePNG(img, tt.scale)
		require.NoError(t, err, "scale %g", tt.scale)
		assert.Equal(t, tt.wantWidth, res.Width, "scale %g", tt.scale)
		assert.Equal(t, tt.wantHeight, res.Height, "scale %g", tt.scale)
	}
}

func TestEncodePNG_BadScale(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	_, err := EncodePNG(img, -1)
	assert.Error(t, err)

	_, err = EncodePNG(img, 0.01)
	assert.Error(t, err)
}
