package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// EncodedImage is an image serialised for a JSON response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG, first resizing it by scale with Lanczos
// resampling. A scale of 0 or 1 keeps the original size.
func EncodePNG(img image.Image, scale float64) (*EncodedImage, error) {
	if scale < 0 {
		return nil, errors.Errorf("scale must be positive, got %g", scale)
	}

	out := img
	if scale != 0 && scale != 1 {
		w := int(float64(img.Bounds().Dx()) * scale)
		h := int(float64(img.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, errors.Errorf("scale %g leaves an empty image", scale)
		}
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, errors.Wrap(err, "encoding png")
	}

	return &EncodedImage{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
