//go:build !gocv

package capture

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Camera is unavailable without the gocv build tag.
type Camera struct{}

// OpenCamera always fails with ErrNoCamera. Build with -tags gocv for camera
// support.
func OpenCamera(device int, logger *zap.Logger) (*Camera, error) {
	return nil, errors.Wrapf(ErrNoCamera, "device %d: built without gocv", device)
}

// Read always fails.
func (c *Camera) Read(ctx context.Context) (*image.RGBA, error) {
	return nil, ErrNoCamera
}

// Close does nothing.
func (c *Camera) Close() error { return nil }
