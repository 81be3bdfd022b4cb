//go:build gocv

package capture

import (
	"context"
	"image"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Camera reads frames from a video capture device through OpenCV.
type Camera struct {
	device int
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// OpenCamera opens the capture device with the given index.
func OpenCamera(device int, logger *zap.Logger) (*Camera, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(ErrNoCamera, "device %d: %v", device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Wrapf(ErrNoCamera, "device %d did not open", device)
	}

	logger.Info("camera opened", zap.Int("device", device))
	return &Camera{
		device: device,
		vc:     vc,
		mat:    gocv.NewMat(),
		logger: logger,
	}, nil
}

// Read grabs the next frame. A failed grab returns ErrNoFrame.
func (c *Camera) Read(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, errors.Wrapf(ErrNoFrame, "device %d", c.device)
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting camera frame")
	}
	return clone.AsRGBA(img), nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	matErr := c.mat.Close()
	if err := c.vc.Close(); err != nil {
		return errors.Wrapf(err, "releasing camera %d", c.device)
	}
	c.logger.Info("camera released", zap.Int("device", c.device))
	return matErr
}
