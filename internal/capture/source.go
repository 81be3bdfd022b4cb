// Package capture provides the frame sources the detection loop pulls from:
// a camera, a video file or stream decoded by ffmpeg, and a sequence of still
// images.
//
// Every Source hands out frames the caller owns. A frame is never reused by
// the source, so it can be drawn on freely.
package capture

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/config"
)

// Source supplies sequential frames.
//
// Read blocks until the next frame is available. Any error ends the stream;
// io.EOF marks a clean end. Close releases the underlying device and is safe to
// call more than once.
type Source interface {
	Read(ctx context.Context) (*image.RGBA, error)
	Close() error
}

var (
	// ErrNoCamera is returned when no camera can be opened, including builds
	// without the gocv tag.
	ErrNoCamera = errors.New("capture: camera not available")

	// ErrNoFrame is returned when an open camera fails to deliver a frame.
	ErrNoFrame = errors.New("capture: no frame")

	// ErrClosed is returned by Read after Close.
	ErrClosed = errors.New("capture: source closed")
)

// Open creates the source selected by cfg.
func Open(cfg config.Config, logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("capture")

	var (
		src Source
		err error
	)
	switch cfg.Source {
	case config.SourceCamera:
		src, err = OpenCamera(cfg.Device, logger)
	case config.SourceVideo:
		src, err = OpenVideo(cfg.Input, logger)
	case config.SourceStills:
		src, err = OpenStills(cfg.Input, logger)
	default:
		err = errors.Errorf("unknown source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}
