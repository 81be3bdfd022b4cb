//go:build !gocv

package display

import (
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Window is unavailable without the gocv build tag.
type Window struct{}

// NewWindow always fails with ErrNoWindow. Build with -tags gocv, or use the
// web display.
func NewWindow(name string, logger *zap.Logger) (*Window, error) {
	return nil, errors.Wrapf(ErrNoWindow, "window %q: built without gocv", name)
}

// Show always fails.
func (w *Window) Show(name string, frame image.Image) error { return ErrNoWindow }

// PollKey never reports a key.
func (w *Window) PollKey(wait time.Duration) int { return NoKey }

// Close does nothing.
func (w *Window) Close() error { return nil }
