// Package display provides the sinks annotated frames are shown on: an OpenCV
// window, or a small web server for machines without a screen.
package display

import (
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/config"
)

// NoKey is returned by PollKey when no key was pressed.
const NoKey = -1

// Sink renders frames and reports key presses.
type Sink interface {
	// Show renders frame in the view called name.
	Show(name string, frame image.Image) error

	// PollKey waits up to wait for a key press and returns its code, or NoKey.
	PollKey(wait time.Duration) int

	// Close tears down every view. It is safe to call more than once.
	Close() error
}

// ErrNoWindow is returned when no window can be created, including builds
// without the gocv tag.
var ErrNoWindow = errors.New("display: window not available")

// IsQuit reports whether key is the quit key. Only the low byte is compared,
// so modifier bits some platforms set are ignored.
func IsQuit(key int) bool {
	return key != NoKey && key&0xFF == 'q'
}

// Open creates the sink selected by cfg.
func Open(cfg config.Config, logger *zap.Logger) (Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("display")

	var (
		sink Sink
		err  error
	)
	switch cfg.Display {
	case config.DisplayWindow:
		sink, err = NewWindow(cfg.Window, logger)
	case config.DisplayWeb:
		w := NewWeb(logger)
		if err = w.Start(cfg.WebAddr); err == nil {
			sink = w
		}
	default:
		err = errors.Errorf("unknown display %q", cfg.Display)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}
