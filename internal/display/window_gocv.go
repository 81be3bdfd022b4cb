//go:build gocv

package display

import (
	"image"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Window shows frames in OpenCV highgui windows, one per name.
type Window struct {
	logger *zap.Logger

	mu      sync.Mutex
	windows map[string]*gocv.Window
	last    *gocv.Window
	closed  bool
}

// NewWindow opens the window called name up front so it appears before the
// first frame arrives.
func NewWindow(name string, logger *zap.Logger) (*Window, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Window{logger: logger, windows: make(map[string]*gocv.Window)}
	if _, err := w.window(name); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) window(name string) (*gocv.Window, error) {
	if win, ok := w.windows[name]; ok {
		return win, nil
	}
	win := gocv.NewWindow(name)
	if win == nil {
		return nil, errors.Wrapf(ErrNoWindow, "window %q", name)
	}
	w.windows[name] = win
	w.logger.Debug("window opened", zap.String("name", name))
	return win, nil
}

// Show converts frame to a Mat and draws it.
func (w *Window) Show(name string, frame image.Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.Wrapf(ErrNoWindow, "window %q closed", name)
	}

	win, err := w.window(name)
	if err != nil {
		return err
	}
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return errors.Wrap(err, "converting frame")
	}
	defer mat.Close()

	win.IMShow(mat)
	w.last = win
	return nil
}

// PollKey runs the highgui event loop for wait and returns the key pressed.
func (w *Window) PollKey(wait time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.last == nil {
		time.Sleep(wait)
		return NoKey
	}

	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return w.last.WaitKey(ms)
}

// Close destroys every window.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	for name, win := range w.windows {
		if cerr := win.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing window %q", name)
		}
	}
	w.windows = nil
	w.last = nil
	return err
}
