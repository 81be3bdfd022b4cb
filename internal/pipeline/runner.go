// Package pipeline runs the capture, detect and display loop.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/capture"
	"github.com/ironsheep/colordetect/internal/detection"
	"github.com/ironsheep/colordetect/internal/display"
)

// DefaultKeyWait is how long each iteration polls for a key press.
const DefaultKeyWait = time.Millisecond

// StopReason says why Run returned.
type StopReason string

// Stop reasons.
const (
	StopEndOfStream StopReason = "end of stream"
	StopReadFailed  StopReason = "read failed"
	StopQuitKey     StopReason = "quit key"
	StopCancelled   StopReason = "cancelled"
	StopShowFailed  StopReason = "show failed"
)

// Stats summarises one Run.
type Stats struct {
	Frames  int        // frames detected and shown
	Regions int        // regions drawn over all frames
	Reason  StopReason // why the loop ended
}

// Options configure a Runner.
type Options struct {
	// Window is the view name passed to the sink.
	Window string

	// KeyWait is passed to PollKey each iteration. Zero means DefaultKeyWait.
	KeyWait time.Duration

	Logger *zap.Logger
}

// Runner owns a source and a sink for the lifetime of one Run.
type Runner struct {
	source   capture.Source
	sink     display.Sink
	detector *detection.Detector
	window   string
	keyWait  time.Duration
	logger   *zap.Logger
}

// NewRunner takes ownership of source and sink. Both are closed when Run
// returns.
func NewRunner(source capture.Source, sink display.Sink, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keyWait := opts.KeyWait
	if keyWait <= 0 {
		keyWait = DefaultKeyWait
	}
	return &Runner{
		source:   source,
		sink:     sink,
		detector: detection.NewDetector(logger.Named("detector")),
		window:   opts.Window,
		keyWait:  keyWait,
		logger:   logger,
	}
}

// Run reads, annotates and shows frames until the source ends, the quit key
// is pressed or ctx is cancelled.
//
// A failed read ends the loop normally and is not returned. The source and the
// sink are each closed exactly once on every exit path, and their close errors
// are returned together.
func (r *Runner) Run(ctx context.Context) (stats Stats, err error) {
	defer func() {
		err = multierr.Append(err, r.release())
	}()

	r.logger.Info("detection loop started", zap.String("window", r.window))
	for {
		if ctx.Err() != nil {
			stats.Reason = StopCancelled
			break
		}

		frame, rerr := r.source.Read(ctx)
		if rerr != nil {
			switch {
			case ctx.Err() != nil:
				stats.Reason = StopCancelled
			case rerr == io.EOF:
				stats.Reason = StopEndOfStream
			default:
				stats.Reason = StopReadFailed
				r.logger.Warn("frame read failed", zap.Error(rerr))
			}
			break
		}

		regions := r.detector.Detect(frame)
		r.detector.Draw(frame, regions)
		stats.Regions += len(regions)

		if serr := r.sink.Show(r.window, frame); serr != nil {
			stats.Reason = StopShowFailed
			err = errors.Wrap(serr, "showing frame")
			break
		}
		stats.Frames++

		if display.IsQuit(r.sink.PollKey(r.keyWait)) {
			stats.Reason = StopQuitKey
			break
		}
	}

	r.logger.Info("detection loop stopped",
		zap.String("reason", string(stats.Reason)),
		zap.Int("frames", stats.Frames),
		zap.Int("regions", stats.Regions),
	)
	return stats, err
}

func (r *Runner) release() error {
	var err error
	if cerr := r.source.Close(); cerr != nil {
		err = multierr.Append(err, errors.Wrap(cerr, "releasing source"))
	}
	if cerr := r.sink.Close(); cerr != nil {
		err = multierr.Append(err, errors.Wrap(cerr, "closing display"))
	}
	return err
}
