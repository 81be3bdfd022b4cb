package capture

import (
	"bufio"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// Video decodes a video file or stream with ffmpeg.
//
// ffmpeg writes every frame to a pipe as a PNG image; Read decodes them one at
// a time. Any input ffmpeg understands works, including rtsp:// and rtmp://
// URLs.
type Video struct {
	input  string
	cmd    *exec.Cmd
	pipe   *io.PipeReader
	frames *pngStream
	logger *zap.Logger

	closeOnce sync.Once
}

// OpenVideo starts ffmpeg on input.
func OpenVideo(input string, logger *zap.Logger) (*Video, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if input == "" {
		return nil, errors.New("video input is empty")
	}

	r, w := io.Pipe()
	cmd := ffmpeg.Input(input).
		Output("pipe:1", ffmpeg.KwArgs{
			"format": "image2pipe",
			"vcodec": "png",
		}).
		GlobalArgs("-loglevel", "error", "-nostdin").
		WithOutput(w).
		WithErrorOutput(zap.NewStdLog(logger.Named("ffmpeg")).Writer()).
		Compile()

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, errors.Wrapf(err, "starting ffmpeg for %q", input)
	}
	go func() {
		// A clean exit closes the pipe with io.EOF.
		w.CloseWithError(cmd.Wait())
	}()

	logger.Info("video source opened", zap.String("input", input), zap.Int("pid", cmd.Process.Pid))
	return &Video{
		input:  input,
		cmd:    cmd,
		pipe:   r,
		frames: newPNGStream(r),
		logger: logger,
	}, nil
}

// Read returns the next decoded frame, or io.EOF once ffmpeg has finished.
// Cancelling ctx interrupts a blocked read and ends the stream.
func (v *Video) Read(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		v.pipe.CloseWithError(ctx.Err())
	})
	defer stop()

	frame, err := v.frames.next()
	switch {
	case err == nil:
		return frame, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err == io.EOF:
		return nil, io.EOF
	case errors.Is(err, io.ErrClosedPipe):
		return nil, ErrClosed
	default:
		return nil, errors.Wrapf(err, "reading %q", v.input)
	}
}

// Close stops ffmpeg.
func (v *Video) Close() error {
	var err error
	v.closeOnce.Do(func() {
		v.pipe.Close()
		if kerr := v.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = errors.Wrap(kerr, "stopping ffmpeg")
		}
		v.logger.Debug("video source closed", zap.String("input", v.input))
	})
	return err
}

// pngStream decodes back-to-back PNG images from one reader.
type pngStream struct {
	r *bufio.Reader
}

func newPNGStream(r io.Reader) *pngStream {
	return &pngStream{r: bufio.NewReaderSize(r, 1<<16)}
}

// next decodes the following image. It returns io.EOF only when the stream
// ends between images; a truncated image is io.ErrUnexpectedEOF.
func (s *pngStream) next() (*image.RGBA, error) {
	if _, err := s.r.Peek(1); err != nil {
		return nil, err
	}
	img, err := png.Decode(s.r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding frame")
	}
	return clone.AsRGBA(img), nil
}
