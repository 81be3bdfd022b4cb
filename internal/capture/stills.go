package capture

import (
	"context"
	"image"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/imaging"
)

// Stills replays image files as frames, in lexical path order.
type Stills struct {
	paths  []string
	logger *zap.Logger

	mu     sync.Mutex
	next   int
	closed bool
}

// OpenStills expands pattern with filepath.Glob. The pattern must match at
// least one file.
func OpenStills(pattern string, logger *zap.Logger) (*Stills, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad stills pattern %q", pattern)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no files match %q", pattern)
	}
	sort.Strings(paths)

	logger.Info("stills source opened", zap.String("pattern", pattern), zap.Int("files", len(paths)))
	return &Stills{paths: paths, logger: logger}, nil
}

// Len returns the number of frames in the sequence.
func (s *Stills) Len() int { return len(s.paths) }

// Read decodes the next file. It returns io.EOF after the last one.
func (s *Stills) Read(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.next >= len(s.paths) {
		s.mu.Unlock()
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++
	s.mu.Unlock()

	s.logger.Debug("reading still", zap.String("path", path))
	return imaging.LoadFrame(path)
}

// Close ends the sequence.
func (s *Stills) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
