package sink

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/zostay/go-cef"
	"github.com/zostay/go-cef/header"
)

// Writer writes one line per event to an io.Writer.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	lb     header.Break
	closed bool
	logger *zap.Logger
}

// NewWriter returns a sink writing to w with the given line break. If w is
// also an io.Closer, Close closes it.
func NewWriter(w io.Writer, lb header.Break, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{w: w, lb: lb.OrDefault(), logger: logger}
}

// Send writes the event. Lines from concurrent calls are never interleaved.
func (s *Writer) Send(ctx context.Context, e *cef.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := e.Format()
	if err != nil {
		return &FormatError{err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, err := io.WriteString(s.w, line+s.lb.String()); err != nil {
		return err
	}

	s.logger.Debug("wrote CEF line", zap.String("signatureId", e.SignatureID))
	return nil
}

// Close marks the sink closed and closes the underlying writer if it can be
// closed.
func (s *Writer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if c, isCloser := s.w.(io.Closer); isCloser {
		return c.Close()
	}
	return nil
}
