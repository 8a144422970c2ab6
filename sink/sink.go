// Package sink delivers formatted CEF lines somewhere. A Writer sends lines to
// any io.Writer, such as a file, a pipe, or a syslog connection. A Kafka sink
// publishes each line to a topic inside a CloudEvents envelope.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/zostay/go-cef"
)

// ErrClosed is returned by Send after Close has been called.
var ErrClosed = errors.New("sink is closed")

// FormatError is returned by Send when the event cannot be formatted, as
// opposed to when the formatted line cannot be delivered.
type FormatError struct {
	Err error
}

// Error returns the error message.
func (e *FormatError) Error() string {
	return fmt.Sprintf("event cannot be formatted: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Sink accepts events for delivery. Implementations are safe for concurrent
// use.
type Sink interface {
	// Send formats the event and delivers it. An event that cannot be
	// formatted is not delivered and a *FormatError is returned.
	Send(ctx context.Context, e *cef.Event) error

	// Close releases the resources held by the sink.
	Close() error
}
