package field

import (
	"strings"

	"go.uber.org/zap"
)

// lineBreaks are the characters that no field may contain.
const lineBreaks = "\r\n"

var (
	// headerEscapes prefixes each backslash and pipe with a backslash. A
	// strings.Replacer makes a single pass over the input, so the backslashes
	// it inserts are never escaped again.
	headerEscapes = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

	// extensionEscapes prefixes each backslash and equal sign with a
	// backslash.
	extensionEscapes = strings.NewReplacer(`\`, `\\`, `=`, `\=`)
)

// Escaper performs field escaping and reports what it did to an optional
// logger. An Escaper holds no mutable state once constructed, so a single
// Escaper may be shared freely between goroutines.
type Escaper struct {
	log *zap.Logger
}

// Option configures an Escaper.
type Option func(*Escaper)

// WithLogger sets the logger that receives a diagnostic entry for every
// escape. Absent values are logged at warn level, rejected values at error
// level, and successful escapes at debug level. A nil logger disables logging.
func WithLogger(log *zap.Logger) Option {
	return func(e *Escaper) {
		if log == nil {
			log = zap.NewNop()
		}
		e.log = log
	}
}

// NewEscaper returns an Escaper configured with the given options. Without
// options, nothing is logged.
func NewEscaper(opts ...Option) *Escaper {
	e := &Escaper{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// defaultEscaper backs the package-level functions. It is never modified.
var defaultEscaper = NewEscaper()

// EscapeField escapes a header field. A nil value means no value was supplied
// and is returned as nil without error. See Escape for the rules applied to a
// non-nil value.
func (e *Escaper) EscapeField(value *string) (*string, error) {
	if value == nil {
		e.log.Warn("tried to escape a nil CEF field")
		return nil, nil
	}

	escaped, err := e.Escape(*value)
	if err != nil {
		return nil, err
	}

	return &escaped, nil
}

// Escape escapes a header field. Every backslash and every pipe is prefixed
// with a backslash. If the value contains a carriage return or a line feed
// anywhere, an *InvalidFieldError is returned instead.
//
// Escaping is not idempotent. Escaping an already escaped value escapes the
// backslashes added the first time around.
func (e *Escaper) Escape(value string) (string, error) {
	return e.escape(Header, headerEscapes, value)
}

// EscapeExtensionValue escapes the value half of an extension pair. Every
// backslash and every equal sign is prefixed with a backslash. Pipes are left
// alone. Line breaks are rejected exactly as they are by Escape.
func (e *Escaper) EscapeExtensionValue(value string) (string, error) {
	return e.escape(ExtensionValue, extensionEscapes, value)
}

func (e *Escaper) escape(class Class, r *strings.Replacer, value string) (string, error) {
	if strings.ContainsAny(value, lineBreaks) {
		e.log.Error("the CEF field contained an invalid character",
			zap.Stringer("class", class),
			zap.String("value", value),
		)
		return "", &InvalidFieldError{Class: class, Value: value}
	}

	escaped := r.Replace(value)

	e.log.Debug("escaped CEF field",
		zap.Stringer("class", class),
		zap.String("value", value),
		zap.String("escaped", escaped),
	)

	return escaped, nil
}

// EscapeField calls EscapeField on an Escaper that does no logging.
func EscapeField(value *string) (*string, error) {
	return defaultEscaper.EscapeField(value)
}

// Escape calls Escape on an Escaper that does no logging.
func Escape(value string) (string, error) {
	return defaultEscaper.Escape(value)
}

// EscapeExtensionValue calls EscapeExtensionValue on an Escaper that does no
// logging.
func EscapeExtensionValue(value string) (string, error) {
	return defaultEscaper.EscapeExtensionValue(value)
}
