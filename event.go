package cef

import (
	"io"

	"github.com/zostay/go-cef/extension"
	"github.com/zostay/go-cef/field"
	"github.com/zostay/go-cef/header"
)

// Event is a single CEF record.
type Event struct {
	header.Header
	extension.Extension

	// Break is written after the line by WriteTo. Meh means LF.
	Break header.Break

	escaper *field.Escaper
}

// Option configures an Event built by New.
type Option func(*Event) error

// New builds an event from the given options. It returns the first error an
// option reports.
func New(opts ...Option) (*Event, error) {
	e := &Event{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// WithDevice sets the vendor, product, and version of the reporting device.
func WithDevice(vendor, product, version string) Option {
	return func(e *Event) error {
		e.DeviceVendor = vendor
		e.DeviceProduct = product
		e.DeviceVersion = version
		return nil
	}
}

// WithSignature sets the signature ID and name of the event.
func WithSignature(id, name string) Option {
	return func(e *Event) error {
		e.SignatureID = id
		e.Name = name
		return nil
	}
}

// WithSeverity sets the severity from a number or level name.
func WithSeverity(s string) Option {
	return func(e *Event) error {
		sev, err := header.ParseSeverity(s)
		if err != nil {
			return err
		}
		e.Severity = sev
		return nil
	}
}

// WithVersion sets the CEF version.
func WithVersion(v int) Option {
	return func(e *Event) error {
		e.Version = v
		return nil
	}
}

// WithExtension adds an extension pair.
func WithExtension(key, value string) Option {
	return func(e *Event) error {
		return e.Add(key, value)
	}
}

// WithBreak sets the line break written by WriteTo.
func WithBreak(b header.Break) Option {
	return func(e *Event) error {
		e.Break = b
		return nil
	}
}

// WithEscaper sets the escaper used when formatting, which is how diagnostic
// logging is attached to an event.
func WithEscaper(esc *field.Escaper) Option {
	return func(e *Event) error {
		e.escaper = esc
		return nil
	}
}

// Format renders the complete line without a trailing line break.
func (e *Event) Format() (string, error) {
	h, err := e.Header.FormatWith(e.escaper)
	if err != nil {
		return "", err
	}

	x, err := e.Extension.FormatWith(e.escaper)
	if err != nil {
		return "", err
	}

	return h + x, nil
}

// String returns the formatted line, or an empty string if the event cannot
// be formatted.
func (e *Event) String() string {
	s, err := e.Format()
	if err != nil {
		return ""
	}
	return s
}

// WriteTo writes the formatted line followed by the event's line break.
// Nothing is written if the event cannot be formatted.
func (e *Event) WriteTo(w io.Writer) (int64, error) {
	s, err := e.Format()
	if err != nil {
		return 0, err
	}

	n, err := io.WriteString(w, s+e.Break.OrDefault().String())
	return int64(n), err
}
