package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zostay/go-cef/field"
)

// Errors returned when validating or formatting a header.
var (
	// ErrMissingField is returned (wrapped in a *FieldError) when a required
	// header field is empty.
	ErrMissingField = errors.New("required header field is missing")

	// ErrBadVersion is returned when the CEF version is not one this library
	// can write.
	ErrBadVersion = errors.New("unsupported CEF version")

	// ErrBadSeverity is returned when a severity is out of range or not a
	// recognized name.
	ErrBadSeverity = errors.New("invalid CEF severity")
)

// Names of the header fields, as used in FieldError.
const (
	Version       = "Version"
	DeviceVendor  = "Device Vendor"
	DeviceProduct = "Device Product"
	DeviceVersion = "Device Version"
	SignatureID   = "Signature ID"
	Name          = "Name"
	SeverityField = "Severity"
)

// Prefix starts every CEF line.
const Prefix = "CEF:"

// FieldError reports a problem with one named header field.
type FieldError struct {
	Field string
	Err   error
}

// Error returns the error message.
func (e *FieldError) Error() string {
	return fmt.Sprintf("CEF header field %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Header is the pipe-delimited prefix of a CEF line.
type Header struct {
	// Version is the CEF format version, 0 or 1.
	Version int

	// DeviceVendor, DeviceProduct, and DeviceVersion identify the product
	// that reported the event.
	DeviceVendor  string
	DeviceProduct string
	DeviceVersion string

	// SignatureID identifies the type of event. It is also known as the
	// Device Event Class ID.
	SignatureID string

	// Name is a human-readable description of the event.
	Name string

	// Severity is the importance of the event.
	Severity Severity
}

// Validate checks that every required field is set and that the version is
// supported. It does not check for characters that cannot be escaped; Format
// does that.
func (h *Header) Validate() error {
	if h.Version != 0 && h.Version != 1 {
		return &FieldError{Version, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)}
	}

	required := []struct {
		name, value string
	}{
		{DeviceVendor, h.DeviceVendor},
		{DeviceProduct, h.DeviceProduct},
		{DeviceVersion, h.DeviceVersion},
		{SignatureID, h.SignatureID},
		{Name, h.Name},
	}
	for _, r := range required {
		if r.value == "" {
			return &FieldError{r.name, ErrMissingField}
		}
	}

	return nil
}

// Format validates the header and renders it, including the trailing pipe
// that separates it from the extension block.
func (h *Header) Format() (string, error) {
	return h.FormatWith(nil)
}

// FormatWith is Format using the given escaper. A nil escaper escapes without
// logging.
func (h *Header) FormatWith(e *field.Escaper) (string, error) {
	if e == nil {
		e = field.NewEscaper()
	}

	if err := h.Validate(); err != nil {
		return "", err
	}

	fields := []struct {
		name, value string
	}{
		{DeviceVendor, h.DeviceVendor},
		{DeviceProduct, h.DeviceProduct},
		{DeviceVersion, h.DeviceVersion},
		{SignatureID, h.SignatureID},
		{Name, h.Name},
		{SeverityField, h.Severity.String()},
	}

	buf := &strings.Builder{}
	buf.WriteString(Prefix)
	buf.WriteString(strconv.Itoa(h.Version))
	for _, f := range fields {
		escaped, err := e.Escape(f.value)
		if err != nil {
			return "", &FieldError{f.name, err}
		}
		buf.WriteByte('|')
		buf.WriteString(escaped)
	}
	buf.WriteByte('|')

	return buf.String(), nil
}

// String returns the formatted header, or an empty string if the header
// cannot be formatted.
func (h *Header) String() string {
	s, err := h.Format()
	if err != nil {
		return ""
	}
	return s
}
