// Package record decodes JSON-lines input into CEF events. Each line is a
// single JSON object:
//
//	{"version":0,"deviceVendor":"Security","deviceProduct":"threatmanager",
//	 "deviceVersion":"1.0","signatureId":"100","name":"worm stopped",
//	 "severity":"High","extensions":{"src":"10.0.0.1","rt":"2024-02-03 10:11:12"}}
//
// Extension pairs are emitted sorted by key so that output is stable, and the
// standard timestamp keys are normalized to epoch milliseconds.
package record

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/zostay/go-cef"
	"github.com/zostay/go-cef/extension"
	"github.com/zostay/go-cef/field"
	"github.com/zostay/go-cef/header"
	"github.com/zostay/go-cef/internal/scanner"
)

// maxLine bounds a single input line.
const maxLine = 1 << 20

// Record is the JSON form of an event.
type Record struct {
	Version       int            `json:"version"`
	DeviceVendor  string         `json:"deviceVendor"`
	DeviceProduct string         `json:"deviceProduct"`
	DeviceVersion string         `json:"deviceVersion"`
	SignatureID   string         `json:"signatureId"`
	Name          string         `json:"name"`
	Severity      any            `json:"severity"`
	Extensions    map[string]any `json:"extensions"`
}

// LineError reports a problem decoding one line of input.
type LineError struct {
	Line int
	Err  error
}

// Error returns the error message.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// ErrBadSeverityType is returned when the severity is neither a string nor a
// number.
var ErrBadSeverityType = errors.New("severity must be a string or a number")

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Event converts the record into an event. Extension values that are numbers
// or booleans are written as they appeared in the JSON.
func (r *Record) Event(opts ...cef.Option) (*cef.Event, error) {
	e, err := cef.New(opts...)
	if err != nil {
		return nil, err
	}

	e.Version = r.Version
	e.DeviceVendor = r.DeviceVendor
	e.DeviceProduct = r.DeviceProduct
	e.DeviceVersion = r.DeviceVersion
	e.SignatureID = r.SignatureID
	e.Name = r.Name

	switch s := r.Severity.(type) {
	case nil:
	case string, json.Number:
		str, _ := stringify(s)
		e.Severity, err = header.ParseSeverity(str)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrBadSeverityType
	}

	keys := make([]string, 0, len(r.Extensions))
	for k := range r.Extensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, err := stringify(r.Extensions[k])
		if err != nil {
			return nil, &extension.KeyError{Key: k, Err: err}
		}

		if extension.IsTimeKey(k) && v != "" {
			t, err := extension.ParseTime(v)
			if err != nil {
				return nil, &extension.KeyError{Key: k, Err: err}
			}
			v = extension.FormatTime(t)
		}

		if err := e.Add(k, v); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Parse decodes a single JSON object into a record.
func Parse(b []byte) (*Record, error) {
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	d.DisallowUnknownFields()

	r := &Record{}
	if err := d.Decode(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Decoder reads events from a stream of JSON lines.
type Decoder struct {
	sc    *bufio.Scanner
	lines *scanner.Lines
	opts  []cef.Option

	// err is a problem with the whole stream, reported by every call to Next
	err error
}

// NewDecoder returns a decoder reading r. The stream is converted from charset
// to UTF-8 before it is split into lines; an empty charset means UTF-8. The
// options are applied to every event.
func NewDecoder(r io.Reader, charset string, opts ...cef.Option) *Decoder {
	cr, err := field.NewCharsetReader(charset, r)
	if err != nil {
		return &Decoder{lines: &scanner.Lines{}, err: fmt.Errorf("input charset: %w", err)}
	}

	sc := bufio.NewScanner(cr)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	lines := &scanner.Lines{}
	sc.Split(lines.Split())

	return &Decoder{sc: sc, lines: lines, opts: opts}
}

// Line returns the number of the line most recently read.
func (d *Decoder) Line() int {
	return d.lines.Line()
}

// Next returns the next event. Blank lines are skipped. It returns io.EOF when
// the input is exhausted. Errors about a particular line are returned as a
// *LineError, after which Next may be called again to continue with the
// following line.
func (d *Decoder) Next() (*cef.Event, error) {
	if d.err != nil {
		return nil, d.err
	}

	if d.sc.Scan() {
		line := d.lines.Line()

		// the stream is UTF-8 by now, but only declared UTF-8 can be invalid
		s, err := field.DecodeCharset("", d.sc.Bytes())
		if err != nil {
			return nil, &LineError{line, err}
		}

		r, err := Parse([]byte(s))
		if err != nil {
			return nil, &LineError{line, err}
		}

		e, err := r.Event(d.opts...)
		if err != nil {
			return nil, &LineError{line, err}
		}

		return e, nil
	}

	if err := d.sc.Err(); err != nil {
		return nil, err
	}

	return nil, io.EOF
}
