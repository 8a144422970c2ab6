package field

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

func isUTF8(charset string) bool {
	return charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}

// lookupCharset finds the named encoding. It returns nil for UTF-8.
func lookupCharset(charset string) (encoding.Encoding, error) {
	if isUTF8(charset) {
		return nil, nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", charset)
	}

	return e, nil
}

// DecodeCharset converts b from the named character set into a UTF-8 string
// suitable for escaping. Any name known to the IANA MIME index is accepted. An
// empty name is treated as UTF-8, and UTF-8 input is checked rather than
// converted.
func DecodeCharset(charset string, b []byte) (string, error) {
	e, err := lookupCharset(charset)
	if err != nil {
		return "", err
	}

	if e == nil {
		if !utf8.Valid(b) {
			return "", ErrInvalidUTF8
		}
		return string(b), nil
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}

// NewCharsetReader returns a reader that converts the stream r from the named
// character set into UTF-8. Use it instead of DecodeCharset whenever the input
// is split into pieces afterwards, since only the decoded stream can be split
// on UTF-8 line breaks. For UTF-8, r is returned unchanged and is not checked.
func NewCharsetReader(charset string, r io.Reader) (io.Reader, error) {
	e, err := lookupCharset(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return r, nil
	}

	return transform.NewReader(r, e.NewDecoder()), nil
}
