package field_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/zostay/go-cef/field"
)

func TestDecodeCharset(t *testing.T) {
	t.Parallel()

	s, err := field.DecodeCharset("", []byte("café"))
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	s, err = field.DecodeCharset("UTF-8", []byte("♠♣♥♦"))
	require.NoError(t, err)
	assert.Equal(t, "♠♣♥♦", s)

	_, err = field.DecodeCharset("utf-8", []byte{'c', 0xe9})
	assert.ErrorIs(t, err, field.ErrInvalidUTF8)

	s, err = field.DecodeCharset("ISO-8859-1", []byte{'c', 'a', 'f', 0xe9})
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	s, err = field.DecodeCharset("windows-1252", []byte{0x80, '5'})
	require.NoError(t, err)
	assert.Equal(t, "€5", s)

	_, err = field.DecodeCharset("x-no-such-charset", []byte("abc"))
	assert.Error(t, err)
}

func TestNewCharsetReader(t *testing.T) {
	t.Parallel()

	in, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String("one|\ntwo\n")
	require.NoError(t, err)

	r, err := field.NewCharsetReader("UTF-16LE", strings.NewReader(in))
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "one|\ntwo\n", string(b))

	plain := strings.NewReader("as is")
	r, err = field.NewCharsetReader("", plain)
	require.NoError(t, err)
	assert.Same(t, plain, r)

	_, err = field.NewCharsetReader("x-no-such-charset", plain)
	assert.Error(t, err)
}
