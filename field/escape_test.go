package field_test

import (
	"strings"
	"sync"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zostay/go-cef/field"
)

// unescaped returns true if s contains a pipe or backslash that is not part of
// an escape sequence.
func unescaped(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) || (s[i+1] != '\\' && s[i+1] != '|') {
				return true
			}
			i++
		case '|':
			return true
		}
	}
	return false
}

// unescape reverses header escaping.
func unescape(s string) string {
	buf := &strings.Builder{}
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}

// escapeHolds checks everything Escape promises about a single input.
func escapeHolds(in string) bool {
	got, err := field.Escape(in)
	if strings.ContainsAny(in, "\r\n") {
		return err != nil && got == ""
	}
	return err == nil && !unescaped(got) && unescape(got) == in
}

func TestEscape_Quick(t *testing.T) {
	t.Parallel()

	require.NoError(t, quick.Check(escapeHolds, nil))

	// random strings rarely hold the interesting characters, so also build
	// them from a small alphabet that is mostly interesting characters
	const alphabet = "a|\\\r\né"
	fromAlphabet := func(b []byte) bool {
		rs := []rune(alphabet)
		buf := &strings.Builder{}
		for _, c := range b {
			buf.WriteRune(rs[int(c)%len(rs)])
		}
		return escapeHolds(buf.String())
	}
	require.NoError(t, quick.Check(fromAlphabet, &quick.Config{MaxCount: 1000}))
}

func FuzzEscape(f *testing.F) {
	for _, seed := range []string{"", "a|b\\c", "\\|", "||", "x\ny", "日本|語"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		if !escapeHolds(in) {
			t.Errorf("escaping %q broke an invariant", in)
		}
	})
}

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"blahblahblah", "blahblahblah"},
		{"a|b\\c", "a\\|b\\\\c"},
		{"|", "\\|"},
		{"\\", "\\\\"},
		{"\\|", "\\\\\\|"},
		{"||\\\\", "\\|\\|\\\\\\\\"},
		{"a=b", "a=b"},
		{"tab\there", "tab\there"},
		{"ÆØÅ|日本語", "ÆØÅ\\|日本語"},
	}

	for _, tt := range tests {
		got, err := field.Escape(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.out, got, tt.in)
		assert.False(t, unescaped(got), tt.in)
	}
}

func TestEscape_LineBreaks(t *testing.T) {
	t.Parallel()

	bad := []string{
		"\r", "\n", "\r\n",
		"\rblahblah", "\nblahblah",
		"blahblah\r", "blahblah\n",
		"blah\rblah", "blah\nblah",
		"blah|\r\n|blah",
	}

	for _, b := range bad {
		got, err := field.Escape(b)
		assert.Equal(t, "", got)
		require.Error(t, err, "%q", b)
		assert.ErrorIs(t, err, field.ErrInvalidField)

		var ife *field.InvalidFieldError
		require.ErrorAs(t, err, &ife)
		assert.Equal(t, b, ife.Value)
		assert.Equal(t, field.Header, ife.Class)
		assert.Contains(t, ife.Error(), "header field")
	}
}

func TestEscape_NotIdempotent(t *testing.T) {
	t.Parallel()

	once, err := field.Escape("a|b")
	require.NoError(t, err)
	assert.Equal(t, "a\\|b", once)

	twice, err := field.Escape(once)
	require.NoError(t, err)
	assert.Equal(t, "a\\\\\\|b", twice)
	assert.NotEqual(t, once, twice)
}

func TestEscapeField(t *testing.T) {
	t.Parallel()

	got, err := field.EscapeField(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	v := "a|b\\c"
	got, err = field.EscapeField(&v)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a\\|b\\\\c", *got)
	assert.Equal(t, "a|b\\c", v)

	empty := ""
	got, err = field.EscapeField(&empty)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	bad := "line\n"
	got, err = field.EscapeField(&bad)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, field.ErrInvalidField)
}

func TestEscapeExtensionValue(t *testing.T) {
	t.Parallel()

	got, err := field.EscapeExtensionValue(`a=b|c\d`)
	require.NoError(t, err)
	assert.Equal(t, `a\=b|c\\d`, got)

	_, err = field.EscapeExtensionValue("a\nb")
	var ife *field.InvalidFieldError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, field.ExtensionValue, ife.Class)
}

func TestEscaper_WithLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	e := field.NewEscaper(field.WithLogger(zap.New(core)))

	got, err := e.Escape("a|b")
	require.NoError(t, err)
	assert.Equal(t, "a\\|b", got)

	_, err = e.Escape("a\nb")
	assert.Error(t, err)

	nilGot, err := e.EscapeField(nil)
	assert.NoError(t, err)
	assert.Nil(t, nilGot)

	require.Equal(t, 3, logs.Len())
	entries := logs.AllUntimed()

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "a|b", entries[0].ContextMap()["value"])
	assert.Equal(t, "a\\|b", entries[0].ContextMap()["escaped"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "a\nb", entries[1].ContextMap()["value"])

	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func TestEscaper_NilLogger(t *testing.T) {
	t.Parallel()

	e := field.NewEscaper(field.WithLogger(nil))
	got, err := e.Escape("x|y")
	require.NoError(t, err)
	assert.Equal(t, "x\\|y", got)
}

func TestEscape_Concurrent(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("a|b\\c", 10)
	want, err := field.Escape(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan string, 100*50)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := field.Escape(in)
				if err != nil {
					results <- err.Error()
					continue
				}
				results <- got
			}
		}()
	}
	wg.Wait()
	close(results)

	for got := range results {
		assert.Equal(t, want, got)
	}
}

func TestClass_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "header", field.Header.String())
	assert.Equal(t, "extension value", field.ExtensionValue.String())
	assert.Equal(t, "extension key", field.ExtensionKey.String())
	assert.Equal(t, "unknown", field.Class(42).String())
}
