package changes_test

import (
	"strings"
	"testing"

	"github.com/coreos/go-semver/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-cef/tools/pm/changes"
)

const changelog = `WIP  TBD

 * Add the check command.
 * Extension values escape equals signs.

v0.1.0  2026-10-01

 * First release.
   Escapes header fields and validates extension keys.
`

func lint(t *testing.T, s string, mode changes.CheckMode) changes.Failures {
	t.Helper()

	err := changes.NewLinter(strings.NewReader(s), mode).Check()
	if err == nil {
		return nil
	}

	var lerr *changes.Error
	require.ErrorAs(t, err, &lerr)
	return lerr.Failures
}

func TestLinter(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lint(t, changelog, changes.CheckStandard))
	assert.Empty(t, lint(t, changelog, changes.CheckPreRelease))

	fs := lint(t, changelog, changes.CheckRelease)
	require.Len(t, fs, 1)
	assert.Equal(t, 1, fs[0].Line)

	released := strings.Join(strings.Split(changelog, "\n")[5:], "\n")
	assert.Empty(t, lint(t, released, changes.CheckRelease))

	fs = lint(t, released, changes.CheckPreRelease)
	require.Len(t, fs, 1)
	assert.Contains(t, fs[0].Message, "WIP not found")
}

func TestLinter_Problems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		line int
		msg  string
	}{
		{"bullet first", " * nope\n", 1, "before first version heading"},
		{"no blank before bullet", "v0.1.0  2026-10-01\n * x\n", 2, "missing blank line"},
		{"extra blank", "v0.1.0  2026-10-01\n\n\n * x\n", 3, "consecutive blank lines"},
		{"orphan continuation", "v0.1.0  2026-10-01\n\n   x\n", 3, "no bullet to continue"},
		{"spaces", "v0.1.0  2026-10-01\n  \n", 2, "has spaces"},
		{"junk", "v0.1.0  2026-10-01\n\nhello\n", 3, "badly formatted"},
		{"late WIP", "v0.1.0  2026-10-01\n\n * x\n\nWIP\n", 5, "WIP found after line 1"},
		{"version order", "v0.1.0  2026-10-01\n\n * x\n\nv0.2.0  2026-09-01\n\n * y\n", 5, "is not older"},
		{"date order", "v0.2.0  2026-09-01\n\n * x\n\nv0.1.0  2026-10-01\n\n * y\n", 5, "is later than"},
		{"empty", "", 0, "empty"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := lint(t, tt.in, changes.CheckStandard)
			require.NotEmpty(t, fs)
			assert.Equal(t, tt.line, fs[0].Line)
			assert.Contains(t, fs[0].Message, tt.msg)
		})
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	err := &changes.Error{Failures: changes.Failures{
		{Line: 1, Message: "one"},
		{Line: 3, Message: "three"},
	}}
	assert.Equal(t, "change log linter check failed:\n * Line 1: one\n * Line 3: three", err.Error())
}

func TestExtractSection(t *testing.T) {
	t.Parallel()

	s, err := changes.ExtractSection(strings.NewReader(changelog), "v0.1.0")
	require.NoError(t, err)
	assert.Equal(t, " * First release.\n   Escapes header fields and validates extension keys.\n", s)

	_, err = changes.ExtractSection(strings.NewReader(changelog), "v9.9.9")
	assert.Error(t, err)
}

func TestStamp(t *testing.T) {
	t.Parallel()

	buf := &strings.Builder{}
	err := changes.Stamp(buf, strings.NewReader(changelog), semver.New("0.2.0"), "2026-10-19")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(buf.String(), "v0.2.0  2026-10-19\n\n * Add the check command.\n"))
	assert.Empty(t, lint(t, buf.String(), changes.CheckRelease))

	s, err := changes.ExtractSection(strings.NewReader(buf.String()), "v0.2.0")
	require.NoError(t, err)
	assert.Equal(t, " * Add the check command.\n * Extension values escape equals signs.\n", s)

	err = changes.Stamp(&strings.Builder{}, strings.NewReader(buf.String()), semver.New("0.3.0"), "2026-10-20")
	assert.Error(t, err)
}
