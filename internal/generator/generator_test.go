package generator_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-cef/internal/generator"
)

func TestGenerator(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.February, 3, 10, 11, 12, 0, time.UTC)
	g := generator.New(42, nil).WithClock(func() time.Time { return now })

	for i := 0; i < 100; i++ {
		e := g.Next()
		s, err := e.Format()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(s, "CEF:0|zostay|cefgen|1.0|"), s)
		assert.Contains(t, s, "rt=1706868672000")
		assert.NotContains(t, s, "\n")

		_, err = e.Get("externalId")
		assert.NoError(t, err)
	}
}

func TestGenerator_Malware(t *testing.T) {
	t.Parallel()

	e := generator.New(7, nil).Malware()
	s, err := e.Format()
	require.NoError(t, err)

	assert.Contains(t, s, `|Malware detected \| quarantined|`)
	assert.Contains(t, s, `filePath=C:\\Users\\`)
	assert.Contains(t, s, `msg=signature\=`)
	assert.GreaterOrEqual(t, e.Severity.Int(), 7)
}

func TestGenerator_Kinds(t *testing.T) {
	t.Parallel()

	g := generator.New(0, nil)

	e := g.LoginFailure()
	assert.Equal(t, generator.SigLoginFailure, e.SignatureID)
	v, err := e.Get("outcome")
	require.NoError(t, err)
	assert.Equal(t, "failure", v)

	e = g.FirewallDrop()
	assert.Equal(t, generator.SigFirewallDrop, e.SignatureID)
	v, err = e.Get("act")
	require.NoError(t, err)
	assert.Equal(t, "drop", v)
}
