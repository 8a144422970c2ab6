package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-cef/header"
)

func TestBreak(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{}, header.Meh.Bytes())
	assert.Equal(t, []byte{0x0d, 0x0a}, header.CRLF.Bytes())
	assert.Equal(t, []byte{0x0a}, header.LF.Bytes())

	assert.Equal(t, "\r\n", header.CRLF.String())
	assert.Equal(t, header.LF, header.Meh.OrDefault())
	assert.Equal(t, header.CRLF, header.CRLF.OrDefault())
}
