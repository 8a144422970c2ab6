package field_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-cef/field"
)

const unicodeWord = "ÆØÅæøåÄÖÜßéñ日本語"

func TestIsValidExtensionKey(t *testing.T) {
	t.Parallel()

	assert.False(t, field.IsValidExtensionKey(""))
	assert.False(t, field.IsValidExtensionKeyPtr(nil))

	for _, bad := range []string{
		"blahblah\r",
		"blahblah\n",
		"blahblah\t",
		"blahblah ",
		"blah=blah",
		"blah|blah",
		"blah_blah",
		"blah-blah",
		"\x00",
		"\xff\xfe",
	} {
		assert.False(t, field.IsValidExtensionKey(bad), "%q", bad)
	}

	for _, ok := range []string{
		"blahblahblah",
		"src",
		"cs1Label",
		"c6a1",
		unicodeWord + "blahblahblah" + unicodeWord,
	} {
		assert.True(t, field.IsValidExtensionKey(ok), "%q", ok)
		assert.True(t, field.IsValidExtensionKeyPtr(&ok), "%q", ok)
	}
}

func TestIsValidExtensionKey_Concurrent(t *testing.T) {
	t.Parallel()

	key := unicodeWord + "blahblahblah" + unicodeWord

	var (
		wg    sync.WaitGroup
		fails atomic.Int64
		calls atomic.Int64
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				calls.Add(1)
				if !field.IsValidExtensionKey(key) {
					fails.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100*50), calls.Load())
	assert.Equal(t, int64(0), fails.Load())
}
