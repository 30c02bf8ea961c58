package codec

import (
	"bytes"
	stdgzip "compress/gzip"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/stretchr/testify/require"
)

func TestGZIP(t *testing.T) {
	gz := NewGZIP()

	t.Run("token", func(t *testing.T) {
		require.Equal(t, "gzip", gz.Token())
	})

	t.Run("round trip", func(t *testing.T) {
		for _, input := range []string{
			"",
			"xyz",
			strings.Repeat("Hello, world! ", 1000),
			string([]byte{0, 1, 2, 0xff, 0xfe, '\r', '\n'}),
			uniuri.NewLen(4096),
		} {
			encoded, err := gz.Encode([]byte(input))
			require.NoError(t, err)
			decoded, err := gz.Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, input, string(decoded))
		}
	})

	t.Run("readable by the standard library", func(t *testing.T) {
		encoded, err := gz.Encode([]byte("abc"))
		require.NoError(t, err)
		require.Equal(t, []byte{0x1f, 0x8b}, encoded[:2])

		r, err := stdgzip.NewReader(bytes.NewReader(encoded))
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "abc", string(data))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := gz.Decode([]byte("definitely not gzip"))
		require.Error(t, err)
	})

	t.Run("concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				input := uniuri.NewLen(128)
				encoded, err := gz.Encode([]byte(input))
				if !assertNoError(t, err) {
					return
				}

				decoded, err := gz.Decode(encoded)
				if assertNoError(t, err) && input != string(decoded) {
					t.Errorf("round trip mismatch: %q != %q", input, decoded)
				}
			}()
		}

		wg.Wait()
	})
}

func assertNoError(t *testing.T, err error) bool {
	if err != nil {
		t.Error(err)
		return false
	}

	return true
}
