package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

var _ Codec = new(GZIP)

// GZIP produces a gzip container (member header, deflate stream and trailer) with the default
// compression level. Writers are pooled, so a single instance may be shared among workers.
type GZIP struct {
	writers sync.Pool
}

func NewGZIP() *GZIP {
	return &GZIP{
		writers: sync.Pool{
			New: func() any {
				return gzip.NewWriter(nil)
			},
		},
	}
}

func (*GZIP) Token() string {
	return "gzip"
}

func (g *GZIP) Encode(src []byte) ([]byte, error) {
	var buff bytes.Buffer
	w := g.writers.Get().(*gzip.Writer)
	defer g.writers.Put(w)
	w.Reset(&buff)

	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("gzip: compress: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: compress: %w", err)
	}

	return buff.Bytes(), nil
}

func (*GZIP) Decode(src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("gzip: decompress: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: decompress: %w", err)
	}

	return data, r.Close()
}
