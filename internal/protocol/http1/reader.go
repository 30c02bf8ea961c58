package http1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Read reads a single request message in chunks of chunkSize bytes. Reading stops as soon
// as the headers delimiter is met and the body is as long as Content-Length says (missing
// Content-Length means no body.) Messages longer than limit result in
// status.ErrRequestEntityTooLarge.
//
// If the peer closes the connection before the message is complete, whatever was received
// is returned and it's up to the parser to decide whether it's fine. If nothing was received
// at all, io.EOF is returned.
func Read(r io.Reader, chunkSize, limit int) ([]byte, error) {
	chunk := make([]byte, chunkSize)
	data := make([]byte, 0, chunkSize)

	for {
		n, err := r.Read(chunk)
		scanFrom := max(0, len(data)-len(delimiter)+1)
		data = append(data, chunk[:n]...)

		if len(data) > limit {
			return nil, status.ErrRequestEntityTooLarge
		}

		done, cerr := complete(data, scanFrom, limit)
		if cerr != nil {
			return nil, cerr
		}

		if done {
			return data, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(data) == 0 {
					return nil, io.EOF
				}

				return data, nil
			}

			return nil, fmt.Errorf("read request: %w", err)
		}
	}
}

func complete(data []byte, scanFrom, limit int) (bool, error) {
	idx := bytes.Index(data[scanFrom:], delimiter)
	if idx == -1 {
		return false, nil
	}

	idx += scanFrom
	length, err := contentLength(data[:idx])
	if err != nil {
		return false, err
	}

	headLen := idx + len(delimiter)
	if length > limit-headLen {
		return false, status.ErrRequestEntityTooLarge
	}

	return len(data) >= headLen+length, nil
}

// contentLength looks up the first Content-Length header in the head. Zero is returned if
// there's none.
func contentLength(head []byte) (int, error) {
	lines := strings.Split(uf.B2S(head), "\n")

	for _, line := range lines[1:] {
		name, value, found := strings.Cut(line, ":")
		if !found || !strcomp.EqualFold(strings.TrimSpace(name), "content-length") {
			continue
		}

		length, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || length < 0 {
			return 0, fmt.Errorf("%w: bad content length", status.ErrMalformedRequest)
		}

		return length, nil
	}

	return 0, nil
}
