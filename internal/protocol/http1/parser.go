package http1

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/pocket/http"
	"github.com/indigo-web/pocket/http/method"
	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/pocket/kv"
)

const preallocHeaders = 8

var delimiter = []byte("\r\n\r\n")

// Parse parses a whole request message. The message must contain the headers delimiter,
// everything after it is considered to be the body and is trimmed. The request line and headers
// must be a valid UTF-8. The protocol token of the request line is ignored.
func Parse(data []byte) (*http.Request, error) {
	idx := bytes.Index(data, delimiter)
	if idx == -1 {
		return nil, fmt.Errorf("%w: no headers delimiter", status.ErrMalformedRequest)
	}

	head := data[:idx]
	if !utf8.Valid(head) {
		return nil, fmt.Errorf("%w: non UTF-8 request head", status.ErrMalformedRequest)
	}

	lines := strings.Split(string(head), "\n")
	m, path, err := parseRequestLine(strings.TrimSuffix(lines[0], "\r"))
	if err != nil {
		return nil, err
	}

	headers := kv.NewPrealloc(preallocHeaders)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		// a line without a colon is both the name and the value
		name, value, found := strings.Cut(line, ":")
		if !found {
			value = line
		}

		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	body := bytes.Clone(bytes.TrimSpace(data[idx+len(delimiter):]))

	return http.NewRequest(m, path, headers, body), nil
}

func parseRequestLine(line string) (method.Method, string, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 2 || len(tokens[0]) == 0 {
		return method.Unknown, "", fmt.Errorf("%w: bad request line", status.ErrMalformedRequest)
	}

	path := tokens[1]
	if len(path) == 0 || path[0] != '/' {
		return method.Unknown, "", fmt.Errorf("%w: bad request path", status.ErrMalformedRequest)
	}

	m := method.Parse(tokens[0])
	if m == method.Unknown {
		return method.Unknown, "", fmt.Errorf("%w: %q", status.ErrUnsupportedMethod, tokens[0])
	}

	return m, path, nil
}
