package http1

import (
	"io"
	"strconv"

	"github.com/indigo-web/pocket/http"
)

const crlf = "\r\n"

// Append renders the response to the buffer. Status line and headers are separated by CRLF,
// the headers block is finalized by an empty line, and the body is appended as is.
func Append(buff []byte, response *http.Response) []byte {
	buff = append(buff, response.Protocol...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(response.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, response.Status...)

	for _, header := range response.Headers {
		buff = append(buff, crlf...)
		buff = append(buff, header.Key...)
		buff = append(buff, ": "...)
		buff = append(buff, header.Value...)
	}

	buff = append(buff, crlf+crlf...)

	return append(buff, response.Body...)
}

// Serialize renders the response into a newly allocated slice.
func Serialize(response *http.Response) []byte {
	return Append(make([]byte, 0, 64+len(response.Body)), response)
}

// Write serializes the response and writes it at once.
func Write(w io.Writer, response *http.Response) error {
	_, err := w.Write(Serialize(response))
	return err
}
