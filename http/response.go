package http

import (
	"strconv"

	"github.com/indigo-web/pocket/http/mime"
	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/pocket/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// DefaultProtocol is the only protocol version the server speaks.
const DefaultProtocol = "HTTP/1.1"

const defaultContentType = mime.Plain

// Response is a frozen response, produced by Builder.Build. Headers are guaranteed to hold
// exactly one Content-Type and one Content-Length (equal to len(Body)) if the body isn't empty,
// preceded by Content-Encoding if the body was encoded. If the body is empty, there are no
// content headers at all.
type Response struct {
	Protocol string
	Code     status.Code
	Status   status.Status
	Headers  []kv.Pair
	Body     []byte
}

// Header returns the value of the first header with the matching name.
func (r *Response) Header(name string) (value string, found bool) {
	for _, h := range r.Headers {
		if strcomp.EqualFold(h.Key, name) {
			return h.Value, true
		}
	}

	return "", false
}

// Builder stages a response. The only mandatory field is the code; everything else falls back
// to defaults on Build. The order of calls doesn't matter.
type Builder struct {
	code            status.Code
	protocol        string
	contentType     mime.MIME
	contentEncoding string
	body            []byte
}

// NewBuilder returns an empty builder. Code must be set before calling Build.
func NewBuilder() *Builder {
	return new(Builder)
}

// Respond returns a builder with the code already set.
func Respond(code status.Code) *Builder {
	return NewBuilder().Code(code)
}

// Code sets the response code. The reason phrase is derived from it.
func (b *Builder) Code(code status.Code) *Builder {
	b.code = code
	return b
}

// Protocol overrides the protocol version, which is HTTP/1.1 by default.
func (b *Builder) Protocol(protocol string) *Builder {
	b.protocol = protocol
	return b
}

// ContentType sets the Content-Type header value. Defaults to text/plain, ignored if the
// body is empty.
func (b *Builder) ContentType(value mime.MIME) *Builder {
	b.contentType = value
	return b
}

// ContentEncoding sets the Content-Encoding header value. Ignored if the body is empty.
func (b *Builder) ContentEncoding(token string) *Builder {
	b.contentEncoding = token
	return b
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (b *Builder) Bytes(body []byte) *Builder {
	b.body = body
	return b
}

// String sets the response's body to the passed string
func (b *Builder) String(body string) *Builder {
	return b.Bytes(uf.S2B(body))
}

// Build freezes the builder into a Response. status.ErrMissingStatus is returned if the code
// was never set.
func (b *Builder) Build() (*Response, error) {
	if b.code == 0 {
		return nil, status.ErrMissingStatus
	}

	resp := &Response{
		Protocol: b.protocol,
		Code:     b.code,
		Status:   status.Text(b.code),
		Body:     b.body,
	}

	if len(resp.Protocol) == 0 {
		resp.Protocol = DefaultProtocol
	}

	if len(resp.Body) == 0 {
		resp.Body = nil
		return resp, nil
	}

	resp.Headers = make([]kv.Pair, 0, 3)
	if len(b.contentEncoding) > 0 {
		resp.Headers = append(resp.Headers, kv.Pair{Key: "Content-Encoding", Value: b.contentEncoding})
	}

	contentType := b.contentType
	if len(contentType) == 0 {
		contentType = defaultContentType
	}

	resp.Headers = append(resp.Headers,
		kv.Pair{Key: "Content-Type", Value: contentType},
		kv.Pair{Key: "Content-Length", Value: strconv.Itoa(len(resp.Body))},
	)

	return resp, nil
}

// NotFound returns an empty 404 Not Found response.
func NotFound() *Response {
	resp, _ := Respond(status.NotFound).Build()
	return resp
}
