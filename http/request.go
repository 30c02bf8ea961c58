package http

import (
	"net"

	"github.com/indigo-web/pocket/http/method"
	"github.com/indigo-web/pocket/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents HTTP request. The server fills Remote right after parsing, the request
// is never modified once handed over to the router.
type Request struct {
	// Method is an enum representing the request method. Never Unknown for a parsed request.
	Method method.Method
	// Path is the raw request target, always starting with a slash.
	Path string
	// Headers holds non-normalized header pairs in order of their appearance, even though
	// lookup is case-insensitive. Duplicates are preserved.
	Headers Headers
	// Body holds everything after the headers block, trimmed. It's empty, but not nil,
	// for requests without a body.
	Body []byte
	// Remote holds the remote address, if known.
	Remote net.Addr
}

func NewRequest(m method.Method, path string, headers Headers, body []byte) *Request {
	if headers == nil {
		headers = kv.New()
	}

	if body == nil {
		body = []byte{}
	}

	return &Request{
		Method:  m,
		Path:    path,
		Headers: headers,
		Body:    body,
	}
}

// Header returns the value of the first header with the matching name.
func (r *Request) Header(name string) (value string, found bool) {
	return r.Headers.Get(name)
}
