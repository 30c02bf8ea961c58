package router

import "github.com/indigo-web/pocket/http"

// Router maps a parsed request to a response.
type Router interface {
	// OnRequest returns a response to the request. Errors are unexpected failures, which
	// are then passed to OnError.
	OnRequest(request *http.Request) (*http.Response, error)
	// OnError returns a response to an error. The request is nil if the error happened
	// before the request was parsed.
	OnError(request *http.Request, err error) *http.Response
}
