// Package simple turns a pair of functions into a router.
package simple

import (
	"github.com/indigo-web/pocket/http"
	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/pocket/router"
)

type (
	Handler      func(*http.Request) (*http.Response, error)
	ErrorHandler func(*http.Request, error) *http.Response
)

var _ router.Router = new(Router)

type Router struct {
	handler    Handler
	errHandler ErrorHandler
}

// New returns a router calling the handler on every request. Nil errHandler responds with
// the code derived from the error.
func New(handler Handler, errHandler ErrorHandler) *Router {
	if errHandler == nil {
		errHandler = defaultErrHandler
	}

	return &Router{
		handler:    handler,
		errHandler: errHandler,
	}
}

func (r *Router) OnRequest(request *http.Request) (*http.Response, error) {
	return r.handler(request)
}

func (r *Router) OnError(request *http.Request, err error) *http.Response {
	return r.errHandler(request, err)
}

func defaultErrHandler(_ *http.Request, err error) *http.Response {
	resp, _ := http.Respond(status.CodeOf(err)).Build()
	return resp
}
