// Package fixed implements a router over a fixed, ordered set of rules. The first rule
// matching the request path wins:
//
//	/             empty 200 OK
//	/echo*        the last path segment echoed back, gzip-compressed if accepted
//	/user-agent   the User-Agent header value, or 404 if there's none
//	/files*       GET reads and POST writes a file in the serving directory
//
// Everything else is answered with 404 Not Found.
package fixed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/indigo-web/pocket/http"
	"github.com/indigo-web/pocket/http/codec"
	"github.com/indigo-web/pocket/http/method"
	"github.com/indigo-web/pocket/http/mime"
	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/pocket/router"
)

var _ router.Router = new(Router)

// ErrNoRoot is returned when the files route is reached without the serving directory
// configured.
var ErrNoRoot = errors.New("serving directory is not configured")

const filePerm = 0o644

type Router struct {
	root  string
	codec codec.Codec
}

// New returns a router serving files from the root directory. Empty root is allowed, but
// makes every request to /files fail.
func New(root string) *Router {
	return &Router{
		root:  root,
		codec: codec.NewGZIP(),
	}
}

// Codec replaces the codec used by /echo. The codec is chosen whenever its token is
// mentioned in Accept-Encoding.
func (r *Router) Codec(c codec.Codec) *Router {
	r.codec = c
	return r
}

func (r *Router) OnRequest(request *http.Request) (*http.Response, error) {
	path := request.Path

	switch {
	case path == "/":
		return http.Respond(status.OK).Build()
	case strings.HasPrefix(path, "/echo"):
		return r.echo(request)
	case path == "/user-agent":
		return r.userAgent(request)
	case strings.HasPrefix(path, "/files"):
		return r.files(request)
	default:
		return http.NotFound(), nil
	}
}

// OnError responds with an empty body and the code derived from the error.
func (r *Router) OnError(_ *http.Request, err error) *http.Response {
	resp, buildErr := http.Respond(status.CodeOf(err)).Build()
	if buildErr != nil {
		// unreachable, as the code is always set
		return http.NotFound()
	}

	return resp
}

func (r *Router) echo(request *http.Request) (*http.Response, error) {
	value := lastSegment(request.Path)
	acceptEncoding, found := request.Header("Accept-Encoding")

	if !found || !containsFold(acceptEncoding, r.codec.Token()) {
		return http.Respond(status.OK).String(value).Build()
	}

	encoded, err := r.codec.Encode([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("echo: %w", err)
	}

	return http.Respond(status.OK).
		ContentEncoding(r.codec.Token()).
		ContentType(mime.Plain).
		Bytes(encoded).
		Build()
}

func (r *Router) userAgent(request *http.Request) (*http.Response, error) {
	userAgent, found := request.Header("User-Agent")
	if !found {
		return http.NotFound(), nil
	}

	return http.Respond(status.OK).String(userAgent).Build()
}

func (r *Router) files(request *http.Request) (*http.Response, error) {
	if len(r.root) == 0 {
		return nil, fmt.Errorf("files: %w", ErrNoRoot)
	}

	name, found := fileName(request.Path)
	if !found || !isSafeName(name) {
		return http.NotFound(), nil
	}

	path := filepath.Join(r.root, name)

	switch request.Method {
	case method.GET:
		content, err := os.ReadFile(path)
		if err != nil {
			return http.NotFound(), nil
		}

		return http.Respond(status.OK).
			ContentType(mime.OctetStream).
			Bytes(content).
			Build()
	case method.POST:
		if err := os.WriteFile(path, request.Body, filePerm); err != nil {
			return nil, fmt.Errorf("files: %w", err)
		}

		return http.Respond(status.Created).Build()
	default:
		return http.NotFound(), nil
	}
}

// lastSegment returns everything after the last slash.
func lastSegment(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

// fileName returns the last segment of the path, if there's one after the route prefix.
func fileName(path string) (name string, found bool) {
	rest := strings.TrimPrefix(path, "/files")
	if strings.IndexByte(rest, '/') == -1 {
		return "", false
	}

	return lastSegment(rest), true
}

// isSafeName rejects names which may resolve outside the serving directory.
func isSafeName(name string) bool {
	return name != "." &&
		!strings.ContainsAny(name, `/\`) &&
		filepath.IsLocal(name)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
