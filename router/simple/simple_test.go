package simple

import (
	"errors"
	"testing"

	"github.com/indigo-web/pocket/http"
	"github.com/indigo-web/pocket/http/method"
	"github.com/indigo-web/pocket/http/status"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	t.Run("handler", func(t *testing.T) {
		r := New(func(request *http.Request) (*http.Response, error) {
			return http.Respond(status.OK).String(request.Path).Build()
		}, nil)

		resp, err := r.OnRequest(http.NewRequest(method.GET, "/hello", nil, nil))
		require.NoError(t, err)
		require.Equal(t, "/hello", string(resp.Body))
	})

	t.Run("default error handler", func(t *testing.T) {
		r := New(nil, nil)
		resp := r.OnError(nil, status.ErrUnsupportedMethod)
		require.Equal(t, status.NotImplemented, resp.Code)

		resp = r.OnError(nil, errors.New("whatever"))
		require.Equal(t, status.InternalServerError, resp.Code)
		require.Empty(t, resp.Body)
	})

	t.Run("custom error handler", func(t *testing.T) {
		r := New(nil, func(*http.Request, error) *http.Response {
			return http.NotFound()
		})
		require.Equal(t, status.NotFound, r.OnError(nil, status.ErrMalformedRequest).Code)
	})
}
