package fixed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/pocket/http"
	"github.com/indigo-web/pocket/http/codec"
	"github.com/indigo-web/pocket/http/method"
	"github.com/indigo-web/pocket/http/status"
	"github.com/indigo-web/pocket/kv"
	"github.com/stretchr/testify/require"
)

func newRequest(m method.Method, path string, headers ...string) *http.Request {
	hdrs := kv.New()
	for i := 0; i+1 < len(headers); i += 2 {
		hdrs.Add(headers[i], headers[i+1])
	}

	return http.NewRequest(m, path, hdrs, nil)
}

func requireEmpty(t *testing.T, resp *http.Response, code status.Code) {
	require.Equal(t, code, resp.Code)
	require.Empty(t, resp.Headers)
	require.Empty(t, resp.Body)
}

func header(t *testing.T, resp *http.Response, name string) string {
	value, found := resp.Header(name)
	require.True(t, found, name)

	return value
}

type brokenCodec struct{}

func (brokenCodec) Token() string {
	return "gzip"
}

func (brokenCodec) Encode([]byte) ([]byte, error) {
	return nil, errors.New("out of memory")
}

func (brokenCodec) Decode([]byte) ([]byte, error) {
	return nil, errors.New("out of memory")
}

func TestRoot(t *testing.T) {
	resp, err := New("").OnRequest(newRequest(method.GET, "/"))
	require.NoError(t, err)
	requireEmpty(t, resp, status.OK)
}

func TestEcho(t *testing.T) {
	r := New("")

	t.Run("plain", func(t *testing.T) {
		resp, err := r.OnRequest(newRequest(method.GET, "/echo/xyz"))
		require.NoError(t, err)
		require.Equal(t, status.OK, resp.Code)
		require.Equal(t, "xyz", string(resp.Body))
		require.Equal(t, "3", header(t, resp, "Content-Length"))
		require.Equal(t, "text/plain", header(t, resp, "Content-Type"))
		_, found := resp.Header("Content-Encoding")
		require.False(t, found)
	})

	t.Run("gzip", func(t *testing.T) {
		for _, acceptEncoding := range []string{"gzip", "GZIP", "deflate, gzip;q=0.9, br", "x-gzip"} {
			resp, err := r.OnRequest(newRequest(method.GET, "/echo/xyz", "accept-encoding", acceptEncoding))
			require.NoError(t, err)
			require.Equal(t, status.OK, resp.Code)
			require.Equal(t, "gzip", header(t, resp, "Content-Encoding"))
			require.Equal(t, "text/plain", header(t, resp, "Content-Type"))
			decoded, err := codec.NewGZIP().Decode(resp.Body)
			require.NoError(t, err)
			require.Equal(t, "xyz", string(decoded))
			require.Equal(t, "Content-Encoding", resp.Headers[0].Key)
		}
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		resp, err := r.OnRequest(newRequest(method.GET, "/echo/xyz", "Accept-Encoding", "br, deflate"))
		require.NoError(t, err)
		require.Equal(t, "xyz", string(resp.Body))
		_, found := resp.Header("Content-Encoding")
		require.False(t, found)
	})

	t.Run("first header wins", func(t *testing.T) {
		resp, err := r.OnRequest(newRequest(method.GET, "/echo/xyz",
			"Accept-Encoding", "br",
			"Accept-Encoding", "gzip",
		))
		require.NoError(t, err)
		require.Equal(t, "xyz", string(resp.Body))
	})

	t.Run("last segment", func(t *testing.T) {
		resp, err := r.OnRequest(newRequest(method.GET, "/echo/a/b/c"))
		require.NoError(t, err)
		require.Equal(t, "c", string(resp.Body))
	})

	t.Run("empty value", func(t *testing.T) {
		resp, err := r.OnRequest(newRequest(method.GET, "/echo/"))
		require.NoError(t, err)
		requireEmpty(t, resp, status.OK)
	})

	t.Run("compression failure", func(t *testing.T) {
		broken := New("").Codec(brokenCodec{})
		_, err := broken.OnRequest(newRequest(method.GET, "/echo/xyz", "Accept-Encoding", "gzip"))
		require.Error(t, err)
		requireEmpty(t, broken.OnError(nil, err), status.InternalServerError)
	})
}

func TestUserAgent(t *testing.T) {
	r := New("")

	for _, name := range []string{"User-Agent", "USER-AGENT", "user-agent"} {
		resp, err := r.OnRequest(newRequest(method.GET, "/user-agent", name, "foobar/1.2.3"))
		require.NoError(t, err)
		require.Equal(t, status.OK, resp.Code)
		require.Equal(t, "foobar/1.2.3", string(resp.Body))
		require.Equal(t, "12", header(t, resp, "Content-Length"))
	}

	resp, err := r.OnRequest(newRequest(method.GET, "/user-agent"))
	require.NoError(t, err)
	requireEmpty(t, resp, status.NotFound)

	resp, err = r.OnRequest(newRequest(method.GET, "/user-agent/extra", "User-Agent", "foo"))
	require.NoError(t, err)
	requireEmpty(t, resp, status.NotFound)
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	r := New(root)

	t.Run("get existing", func(t *testing.T) {
		content := []byte{0x00, 0x01, 'h', 'i', 0xff}
		require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), content, 0o644))

		resp, err := r.OnRequest(newRequest(method.GET, "/files/report.txt"))
		require.NoError(t, err)
		require.Equal(t, status.OK, resp.Code)
		require.Equal(t, content, resp.Body)
		require.Equal(t, "application/octet-stream", header(t, resp, "Content-Type"))
		require.Equal(t, "5", header(t, resp, "Content-Length"))
	})

	t.Run("get missing", func(t *testing.T) {
		resp, err := r.OnRequest(newRequest(method.GET, "/files/"+uniuri.New()))
		require.NoError(t, err)
		requireEmpty(t, resp, status.NotFound)
	})

	t.Run("post then get", func(t *testing.T) {
		name := uniuri.New() + ".txt"
		body := []byte("12345 hello")
		resp, err := r.OnRequest(http.NewRequest(method.POST, "/files/"+name, kv.New(), body))
		require.NoError(t, err)
		requireEmpty(t, resp, status.Created)

		resp, err = r.OnRequest(newRequest(method.GET, "/files/"+name))
		require.NoError(t, err)
		require.Equal(t, status.OK, resp.Code)
		require.Equal(t, body, resp.Body)
	})

	t.Run("post overwrites", func(t *testing.T) {
		name := uniuri.New()
		for _, body := range []string{"first version", "second"} {
			_, err := r.OnRequest(http.NewRequest(method.POST, "/files/"+name, kv.New(), []byte(body)))
			require.NoError(t, err)
		}

		content, err := os.ReadFile(filepath.Join(root, name))
		require.NoError(t, err)
		require.Equal(t, "second", string(content))
	})

	t.Run("other methods", func(t *testing.T) {
		for _, m := range []method.Method{method.PUT, method.DELETE, method.PATCH} {
			resp, err := r.OnRequest(newRequest(m, "/files/report.txt"))
			require.NoError(t, err)
			requireEmpty(t, resp, status.NotFound)
		}
	})

	t.Run("unsafe names", func(t *testing.T) {
		for _, path := range []string{"/files/..", "/files/.", "/files/", "/files", `/files/..\secret`} {
			resp, err := r.OnRequest(newRequest(method.GET, path))
			require.NoError(t, err, path)
			requireEmpty(t, resp, status.NotFound)

			resp, err = r.OnRequest(http.NewRequest(method.POST, path, kv.New(), []byte("x")))
			require.NoError(t, err, path)
			requireEmpty(t, resp, status.NotFound)
		}
	})

	t.Run("directory is not a file", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))
		resp, err := r.OnRequest(newRequest(method.GET, "/files/dir"))
		require.NoError(t, err)
		requireEmpty(t, resp, status.NotFound)
	})

	t.Run("write failure", func(t *testing.T) {
		broken := New(filepath.Join(root, "does", "not", "exist"))
		_, err := broken.OnRequest(http.NewRequest(method.POST, "/files/a", kv.New(), []byte("x")))
		require.Error(t, err)
		requireEmpty(t, broken.OnError(nil, err), status.InternalServerError)
	})

	t.Run("no root", func(t *testing.T) {
		_, err := New("").OnRequest(newRequest(method.GET, "/files/a"))
		require.ErrorIs(t, err, ErrNoRoot)
	})
}

func TestNotFound(t *testing.T) {
	r := New(t.TempDir())

	for _, path := range []string{"/index.html", "/ech", "/user-agents", "/file", "/a/echo"} {
		resp, err := r.OnRequest(newRequest(method.GET, path))
		require.NoError(t, err, path)
		requireEmpty(t, resp, status.NotFound)
	}
}

func TestOnError(t *testing.T) {
	r := New("")

	for err, code := range map[error]status.Code{
		status.ErrMalformedRequest:      status.BadRequest,
		status.ErrUnsupportedMethod:     status.NotImplemented,
		status.ErrRequestEntityTooLarge: status.RequestEntityTooLarge,
		status.ErrMissingStatus:         status.InternalServerError,
		errors.New("unexpected"):        status.InternalServerError,
	} {
		requireEmpty(t, r.OnError(nil, err), code)
	}
}
