package dummy

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is an in-memory net.Conn. Reads are served from the input it was initialized with,
// writes are accumulated and may be inspected via Written.
type Conn struct {
	mu      sync.Mutex
	input   []byte
	chunk   int
	written []byte
	closed  bool
	failW   bool
}

func NewConn(input []byte) *Conn {
	return &Conn{input: input}
}

// Chunked makes every read return at most n bytes.
func (c *Conn) Chunked(n int) *Conn {
	c.chunk = n
	return c
}

// FailWrites makes every write fail.
func (c *Conn) FailWrites() *Conn {
	c.failW = true
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.input) == 0 {
		return 0, io.EOF
	}

	if c.chunk > 0 && len(b) > c.chunk {
		b = b[:c.chunk]
	}

	n = copy(b, c.input)
	c.input = c.input[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failW {
		return 0, errors.New("broken pipe")
	}

	c.written = append(c.written, b...)

	return len(b), nil
}

// Written returns everything written so far.
func (c *Conn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.written
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4221}
}

func (c *Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}
