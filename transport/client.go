package transport

import (
	"net"
	"time"
)

// Client wraps a connection, arming the read deadline before every read.
type Client interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Conn() net.Conn
	Remote() net.Addr
	Close() error
}

type client struct {
	conn    net.Conn
	timeout time.Duration
}

// NewClient returns a new client. Zero timeout disables read deadlines.
func NewClient(conn net.Conn, timeout time.Duration) Client {
	return &client{
		conn:    conn,
		timeout: timeout,
	}
}

func (c *client) Read(b []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}

	return c.conn.Read(b)
}

func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Conn unwraps the underlying net.Conn.
func (c *client) Conn() net.Conn {
	return c.conn
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
