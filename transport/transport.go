package transport

import (
	"net"

	"github.com/indigo-web/pocket/config"
)

// Transport accepts connections and hands them over to the callback. Listen is the sole
// producer of connections, the callback is free to block it.
type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	Addr() net.Addr
	Stop()
	Close()
}
