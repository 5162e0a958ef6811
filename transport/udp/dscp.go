package udp

import (
	"net"

	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

// SetDSCP sets the 6-bit DSCP field of the IP header for this
// connection's outbound packets. Has no effect on a server-side
// connection accepted off a Listener, since those share the listening
// socket with every other peer.
func (c *Conn) SetDSCP(dscp int) error {
	if c.l != nil {
		return errors.New(errInvalidOperation)
	}
	if nc, ok := c.conn.(net.Conn); ok {
		return ipv4.NewConn(nc).SetTOS(dscp << 2)
	}
	return errors.New(errInvalidOperation)
}

// SetReadBuffer sets the socket read buffer, no effect on a server-side
// connection.
func (c *Conn) SetReadBuffer(bytes int) error {
	if c.l != nil {
		return errors.New(errInvalidOperation)
	}
	if nc, ok := c.conn.(interface{ SetReadBuffer(int) error }); ok {
		return nc.SetReadBuffer(bytes)
	}
	return errors.New(errInvalidOperation)
}

// SetWriteBuffer sets the socket write buffer, no effect on a
// server-side connection.
func (c *Conn) SetWriteBuffer(bytes int) error {
	if c.l != nil {
		return errors.New(errInvalidOperation)
	}
	if nc, ok := c.conn.(interface{ SetWriteBuffer(int) error }); ok {
		return nc.SetWriteBuffer(bytes)
	}
	return errors.New(errInvalidOperation)
}
