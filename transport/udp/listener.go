package udp

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/arqcore/arq/arq"
	"github.com/arqcore/arq/internal/metrics"
)

const (
	defaultIdleTimeout     = 90 * time.Second
	defaultCleanupInterval = 30 * time.Second
)

// Listener accepts arq.Session connections multiplexed over a single
// net.PacketConn, demultiplexing inbound datagrams by remote address the
// way kcp-go's Listener demultiplexes by address before falling back to
// the segment's conv id for a brand-new peer.
type Listener struct {
	conn      net.PacketConn
	table     sessionTable
	chAccepts chan *Conn
	die       chan struct{}

	metrics *metrics.SessionCollector
}

// SetMetrics attaches every connection this listener accepts, from this
// point on, to the given collector.
func (l *Listener) SetMetrics(collector *metrics.SessionCollector) {
	l.metrics = collector
}

// ServeConn serves the protocol for a single already-bound packet
// connection, so callers that need a non-standard socket (e.g. one with
// SO_REUSEPORT set up by hand) can still plug in.
func ServeConn(conn net.PacketConn) (*Listener, error) {
	l := &Listener{
		conn:      conn,
		table:     newSessionTable(defaultIdleTimeout, defaultCleanupInterval),
		chAccepts: make(chan *Conn, 128),
		die:       make(chan struct{}),
	}
	go l.monitor()
	return l, nil
}

// Listen listens for incoming connections on laddr ("udp" network).
func Listen(laddr string) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", laddr)
	if err != nil {
		return nil, errors.Wrap(err, "net.ResolveUDPAddr")
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, errors.Wrap(err, "net.ListenUDP")
	}
	return ServeConn(conn)
}

func (l *Listener) monitor() {
	for {
		buf := bufPool.Get().([]byte)[:mtuLimit]
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			bufPool.Put(buf)
			return
		}
		if n < headerConvSize {
			bufPool.Put(buf)
			continue
		}
		data := append([]byte(nil), buf[:n]...)
		bufPool.Put(buf)

		addr := from.String()
		if c, ok := l.table.Get(addr); ok {
			c.input(data)
			l.table.Touch(addr, c)
			continue
		}

		conv := arq.GetConv(data)
		c := newConn(conv, l, l.conn, from)
		c.input(data)
		l.table.Add(addr, c)
		if l.metrics != nil {
			c.AttachMetrics(l.metrics, addr)
		}

		select {
		case l.chAccepts <- c:
		case <-l.die:
			return
		}
	}
}

// Accept waits for and returns the next connection.
func (l *Listener) Accept() (net.Conn, error) {
	return l.AcceptConn()
}

// AcceptConn waits for and returns the next connection as a *Conn.
func (l *Listener) AcceptConn() (*Conn, error) {
	select {
	case c := <-l.chAccepts:
		return c, nil
	case <-l.die:
		return nil, errors.New(errBrokenPipe)
	}
}

// Close stops accepting new connections and closes the shared socket.
// Already-accepted connections are not closed, but they can no longer
// send or receive, since they write through and are fed from that socket.
func (l *Listener) Close() error {
	select {
	case <-l.die:
	default:
		close(l.die)
	}
	return l.conn.Close()
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.conn.LocalAddr() }

// Dial connects to raddr with a freshly generated conversation id.
func Dial(raddr string) (*Conn, error) {
	var conv uint32
	if err := binary.Read(rand.Reader, binary.LittleEndian, &conv); err != nil {
		return nil, errors.Wrap(err, "rand.Reader")
	}
	return DialConv(raddr, conv)
}

// DialConv connects to raddr using an explicit conversation id, for
// callers that need to pre-arrange conv out of band.
func DialConv(raddr string, conv uint32) (*Conn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", raddr)
	if err != nil {
		return nil, errors.Wrap(err, "net.ResolveUDPAddr")
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, errors.Wrap(err, "net.DialUDP")
	}
	return DialConn(raddr, conv, &connectedUDPConn{conn})
}

// DialConn establishes a session over an already-connected packet
// conn, for callers that built their own socket (e.g. with custom
// SO_* options) and just want arq wired on top of it.
func DialConn(raddr string, conv uint32, conn net.PacketConn) (*Conn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", raddr)
	if err != nil {
		return nil, errors.Wrap(err, "net.ResolveUDPAddr")
	}
	return newConn(conv, nil, conn, udpAddr), nil
}

// connectedUDPConn redirects WriteTo to the plain Write syscall, which
// is faster than WriteTo on some OSes for a socket that's already
// net.DialUDP-connected to a single peer.
type connectedUDPConn struct {
	*net.UDPConn
}

func (c *connectedUDPConn) WriteTo(b []byte, _ net.Addr) (int, error) {
	return c.Write(b)
}

// headerConvSize is the width of the conv field at the front of every
// segment header; it's all monitor needs to peek at before a session
// exists to demultiplex into.
const headerConvSize = 4
