package udp

import (
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/arqcore/arq/arq"
	"github.com/arqcore/arq/internal/metrics"
)

const (
	mtuLimit     = 2048
	rxQueueLimit = 8192

	errBrokenPipe       = "broken pipe"
	errInvalidOperation = "invalid operation"
)

var bufPool = sync.Pool{New: func() interface{} { return make([]byte, mtuLimit) }}

// Conn is a single arq.Session bound to a UDP remote address. It
// satisfies net.Conn; Read blocks until the session's receive queue holds
// a message, while Write enqueues without waiting for window space, on
// the model of UDPSession over a KCP control block, translated from
// KCP's notify-channel idiom to arq's synchronous Output callback.
type Conn struct {
	sess   *arq.Session
	l      *Listener // non-nil for server-side connections accepted off a Listener
	conn   net.PacketConn
	remote net.Addr

	mu           sync.Mutex
	sockbuf      []byte
	rd, wd       time.Time
	closed       bool
	die          chan struct{}
	chReadEvent  chan struct{}
	chWriteEvent chan struct{}

	updateInterval int32

	collector *metrics.SessionCollector
}

// AttachMetrics registers this connection's session with a collector
// under the given label, so it shows up in that collector's next
// Prometheus scrape. Detached automatically on Close.
func (c *Conn) AttachMetrics(collector *metrics.SessionCollector, label string) {
	c.mu.Lock()
	c.collector = collector
	c.mu.Unlock()
	collector.Add(c.sess, label)
}

func newConn(conv uint32, l *Listener, conn net.PacketConn, remote net.Addr) *Conn {
	c := &Conn{
		l:            l,
		conn:         conn,
		remote:       remote,
		die:          make(chan struct{}),
		chReadEvent:  make(chan struct{}, 1),
		chWriteEvent: make(chan struct{}, 1),
	}
	c.sess = arq.New(conv, nil, c.output)
	c.sess.SetWriteLog(nil, 0)
	c.updateInterval = 30

	go c.updateLoop()
	if c.l == nil {
		go c.readLoop()
	}
	return c
}

// Session exposes the underlying ARQ control block for tunable setters
// (NoDelay, SetWindowSize, SetMTU) that have no net.Conn equivalent.
func (c *Conn) Session() *arq.Session { return c.sess }

func (c *Conn) output(buf []byte, _ interface{}) int {
	ext := append([]byte(nil), buf...)
	if _, err := c.conn.WriteTo(ext, c.remote); err != nil {
		return -1
	}
	return 0
}

// Read implements net.Conn. It blocks until one complete message is
// ready, a deadline expires, or the connection closes.
func (c *Conn) Read(b []byte) (int, error) {
	for {
		c.mu.Lock()
		if len(c.sockbuf) > 0 {
			n := copy(b, c.sockbuf)
			c.sockbuf = c.sockbuf[n:]
			c.mu.Unlock()
			return n, nil
		}
		if c.closed {
			c.mu.Unlock()
			return 0, errors.New(errBrokenPipe)
		}
		if !c.rd.IsZero() && time.Now().After(c.rd) {
			c.mu.Unlock()
			return 0, errTimeout{}
		}
		if n := c.sess.PeekSize(); n > 0 {
			buf := make([]byte, n)
			c.sess.Recv(buf)
			n = copy(b, buf)
			c.sockbuf = buf[n:]
			c.mu.Unlock()
			return n, nil
		}

		var timeout <-chan time.Time
		if !c.rd.IsZero() {
			t := time.NewTimer(time.Until(c.rd))
			defer t.Stop()
			timeout = t.C
		}
		c.mu.Unlock()

		select {
		case <-c.chReadEvent:
		case <-timeout:
		case <-c.die:
		}
	}
}

// Write implements net.Conn. It enqueues b for transmission, fragmenting
// at mss, and calls Session.Update at once; that flushes only if the
// session's flush deadline has already passed, otherwise the data goes
// out on a later tick of updateLoop.
func (c *Conn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errors.New(errBrokenPipe)
	}
	if !c.wd.IsZero() && time.Now().After(c.wd) {
		return 0, errTimeout{}
	}

	n := len(b)
	if rc := c.sess.Send(b); rc != 0 {
		return 0, errors.Errorf("arq: Send returned %d", rc)
	}
	c.sess.Update(nowMs())
	return n, nil
}

// Close releases the connection. Server-side connections are also
// removed from their Listener's session table.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New(errBrokenPipe)
	}
	c.closed = true
	close(c.die)
	collector := c.collector
	c.mu.Unlock()

	if collector != nil {
		collector.Remove(c.sess)
	}

	if c.l != nil {
		c.l.table.Delete(c.remote.String())
	} else {
		return c.conn.Close()
	}
	return nil
}

func (c *Conn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.remote }

func (c *Conn) SetDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rd, c.wd = t, t
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rd = t
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wd = t
	return nil
}

// input feeds one received datagram into the session and wakes a
// blocked Read if a complete message became available.
func (c *Conn) input(data []byte) {
	c.mu.Lock()
	c.sess.Input(data)
	ready := c.sess.PeekSize() > 0
	c.mu.Unlock()
	if ready {
		select {
		case c.chReadEvent <- struct{}{}:
		default:
		}
	}
}

func (c *Conn) updateLoop() {
	ticker := time.NewTicker(time.Duration(c.updateInterval) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.sess.Update(nowMs())
			waiting := c.sess.WaitSnd() < int(c.sess.Stats().Cwnd)
			c.mu.Unlock()
			if waiting {
				select {
				case c.chWriteEvent <- struct{}{}:
				default:
				}
			}
		case <-c.die:
			return
		}
	}
}

// readLoop pulls datagrams off conn for a client-side (dialed)
// connection; server-side connections are fed by their Listener's
// monitor goroutine instead.
func (c *Conn) readLoop() {
	for {
		buf := bufPool.Get().([]byte)[:mtuLimit]
		n, _, err := c.conn.ReadFrom(buf)
		if err != nil {
			bufPool.Put(buf)
			return
		}
		data := append([]byte(nil), buf[:n]...)
		bufPool.Put(buf)
		c.input(data)
	}
}

func nowMs() uint32 {
	return uint32(time.Now().UnixNano() / int64(time.Millisecond))
}

type errTimeout struct{ error }

func (errTimeout) Timeout() bool   { return true }
func (errTimeout) Temporary() bool { return true }
func (errTimeout) Error() string   { return "i/o timeout" }
