// Package udp carries arq.Session traffic over net.PacketConn, giving the
// core ARQ state machine a concrete socket: Dial/Listen/Accept in the
// style of net.Conn/net.Listener, one session per remote address.
package udp

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// sessionTable is an idle-evicting remoteAddr -> *Conn map for a
// Listener's accepted sessions. A session that hasn't produced inbound
// traffic for its TTL is dropped, which is how a listener reclaims
// state for peers that vanished without a close handshake.
type sessionTable struct {
	inner *cache.Cache
}

func newSessionTable(idleTimeout, cleanupInterval time.Duration) sessionTable {
	t := sessionTable{inner: cache.New(idleTimeout, cleanupInterval)}
	t.inner.OnEvicted(func(_ string, v interface{}) {
		c := v.(*Conn)
		c.mu.Lock()
		if !c.closed {
			c.closed = true
			close(c.die)
		}
		c.mu.Unlock()
	})
	return t
}

func (t sessionTable) Add(addr string, c *Conn) {
	t.inner.SetDefault(addr, c)
}

func (t sessionTable) Get(addr string) (*Conn, bool) {
	v, ok := t.inner.Get(addr)
	if !ok {
		return nil, false
	}
	return v.(*Conn), true
}

func (t sessionTable) Touch(addr string, c *Conn) {
	t.inner.SetDefault(addr, c)
}

func (t sessionTable) Delete(addr string) {
	t.inner.Delete(addr)
}

func (t sessionTable) Len() int {
	return t.inner.ItemCount()
}
