// Package arqtest provides a simulated unreliable channel for driving two
// arq.Session values against each other in tests, standing in for a real
// socket the way a loopback pipe would, but with controllable loss,
// reordering and delay.
package arqtest

import "math/rand"

// Channel delivers datagrams handed to Send after a configurable delay,
// dropping a fraction of them and optionally reordering adjacent pairs.
// It is not safe for concurrent use; tests drive it by hand, advancing a
// simulated clock and calling Due between Session.Update calls.
type Channel struct {
	LossPercent    int // 0-100, chance a datagram written to Send is dropped
	DelayMs        uint32
	ReorderPercent int // 0-100, chance of swapping a datagram with the previous one still in flight
	DropEveryNth   int          // if > 0, deterministically drop every Nth call to Send (1-indexed)
	DropCallIndex  map[int]bool // deterministically drop these 1-indexed Send call counts
	rng            *rand.Rand

	sendCalls int
	pending   []inflight
}

type inflight struct {
	data    []byte
	readyAt uint32
}

// NewChannel builds a channel seeded deterministically so a failing test
// reproduces the same sequence of drops/reorders on rerun.
func NewChannel(seed int64) *Channel {
	return &Channel{rng: rand.New(rand.NewSource(seed))}
}

// Send enqueues data for delivery at now+DelayMs, owning a copy of data
// since the caller's buffer may be reused by the next flush.
func (c *Channel) Send(now uint32, data []byte) {
	c.sendCalls++
	if c.DropEveryNth > 0 && c.sendCalls%c.DropEveryNth == 0 {
		return
	}
	if c.DropCallIndex[c.sendCalls] {
		return
	}
	if c.LossPercent > 0 && c.rng.Intn(100) < c.LossPercent {
		return
	}
	cp := append([]byte(nil), data...)
	item := inflight{data: cp, readyAt: now + c.DelayMs}
	if c.ReorderPercent > 0 && len(c.pending) > 0 && c.rng.Intn(100) < c.ReorderPercent {
		last := len(c.pending) - 1
		c.pending = append(c.pending, c.pending[last])
		c.pending[last] = item
		return
	}
	c.pending = append(c.pending, item)
}

// Due drains and returns every datagram whose delay has elapsed as of now,
// in the order they were stored (which may differ from send order if
// ReorderPercent triggered a swap).
func (c *Channel) Due(now uint32) [][]byte {
	var ready [][]byte
	kept := c.pending[:0]
	for _, item := range c.pending {
		if now >= item.readyAt {
			ready = append(ready, item.data)
		} else {
			kept = append(kept, item)
		}
	}
	c.pending = kept
	return ready
}

// InFlight reports how many datagrams are still pending delivery.
func (c *Channel) InFlight() int {
	return len(c.pending)
}
