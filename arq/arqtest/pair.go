package arqtest

// Endpoint is the part of *arq.Session that Pump drives. Pump takes it
// instead of *arq.Session so this package does not import arq, which
// lets arq's own in-package tests import arqtest without an import cycle.
type Endpoint interface {
	Input(data []byte) int
	Update(current uint32)
}

// Clock is a shared simulated-time cursor. Tests keep one per scenario and
// pass it to every Pump call so repeated calls continue the same timeline
// instead of each restarting at zero.
type Clock struct {
	now uint32
}

// NewClock returns a Clock starting at 0.
func NewClock() *Clock { return &Clock{} }

// Now reports the current simulated time.
func (c *Clock) Now() uint32 { return c.now }

// Pump advances clock by durationMs in stepMs increments, routing a's
// output through ab and b's through ba, delivering whatever has arrived
// at each step via Input, and driving both sessions' Update. Calling it
// again with the same Clock continues the timeline where the previous
// call left off, which is what lets a test interleave Send calls with
// bounded stretches of simulated time.
func Pump(a, b Endpoint, clock *Clock, ab, ba *Channel, durationMs, stepMs uint32) {
	end := clock.now + durationMs
	for clock.now <= end {
		for _, dgram := range ab.Due(clock.now) {
			b.Input(dgram)
		}
		for _, dgram := range ba.Due(clock.now) {
			a.Input(dgram)
		}
		a.Update(clock.now)
		b.Update(clock.now)
		if clock.now == end {
			break
		}
		next := clock.now + stepMs
		if next > end {
			next = end
		}
		clock.now = next
	}
}

// NewCapturingOutput returns an output callback, assignable to
// arq.OutputFunc, that forwards every datagram to ch.Send stamped with
// clock's current time. Output only ever fires synchronously from within
// Update, so by the time it runs clock.now already holds the right value.
func NewCapturingOutput(ch *Channel, clock *Clock) func(buf []byte, user interface{}) int {
	return func(buf []byte, _ interface{}) int {
		ch.Send(clock.now, buf)
		return 0
	}
}
