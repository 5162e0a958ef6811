package arq

// congestionCtrl implements TCP-like slow-start, congestion-avoidance and
// fast-retransmit/timeout reactions on top of a byte-granular companion
// counter (incr) that makes cwnd grow by whole packets only once enough
// bytes of "credit" have accumulated, per the reference ARQ core.
type congestionCtrl struct {
	cwnd     uint32
	incr     uint32
	ssthresh uint32
	disabled bool // nocwnd: congestion control disabled, caller trusts snd_wnd/rmt_wnd alone
}

func newCongestionCtrl() *congestionCtrl {
	return &congestionCtrl{ssthresh: initSsthresh}
}

// onAckProgress is called once per Input call in which snd_una advanced,
// growing cwnd by slow start below ssthresh and by congestion avoidance
// above it, then capping both cwnd and incr at the peer's advertised
// window.
func (c *congestionCtrl) onAckProgress(mss, rmtWnd uint32) {
	if c.cwnd >= rmtWnd {
		return
	}
	if c.cwnd < c.ssthresh {
		c.cwnd++
		c.incr += mss
	} else {
		if c.incr < mss {
			c.incr = mss
		}
		c.incr += mss*mss/c.incr + mss/16
		if (c.cwnd+1)*mss <= c.incr {
			c.cwnd++
		}
	}
	if c.cwnd > rmtWnd {
		c.cwnd = rmtWnd
		c.incr = rmtWnd * mss
	}
}

// onTimeoutLoss reacts to a retransmission-timeout loss observed during
// flush: halve ssthresh (floor minSsthresh), collapse cwnd to 1 packet.
func (c *congestionCtrl) onTimeoutLoss(mss uint32) {
	c.ssthresh = maxU32(c.cwnd/2, minSsthresh)
	c.cwnd = 1
	c.incr = mss
}

// onFastRetransmit reacts to at least one segment crossing the fastack
// threshold during this flush: ssthresh becomes half the current
// in-flight count (RFC 6937 rate halving), and cwnd jumps to
// ssthresh+resent so the sender doesn't stall waiting to reopen the
// window one packet at a time.
func (c *congestionCtrl) onFastRetransmit(inflight, resent, mss uint32) {
	c.ssthresh = maxU32(inflight/2, minSsthresh)
	c.cwnd = c.ssthresh + resent
	c.incr = c.cwnd * mss
}

// clampFloor ensures cwnd never drops below one packet.
func (c *congestionCtrl) clampFloor(mss uint32) {
	if c.cwnd < 1 {
		c.cwnd = 1
		c.incr = mss
	}
}

// effectiveWindow returns the sender's usable window in packets: the
// lesser of the local send window and the peer's advertised window,
// further capped by cwnd unless congestion control is disabled.
func (c *congestionCtrl) effectiveWindow(sndWnd, rmtWnd uint32) uint32 {
	w := minU32(sndWnd, rmtWnd)
	if !c.disabled {
		w = minU32(w, c.cwnd)
	}
	return w
}
