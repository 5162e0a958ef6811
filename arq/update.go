package arq

// Update drives the session's clock forward to current (milliseconds,
// caller-defined epoch — typically time since process start) and flushes
// whatever that advance makes ready to send. It must be called
// periodically; Check reports when the next call is actually needed, so
// a caller need not busy-poll Update on every interval tick.
func (s *Session) Update(current uint32) {
	s.current = current

	if !s.updated {
		s.updated = true
		s.tsFlush = s.current
	}

	diff := timeDiff(s.current, s.tsFlush)
	if diff >= int32(flushSkewLimitMs) || diff < -int32(flushSkewLimitMs) {
		// Caller's clock jumped (process suspended, clock reset); resync
		// instead of flushing in a tight loop to catch up.
		s.tsFlush = s.current
		diff = 0
	}

	if diff >= 0 {
		s.tsFlush += s.interval
		if seqGreaterEq(s.current, s.tsFlush) {
			s.tsFlush = s.current + s.interval
		}
		s.flush()
	}
}

// Check reports the timestamp (in the same clock as Update's argument) at
// which Update should next be called: either the regular flush interval,
// or sooner if some in-flight segment's resend deadline falls first. A
// caller can sleep until Check's return value instead of polling Update
// on a fixed tick.
func (s *Session) Check(current uint32) uint32 {
	if !s.updated {
		return current
	}

	tsFlush := s.tsFlush
	if seqGreaterEq(current, tsFlush) || timeDiff(tsFlush, current) >= int32(flushSkewLimitMs) {
		tsFlush = current
	}
	if seqGreaterEq(current, tsFlush) {
		return current
	}

	earliest := tsFlush - current

	segs := s.sendBuf.Segments()
	for _, seg := range segs {
		diff := timeDiff(seg.resendts, current)
		if diff <= 0 {
			return current
		}
		if uint32(diff) < earliest {
			earliest = uint32(diff)
		}
	}

	if earliest > s.interval {
		earliest = s.interval
	}

	return current + earliest
}
