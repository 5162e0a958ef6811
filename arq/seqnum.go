package arq

// Sequence numbers (sn), cursors (snd_una/snd_nxt/rcv_nxt) and timestamps
// (ts, resendts, ts_flush, ts_probe) are 32-bit values that wrap. Every
// comparison between them must go through the signed-difference idiom
// below rather than a raw < or >, or a wraparound will silently break
// ordering. This is a correctness requirement, not a style choice.

// timeDiff returns later-earlier as a signed difference, wraparound-safe.
func timeDiff(later, earlier uint32) int32 {
	return int32(later - earlier)
}

// seqLess reports whether a comes strictly before b in sequence order.
func seqLess(a, b uint32) bool {
	return timeDiff(a, b) < 0
}

// seqLessEq reports whether a comes before or at b in sequence order.
func seqLessEq(a, b uint32) bool {
	return timeDiff(a, b) <= 0
}

// seqGreaterEq reports whether a comes at or after b in sequence order.
func seqGreaterEq(a, b uint32) bool {
	return timeDiff(a, b) >= 0
}

// seqInRange reports whether v falls in [lo, hi) under wraparound-safe
// sequence order.
func seqInRange(v, lo, hi uint32) bool {
	return seqGreaterEq(v, lo) && seqLess(v, hi)
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func boundU32(lo, mid, hi uint32) uint32 {
	return minU32(maxU32(lo, mid), hi)
}
