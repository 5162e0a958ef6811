package arq

// Send enqueues a user payload for transmission, returning 0 on success
// or a negative spec §7 code: -1 (ErrInvalidArgument) for an empty
// buffer, -2 (ErrFragmentOverflow) if the message would need more than
// 255 fragments.
//
// In message mode (the default) the payload is split into
// ceil(len/mss) segments, frg counting down from count-1 to 0; only the
// frg==0 segment terminates the message, which is how the receiver
// recovers message boundaries without an explicit length prefix. In
// stream mode, segments always carry frg==0 and Send opportunistically
// extends the queue's tail segment instead of starting a new one when it
// has spare room, coalescing small writes the way a byte-stream
// transport would.
func (s *Session) Send(buf []byte) int {
	if len(buf) == 0 {
		return sendCode(ErrInvalidArgument)
	}

	if s.stream {
		if tail := s.sendQueue.lastOrNil(); tail != nil && uint32(len(tail.data)) < s.mss {
			room := int(s.mss) - len(tail.data)
			extend := room
			if len(buf) < room {
				extend = len(buf)
			}
			merged := make([]byte, len(tail.data)+extend)
			copy(merged, tail.data)
			copy(merged[len(tail.data):], buf[:extend])
			tail.data = merged
			buf = buf[extend:]
		}
		if len(buf) == 0 {
			return 0
		}
	}

	count := 1
	if len(buf) > int(s.mss) {
		count = (len(buf) + int(s.mss) - 1) / int(s.mss)
	}
	if count > maxFragments {
		return sendCode(ErrFragmentOverflow)
	}

	for i := 0; i < count; i++ {
		size := int(s.mss)
		if len(buf) < size {
			size = len(buf)
		}
		seg := &segment{data: append([]byte(nil), buf[:size]...)}
		if !s.stream {
			seg.frg = byte(count - i - 1)
		}
		s.sendQueue.PushBack(seg)
		buf = buf[size:]
	}
	return 0
}

// lastOrNil returns the queue's tail segment, or nil if empty.
func (q *segmentQueue) lastOrNil() *segment {
	if len(q.segs) == 0 {
		return nil
	}
	return q.segs[len(q.segs)-1]
}
