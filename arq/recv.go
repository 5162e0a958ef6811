package arq

// PeekSize returns the length of the next complete message in the
// receive queue without consuming it, or -1 if the queue is empty or its
// head begins a fragmented message whose remaining fragments have not
// all arrived yet.
func (s *Session) PeekSize() int {
	head := s.rcvQueue.Front()
	if head == nil {
		return -1
	}
	if head.frg == 0 {
		return len(head.data)
	}
	if s.rcvQueue.Len() < int(head.frg)+1 {
		return -1
	}
	length := 0
	for i := 0; i < s.rcvQueue.Len(); i++ {
		seg := s.rcvQueue.At(i)
		length += len(seg.data)
		if seg.frg == 0 {
			break
		}
	}
	return length
}

// Recv copies the next complete message into buf, returning the number
// of bytes written, or a negative spec §7 code: -1 (ErrEmptyQueue) if
// nothing is ready, -2 (ErrInternalInconsistency) if PeekSize fails
// despite a non-empty queue, -3 (ErrBufferTooSmall) if buf is shorter
// than the ready message. Recv always consumes the message it returns;
// PeekSize reports the next message's length without consuming it, and
// there is no mode that copies a message out while leaving it queued.
func (s *Session) Recv(buf []byte) int {
	if s.rcvQueue.Len() == 0 {
		return recvCode(ErrEmptyQueue)
	}

	peekSize := s.PeekSize()
	if peekSize < 0 {
		return recvCode(ErrInternalInconsistency)
	}
	if peekSize > len(buf) {
		return recvCode(ErrBufferTooSmall)
	}

	wasFull := uint32(s.rcvQueue.Len()) >= s.rcvWnd

	n := 0
	count := 0
	for i := 0; i < s.rcvQueue.Len(); i++ {
		seg := s.rcvQueue.At(i)
		n += copy(buf[n:], seg.data)
		count++
		if seg.frg == 0 {
			break
		}
	}
	s.rcvQueue.DropFront(count)

	s.promoteFromRcvBuf()

	if wasFull && uint32(s.rcvQueue.Len()) < s.rcvWnd {
		// Fast recovery from a zero-window stall: proactively tell the
		// peer our window reopened instead of waiting for it to probe.
		s.probe |= probeAskTell
	}

	return n
}

// promoteFromRcvBuf moves the contiguous run of segments at the head of
// rcvBuf whose sn matches rcvNxt into rcvQueue, while rcvQueue has spare
// capacity, advancing rcvNxt as it goes.
func (s *Session) promoteFromRcvBuf() {
	count := 0
	for i := 0; i < s.rcvBuf.Len(); i++ {
		seg := s.rcvBuf.At(i)
		if seg.sn == s.rcvNxt && uint32(s.rcvQueue.Len()) < s.rcvWnd {
			s.rcvNxt++
			count++
		} else {
			break
		}
	}
	for i := 0; i < count; i++ {
		s.rcvQueue.PushBack(s.rcvBuf.At(i))
	}
	s.rcvBuf.DropFront(count)
}
