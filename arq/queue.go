package arq

// segmentQueue is an owned, slice-backed ordered collection of segments.
// The reference ARQ core links segments into intrusive lists so they can
// move between queues without allocation; Go has no equivalent of an
// intrusive list node without giving up value semantics, so this type
// holds owned *segment pointers instead and moves them by copying
// pointers, not payload bytes. Queue sizes are bounded by the send/receive
// window (a few hundred segments at most), so the O(n) operations below
// (sorted insert, delete-by-sn) are cheap in practice; see the "Intrusive
// lists -> owned collections" design note.
type segmentQueue struct {
	segs []*segment
}

func (q *segmentQueue) Len() int { return len(q.segs) }

func (q *segmentQueue) Front() *segment {
	if len(q.segs) == 0 {
		return nil
	}
	return q.segs[0]
}

func (q *segmentQueue) At(i int) *segment { return q.segs[i] }

func (q *segmentQueue) PushBack(s *segment) {
	q.segs = append(q.segs, s)
}

// DropFront removes the first n segments from the queue, releasing their
// ownership.
func (q *segmentQueue) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n >= len(q.segs) {
		q.segs = q.segs[:0]
		return
	}
	copy(q.segs, q.segs[n:])
	for i := len(q.segs) - n; i < len(q.segs); i++ {
		q.segs[i] = nil
	}
	q.segs = q.segs[:len(q.segs)-n]
}

// PopFront removes and returns the first segment, or nil if empty.
func (q *segmentQueue) PopFront() *segment {
	s := q.Front()
	if s != nil {
		q.DropFront(1)
	}
	return s
}

// RemoveAt deletes the segment at index i, preserving order.
func (q *segmentQueue) RemoveAt(i int) {
	copy(q.segs[i:], q.segs[i+1:])
	q.segs[len(q.segs)-1] = nil
	q.segs = q.segs[:len(q.segs)-1]
}

// InsertSortedFromTail inserts s in ascending-sn order, scanning from the
// tail backward since in-order arrivals (the common case) land immediately
// at the back. Returns false without inserting if a segment with the same
// sn is already present.
func (q *segmentQueue) InsertSortedFromTail(s *segment) bool {
	n := len(q.segs)
	idx := n
	for i := n - 1; i >= 0; i-- {
		if q.segs[i].sn == s.sn {
			return false
		}
		if seqLess(q.segs[i].sn, s.sn) {
			idx = i + 1
			break
		}
		idx = i
	}
	q.segs = append(q.segs, nil)
	copy(q.segs[idx+1:], q.segs[idx:n])
	q.segs[idx] = s
	return true
}

// DeleteBySn scans from the head for the exact sn and removes it, stopping
// early once the queue's ascending order proves sn cannot appear further
// on. Returns true if a segment was removed.
func (q *segmentQueue) DeleteBySn(sn uint32) bool {
	for i, s := range q.segs {
		if s.sn == sn {
			q.RemoveAt(i)
			return true
		}
		if seqLess(sn, s.sn) {
			break
		}
	}
	return false
}

// Segments exposes the backing slice for read-only iteration.
func (q *segmentQueue) Segments() []*segment { return q.segs }
