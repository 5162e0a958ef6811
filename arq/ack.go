package arq

// ackItem is a pending (sn, ts) pair awaiting transmission as its own ACK
// segment. The ts is the timestamp copied from the PUSH segment that
// triggered this ACK, not the current time, so the peer can compute RTT.
type ackItem struct {
	sn uint32
	ts uint32
}

// ackList accumulates pending ACKs during an Input call and is drained by
// flush. Capacity doubles on growth, matching append's default strategy;
// there is no need for a smarter structure since the list is reset to
// empty at the end of every flush cycle.
type ackList struct {
	items []ackItem
}

func (a *ackList) push(sn, ts uint32) {
	a.items = append(a.items, ackItem{sn: sn, ts: ts})
}

func (a *ackList) len() int { return len(a.items) }

// drain returns the accumulated acks and resets the list to empty.
func (a *ackList) drain() []ackItem {
	items := a.items
	a.items = nil
	return items
}
