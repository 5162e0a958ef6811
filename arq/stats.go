package arq

// Stats is a point-in-time snapshot of a session's congestion and window
// state, for callers that want to export it (logging, metrics) without
// arq itself depending on a metrics library.
type Stats struct {
	Cwnd     uint32
	Ssthresh uint32
	Rto      uint32
	Xmit     uint32
	WaitSnd  int
	RmtWnd   uint32
}

// Stats reports the session's current congestion and window state.
func (s *Session) Stats() Stats {
	return Stats{
		Cwnd:     s.cc.cwnd,
		Ssthresh: s.cc.ssthresh,
		Rto:      s.rtt.rto,
		Xmit:     s.xmit,
		WaitSnd:  s.WaitSnd(),
		RmtWnd:   s.rmtWnd,
	}
}
