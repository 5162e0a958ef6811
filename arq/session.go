package arq

import "encoding/binary"

// OutputFunc is called synchronously from flush (and only from flush) to
// emit one MTU-sized datagram. It must not mutate or reenter the Session
// that invoked it. The return value is not interpreted by the core; it
// exists so a caller's output sink can surface write errors to its own
// logging.
type OutputFunc func(buf []byte, user interface{}) int

// Session is the per-conversation ARQ control block described in
// spec.md §3: six logical regions (send queue, send buffer, receive
// buffer, receive queue, ACK list, flush/encoder) plus timing, window and
// congestion-control state, all reachable from a single struct so the
// four subsystems (sliding window, fast retransmit, RTT/RTO, congestion
// control) can collaborate without extra synchronization of their own.
//
// Session is not safe for concurrent use.
type Session struct {
	Conv uint32      // conversation id; segments with a mismatched conv are rejected
	User interface{} // opaque token passed back through Output/WriteLog

	mtu uint32
	mss uint32 // mtu - headerSize

	sndWnd uint32 // local cap on outstanding segments
	rcvWnd uint32 // local cap on reassembly capacity
	rmtWnd uint32 // last window size advertised by the peer

	sndUna uint32
	sndNxt uint32
	rcvNxt uint32

	cc *congestionCtrl

	sendQueue segmentQueue // payloads awaiting window credit
	sendBuf   segmentQueue // PUSH segments in flight, sn in [sndUna, sndNxt)
	rcvBuf    segmentQueue // out-of-order arrivals awaiting their predecessors
	rcvQueue  segmentQueue // in-order segments ready for Recv

	acks ackList

	rtt *rttEstimator

	current    uint32 // last known time, ms
	interval   uint32 // flush period, ms
	tsFlush    uint32
	tsProbe    uint32
	probeWait  uint32
	probe      uint16 // bitmask of probeAskSend/probeAskTell
	nodelay    bool
	stream     bool
	updated    bool
	state      int32 // 0 normally, -1 once a segment hits deadLink retransmissions
	fastresend int32 // duplicate-ack threshold; 0 disables fast retransmit
	deadLink   uint32
	xmit       uint32 // session-wide count of timeout retransmissions; fast retransmits are not counted

	scratch []byte // encoding buffer, sized 3*(mtu+headerSize); owned exclusively by flush

	output   OutputFunc
	writeLog WriteLogFunc
	logMask  uint32
}

// New creates a session for the given conversation id. output is invoked
// synchronously from flush to emit datagrams; it must never be nil.
func New(conv uint32, user interface{}, output OutputFunc) *Session {
	s := &Session{
		Conv:       conv,
		User:       user,
		mtu:        defaultMTU,
		sndWnd:     defaultSndWnd,
		rcvWnd:     defaultRcvWnd,
		rmtWnd:     defaultRcvWnd,
		cc:         newCongestionCtrl(),
		rtt:        newRTTEstimator(),
		interval:   defaultIntervalMs,
		deadLink:   defaultDeadLink,
		fastresend: 0,
		output:     output,
	}
	s.mss = s.mtu - headerSize
	s.scratch = make([]byte, (s.mtu+headerSize)*3)
	return s
}

// SetWriteLog installs a log sink gated by mask; pass 0 to disable.
func (s *Session) SetWriteLog(fn WriteLogFunc, mask uint32) {
	s.writeLog = fn
	s.logMask = mask
}

// State returns 0 normally, or -1 once some segment has been
// retransmitted DeadLink times. The reference never clears this back to
// 0; neither does this implementation (see DESIGN.md on spec.md's open
// question about dead-link recovery). Policy on what to do about it
// (close the session? reset it?) is left to the caller, per spec §7.
func (s *Session) State() int32 { return s.state }

// WaitSnd reports how many segments are queued or in flight, awaiting
// acknowledgement.
func (s *Session) WaitSnd() int {
	return s.sendBuf.Len() + s.sendQueue.Len()
}

// GetConv extracts the conversation id from the first 4 bytes of a raw
// datagram, for demultiplexing before handing it to Input.
func GetConv(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[:4])
}

// SetMTU changes the maximum transmission unit; mtu must be at least 50
// and large enough to hold one header. Resizes the scratch buffer.
func (s *Session) SetMTU(mtu int) int {
	if mtu < 50 || mtu < headerSize {
		return -1
	}
	s.mtu = uint32(mtu)
	s.mss = s.mtu - headerSize
	s.scratch = make([]byte, (s.mtu+headerSize)*3)
	return 0
}

// NoDelay is the composite tunable setter from spec §6. Passing a
// negative value for any argument leaves that setting unchanged.
//
//	nodelay: 0 disables (default), 1 enables and lowers the RTO floor
//	interval: flush period in ms, clamped to [10, 5000]
//	resend: fast-retransmit duplicate-ACK threshold; 0 disables
//	nc: 1 disables congestion control (effective window becomes
//	    min(sndWnd, rmtWnd) with cwnd ignored)
func (s *Session) NoDelay(nodelay, interval, resend, nc int) int {
	if nodelay >= 0 {
		s.nodelay = nodelay != 0
		if s.nodelay {
			s.rtt.minRTO = noDelayRTOFloorMs
		} else {
			s.rtt.minRTO = minRTOFloorMs
		}
	}
	if interval >= 0 {
		if interval > int(maxIntervalMs) {
			interval = int(maxIntervalMs)
		} else if interval < int(minIntervalMs) {
			interval = int(minIntervalMs)
		}
		s.interval = uint32(interval)
	}
	if resend >= 0 {
		s.fastresend = int32(resend)
	}
	if nc >= 0 {
		s.cc.disabled = nc != 0
	}
	return 0
}

// SetWindowSize sets independent send/receive window caps; a
// non-positive value leaves the corresponding cap unchanged.
func (s *Session) SetWindowSize(sndWnd, rcvWnd int) int {
	if sndWnd > 0 {
		s.sndWnd = uint32(sndWnd)
	}
	if rcvWnd > 0 {
		s.rcvWnd = uint32(rcvWnd)
	}
	return 0
}

// SetStreamMode toggles stream mode (spec §4.1): on, Send coalesces
// small writes into the sendQueue's tail segment instead of always
// starting a new one, and segments always carry frg==0, trading message
// boundaries for fewer, fuller segments.
func (s *Session) SetStreamMode(enabled bool) {
	s.stream = enabled
}

// wndUnused reports spare capacity in the receive queue.
func (s *Session) wndUnused() uint16 {
	if uint32(s.rcvQueue.Len()) < s.rcvWnd {
		return uint16(s.rcvWnd - uint32(s.rcvQueue.Len()))
	}
	return 0
}
