// Package arq implements a reliable, ordered, message-oriented transport
// protocol on top of an unreliable datagram substrate. It is a single-
// threaded, cooperative ARQ state machine: a sliding-window send/receive
// pipeline with selective acknowledgement, a fast-retransmit engine driven
// by duplicate-ACK counting, an RTT/RTO estimator, and a TCP-like
// congestion controller with slow start, congestion avoidance, and
// zero-window probing.
//
// The package does no I/O of its own and has no notion of wall-clock
// time: callers feed it received datagrams through Input, pull ready
// payloads through Recv, push outgoing payloads through Send, and drive
// its clock through Update, supplying a monotonic millisecond timestamp
// each time. Outgoing datagrams are emitted synchronously, from within
// Update/flush, through the Output callback supplied to New.
//
// A Session is not safe for concurrent use; callers must serialize all
// calls to Send, Recv, Input, Update and Check, typically by running a
// single session on a single goroutine or behind an external lock.
package arq

// Protocol-level constants, named after the wire fields and commands in
// the data model: conv/cmd/frg/wnd/ts/sn/una/len. Timestamps and
// intervals are uint32 milliseconds throughout, matching the wire
// representation of ts and the caller-supplied clock.
const (
	cmdPush byte = 81 // push data
	cmdAck  byte = 82 // acknowledge data
	cmdWask byte = 83 // ask remote to tell its window
	cmdWins byte = 84 // tell remote our window

	probeAskSend uint16 = 1 // need to send cmdWask
	probeAskTell uint16 = 2 // need to send cmdWins

	headerSize = 24 // bytes per segment header, see Segment wire layout

	defaultSndWnd uint32 = 32
	defaultRcvWnd uint32 = 32
	defaultMTU    uint32 = 1400

	defaultIntervalMs uint32 = 100
	defaultRTOMs      uint32 = 200
	minRTOFloorMs     uint32 = 100
	noDelayRTOFloorMs uint32 = 30
	maxRTOMs          uint32 = 60000

	minIntervalMs uint32 = 10
	maxIntervalMs uint32 = 5000

	initSsthresh uint32 = 2
	minSsthresh  uint32 = 2

	defaultDeadLink uint32 = 20

	probeInitMs  uint32 = 7000
	probeLimitMs uint32 = 120000

	maxFragments = 255

	// flushSkewLimitMs bounds the clock-skew resync window used by Update.
	flushSkewLimitMs uint32 = 10000
)
