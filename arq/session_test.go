package arq

import (
	"bytes"
	"testing"

	"github.com/arqcore/arq/arq/arqtest"
)

func newLinkedPair(t *testing.T) (a, b *Session, clock *arqtest.Clock, ab, ba *arqtest.Channel) {
	t.Helper()
	clock = arqtest.NewClock()
	ab = arqtest.NewChannel(1)
	ba = arqtest.NewChannel(2)
	a = New(42, nil, arqtest.NewCapturingOutput(ab, clock))
	b = New(42, nil, arqtest.NewCapturingOutput(ba, clock))
	return
}

func TestSessionSingleSmallMessage(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)

	if rc := a.Send([]byte("hello")); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}

	arqtest.Pump(a, b, clock, ab, ba, 2000, 10)

	buf := make([]byte, 64)
	n := b.Recv(buf)
	if n != 5 {
		t.Fatalf("Recv returned %d, want 5", n)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Recv payload = %q, want %q", buf[:n], "hello")
	}
}

func TestSessionTwoFragmentMessage(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)

	payload := bytes.Repeat([]byte{0xAA}, 2000)
	if rc := a.Send(payload); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}

	// Advance just enough for the first fragment to arrive, but not the
	// second; PeekSize must not report a partial message as ready.
	arqtest.Pump(a, b, clock, ab, ba, 200, 10)
	if sz := b.PeekSize(); sz >= 0 {
		t.Fatalf("PeekSize reported %d ready before both fragments arrived", sz)
	}

	arqtest.Pump(a, b, clock, ab, ba, 2000, 10)
	if sz := b.PeekSize(); sz != 2000 {
		t.Fatalf("PeekSize = %d, want 2000 once both fragments arrived", sz)
	}

	buf := make([]byte, 4096)
	n := b.Recv(buf)
	if n != 2000 {
		t.Fatalf("Recv returned %d, want 2000", n)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Fatalf("Recv payload mismatch")
	}
}

func TestSessionOrderedDeliveryOfManyMessages(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)

	messages := [][]byte{
		{0x01},
		bytes.Repeat([]byte{0x02}, int(a.mss)-1),
		bytes.Repeat([]byte{0x03}, int(a.mss)),
		bytes.Repeat([]byte{0x04}, int(a.mss)+1),
	}
	for _, m := range messages {
		if rc := a.Send(m); rc != 0 {
			t.Fatalf("Send(%d bytes) returned %d", len(m), rc)
		}
	}

	arqtest.Pump(a, b, clock, ab, ba, 5000, 10)

	buf := make([]byte, 8192)
	for _, want := range messages {
		n := b.Recv(buf)
		if n != len(want) {
			t.Fatalf("Recv returned %d, want %d", n, len(want))
		}
		if !bytes.Equal(buf[:n], want) {
			t.Fatalf("Recv payload mismatch for %d-byte message", len(want))
		}
	}
	if n := b.Recv(buf); n >= 0 {
		t.Fatalf("Recv returned %d after all messages drained, want a negative code", n)
	}
}

func TestSessionDropAndRecover(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)
	ab.DropEveryNth = 3

	payload := bytes.Repeat([]byte{0x7E}, int(a.mss)*5)
	if rc := a.Send(payload); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}

	arqtest.Pump(a, b, clock, ab, ba, 4000, 10)

	buf := make([]byte, 16384)
	n := b.Recv(buf)
	if n != len(payload) {
		t.Fatalf("Recv returned %d, want %d", n, len(payload))
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Fatalf("Recv payload mismatch after drops")
	}
}

// TestSessionFastRetransmitTriggersBeforeTimeout drives the duplicate-ack
// counting and flush-sweep mechanism directly: two segments are put in
// flight, parseFastAck is called twice to simulate the peer acking a
// later segment while the earlier one is presumed lost, and flush is
// expected to retransmit the earlier segment immediately rather than
// waiting for its (deliberately far-future) timeout.
func TestSessionFastRetransmitTriggersBeforeTimeout(t *testing.T) {
	var sent [][]byte
	a := New(7, nil, func(buf []byte, _ interface{}) int {
		sent = append(sent, append([]byte(nil), buf...))
		return 0
	})
	a.NoDelay(1, 10, 2, 1) // nodelay, 10ms interval, fastresend=2, cwnd disabled

	if rc := a.Send([]byte{0xAA}); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}
	if rc := a.Send([]byte{0xBB}); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}

	a.Update(0)
	if len(sent) != 1 {
		t.Fatalf("expected one batched transmission of both segments, got %d", len(sent))
	}
	if a.sendBuf.Len() != 2 {
		t.Fatalf("sendBuf.Len() = %d, want 2", a.sendBuf.Len())
	}

	lost := a.sendBuf.At(0)
	if lost.sn != 0 {
		t.Fatalf("sendBuf[0].sn = %d, want 0", lost.sn)
	}
	farFuture := lost.resendts + 1_000_000
	lost.resendts = farFuture

	a.parseFastAck(1)
	a.parseFastAck(1)
	if lost.fastack < 2 {
		t.Fatalf("fastack = %d, want >= 2 after two duplicate-ack observations", lost.fastack)
	}

	a.flush()

	if len(sent) != 2 {
		t.Fatalf("expected a fast retransmit to have produced a second transmission, got %d total", len(sent))
	}
	if lost.fastack != 0 {
		t.Fatalf("fastack = %d, want reset to 0 after fast retransmit", lost.fastack)
	}
	if lost.resendts == farFuture {
		t.Fatalf("resendts should have been refreshed by the fast retransmit, not left at the sentinel")
	}
}

func TestSessionDuplicateAckDoesNotDisturbSendBuffer(t *testing.T) {
	clock := arqtest.NewClock()
	ab := arqtest.NewChannel(1)
	ba := arqtest.NewChannel(2)

	var capturedAcks [][]byte
	a := New(42, nil, arqtest.NewCapturingOutput(ab, clock))
	b := New(42, nil, func(buf []byte, user interface{}) int {
		capturedAcks = append(capturedAcks, append([]byte(nil), buf...))
		ba.Send(clock.Now(), buf)
		return 0
	})

	if rc := a.Send([]byte("one")); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}
	arqtest.Pump(a, b, clock, ab, ba, 500, 10)

	buf := make([]byte, 64)
	if n := b.Recv(buf); n != 3 {
		t.Fatalf("Recv returned %d, want 3", n)
	}
	if len(capturedAcks) == 0 {
		t.Fatalf("expected B to have sent at least one ACK datagram")
	}

	sndUnaBefore := a.sndUna
	sendBufLenBefore := a.sendBuf.Len()

	// Replay every ACK datagram B ever sent; sn=0 is already consumed, so
	// sndUna and sendBuf must be unaffected by the replay.
	for _, dgram := range capturedAcks {
		a.Input(dgram)
	}

	if a.sndUna != sndUnaBefore {
		t.Fatalf("sndUna moved from %d to %d on a replayed ACK", sndUnaBefore, a.sndUna)
	}
	if a.sendBuf.Len() != sendBufLenBefore {
		t.Fatalf("sendBuf length moved from %d to %d on a replayed ACK", sendBufLenBefore, a.sendBuf.Len())
	}
}

func TestSessionWrapSafety(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)
	a.sndNxt = ^uint32(0) - 9
	a.sndUna = a.sndNxt
	b.rcvNxt = a.sndNxt

	// Twelve one-segment messages take sn from 2^32-10 past 0 to 1.
	var messages [][]byte
	for i := 0; i < 12; i++ {
		messages = append(messages, []byte{byte(i), 0xEE})
	}
	for _, m := range messages {
		if rc := a.Send(m); rc != 0 {
			t.Fatalf("Send(%q) returned %d", m, rc)
		}
	}

	arqtest.Pump(a, b, clock, ab, ba, 2000, 10)

	buf := make([]byte, 64)
	for _, want := range messages {
		n := b.Recv(buf)
		if n != len(want) {
			t.Fatalf("Recv returned %d, want %d", n, len(want))
		}
		if !bytes.Equal(buf[:n], want) {
			t.Fatalf("Recv payload = %q, want %q", buf[:n], want)
		}
	}
}

func TestSessionStreamCoalescing(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)
	a.stream = true
	b.stream = true

	if rc := a.Send([]byte("ab")); rc != 0 {
		t.Fatalf("Send(ab) returned %d", rc)
	}
	if rc := a.Send([]byte("cd")); rc != 0 {
		t.Fatalf("Send(cd) returned %d", rc)
	}

	if a.sendQueue.Len() != 1 {
		t.Fatalf("sendQueue.Len() = %d, want 1 (coalesced into one segment)", a.sendQueue.Len())
	}
	if got := string(a.sendQueue.Front().data); got != "abcd" {
		t.Fatalf("coalesced segment payload = %q, want %q", got, "abcd")
	}

	arqtest.Pump(a, b, clock, ab, ba, 500, 10)

	buf := make([]byte, 64)
	n := b.Recv(buf)
	if n != 4 || string(buf[:n]) != "abcd" {
		t.Fatalf("Recv = %q (n=%d), want %q", buf[:n], n, "abcd")
	}
}

func TestSessionZeroWindowProbe(t *testing.T) {
	a, b, clock, ab, ba := newLinkedPair(t)
	b.SetWindowSize(32, 1)

	// Fill B's receive window without draining it via Recv, so its
	// advertised window collapses to zero.
	if rc := a.Send([]byte("first")); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}
	arqtest.Pump(a, b, clock, ab, ba, 300, 10)

	if a.rmtWnd != 0 {
		t.Fatalf("rmtWnd = %d, want 0 once B's receive queue is full", a.rmtWnd)
	}

	if rc := a.Send([]byte("second")); rc != 0 {
		t.Fatalf("Send returned %d", rc)
	}
	arqtest.Pump(a, b, clock, ab, ba, 6900, 10)
	if a.probeWait == 0 {
		t.Fatalf("expected a zero-window probe to have been armed by 7s")
	}

	buf := make([]byte, 64)
	n := b.Recv(buf)
	if n != 5 {
		t.Fatalf("Recv returned %d, want 5", n)
	}

	// Draining B reopens its window; B advertises it and A sends the
	// second message.
	arqtest.Pump(a, b, clock, ab, ba, 500, 10)

	n = b.Recv(buf)
	if n != 6 {
		t.Fatalf("Recv returned %d, want 6 once the window reopened", n)
	}
}
