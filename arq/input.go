package arq

// Input decodes one or more back-to-back segments from a received
// datagram and folds them into session state. It returns 0 on success or
// a negative spec §7 code: -1 for a conv mismatch or a header shorter
// than 24 bytes, -2 if a segment's declared length exceeds the bytes
// remaining in the datagram, -3 for an unrecognized command. A bad
// datagram aborts parsing for that call but does not corrupt the
// session; whatever segments were already folded in before the bad one
// was hit remain applied.
func (s *Session) Input(data []byte) int {
	sndUnaOnEntry := s.sndUna

	haveMaxAck := false
	var maxAck uint32

	for len(data) > 0 {
		if len(data) < headerSize {
			return inputCode(ErrShortHeader)
		}
		h, rest := decodeHeader(data)
		if h.conv != s.Conv {
			return inputCode(ErrConvMismatch)
		}
		if uint32(len(rest)) < h.len {
			return inputCode(ErrDeclaredLengthExceedsBuffer)
		}
		if !validCmd(h.cmd) {
			return inputCode(ErrUnknownCommand)
		}

		s.rmtWnd = uint32(h.wnd)
		s.parseUna(h.una)
		s.shrinkBuf()

		switch h.cmd {
		case cmdAck:
			if seqGreaterEq(s.current, h.ts) {
				s.rtt.sample(timeDiff(s.current, h.ts), s.interval)
			}
			s.parseAck(h.sn)
			s.shrinkBuf()
			if !haveMaxAck {
				haveMaxAck = true
				maxAck = h.sn
			} else if seqLess(maxAck, h.sn) {
				maxAck = h.sn
			}
			s.logf(LogInput, "ack sn=%d ts=%d", h.sn, h.ts)
		case cmdPush:
			if seqLess(h.sn, s.rcvNxt+s.rcvWnd) {
				s.acks.push(h.sn, h.ts)
				if seqGreaterEq(h.sn, s.rcvNxt) {
					seg := &segment{
						conv: h.conv, cmd: h.cmd, frg: h.frg, wnd: h.wnd,
						ts: h.ts, sn: h.sn, una: h.una,
						data: append([]byte(nil), rest[:h.len]...),
					}
					s.parseData(seg)
				}
			}
		case cmdWask:
			s.probe |= probeAskTell
		case cmdWins:
			// rmtWnd already updated above; nothing else to do.
		}

		data = rest[h.len:]
	}

	if haveMaxAck {
		s.parseFastAck(maxAck)
	}

	if seqLess(sndUnaOnEntry, s.sndUna) {
		s.cc.onAckProgress(s.mss, s.rmtWnd)
	}

	return 0
}

// parseUna drops every sendBuf segment with sn < una (spec §4.3 step 3).
func (s *Session) parseUna(una uint32) {
	count := 0
	for i := 0; i < s.sendBuf.Len(); i++ {
		if seqLess(s.sendBuf.At(i).sn, una) {
			count++
		} else {
			break
		}
	}
	s.sendBuf.DropFront(count)
}

// shrinkBuf resets sndUna to sendBuf's new head, or sndNxt if empty
// (spec §4.3 step 4).
func (s *Session) shrinkBuf() {
	if head := s.sendBuf.Front(); head != nil {
		s.sndUna = head.sn
	} else {
		s.sndUna = s.sndNxt
	}
}

// parseAck removes the exact-sn segment from sendBuf, if present.
func (s *Session) parseAck(sn uint32) {
	if !seqInRange(sn, s.sndUna, s.sndNxt) {
		return
	}
	s.sendBuf.DeleteBySn(sn)
}

// parseFastAck increments fastack on every sendBuf segment with sn <
// maxAck, driving the duplicate-ACK count that triggers fast retransmit.
func (s *Session) parseFastAck(maxAck uint32) {
	if !seqInRange(maxAck, s.sndUna, s.sndNxt) {
		return
	}
	for i := 0; i < s.sendBuf.Len(); i++ {
		seg := s.sendBuf.At(i)
		if seqGreaterEq(seg.sn, maxAck) {
			break
		}
		seg.fastack++
	}
}

// parseData inserts a PUSH segment into rcvBuf in sorted, deduplicated
// order, then runs the promotion sweep into rcvQueue.
func (s *Session) parseData(seg *segment) {
	if !seqInRange(seg.sn, s.rcvNxt, s.rcvNxt+s.rcvWnd) {
		return
	}
	s.rcvBuf.InsertSortedFromTail(seg)
	s.promoteFromRcvBuf()
}
