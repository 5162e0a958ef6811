package arq

import "encoding/binary"

// segment is the unit of transmission. The wire layout is fixed at 24
// header bytes followed by len(payload) bytes:
//
//	offset  size  field
//	 0       4    conv
//	 4       1    cmd
//	 5       1    frg
//	 6       2    wnd
//	 8       4    ts
//	12       4    sn
//	16       4    una
//	20       4    len
//	24      len   payload
//
// Integers are little-endian on the wire regardless of host byte order;
// encoding/binary.LittleEndian already does the right thing on both
// little- and big-endian hosts, so no host-order branch is needed.
type segment struct {
	conv uint32
	cmd  byte
	frg  byte
	wnd  uint16
	ts   uint32
	sn   uint32
	una  uint32
	data []byte

	// Transient bookkeeping, never placed on the wire.
	resendts uint32
	rto      uint32
	fastack  uint32
	xmit     uint32
}

// encodedLen returns the number of wire bytes this segment occupies.
func (s *segment) encodedLen() int {
	return headerSize + len(s.data)
}

// encode writes the segment's header and payload into dst, which must be
// at least s.encodedLen() bytes, and returns the unused remainder of dst.
func (s *segment) encode(dst []byte) []byte {
	binary.LittleEndian.PutUint32(dst[0:4], s.conv)
	dst[4] = s.cmd
	dst[5] = s.frg
	binary.LittleEndian.PutUint16(dst[6:8], s.wnd)
	binary.LittleEndian.PutUint32(dst[8:12], s.ts)
	binary.LittleEndian.PutUint32(dst[12:16], s.sn)
	binary.LittleEndian.PutUint32(dst[16:20], s.una)
	binary.LittleEndian.PutUint32(dst[20:24], uint32(len(s.data)))
	n := copy(dst[24:], s.data)
	return dst[24+n:]
}

// header is a decoded segment header, without its payload attached.
type header struct {
	conv byte4
	cmd  byte
	frg  byte
	wnd  uint16
	ts   uint32
	sn   uint32
	una  uint32
	len  uint32
}

type byte4 = uint32

// decodeHeader reads a 24-byte header from the front of src and returns it
// along with the bytes following the header. It does not validate cmd or
// verify that len(payload-remaining) >= len; callers (Input) do that
// because the correct error kind depends on which check failed.
func decodeHeader(src []byte) (header, []byte) {
	var h header
	h.conv = binary.LittleEndian.Uint32(src[0:4])
	h.cmd = src[4]
	h.frg = src[5]
	h.wnd = binary.LittleEndian.Uint16(src[6:8])
	h.ts = binary.LittleEndian.Uint32(src[8:12])
	h.sn = binary.LittleEndian.Uint32(src[12:16])
	h.una = binary.LittleEndian.Uint32(src[16:20])
	h.len = binary.LittleEndian.Uint32(src[20:24])
	return h, src[24:]
}

func validCmd(cmd byte) bool {
	switch cmd {
	case cmdPush, cmdAck, cmdWask, cmdWins:
		return true
	}
	return false
}
