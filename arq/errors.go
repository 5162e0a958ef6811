package arq

import "errors"

// Sentinel errors naming the error kinds of the entry points in spec §7.
// Send, Recv and Input return plain int codes, not these values: each
// kind is reported as its legacy numeric code through recvCode, sendCode
// or inputCode below, so "returned by" in the comments that follow means
// that entry point returns the kind's negative code.
var (
	// ErrEmptyQueue is returned by Recv when no complete message is ready.
	ErrEmptyQueue = errors.New("arq: receive queue is empty")

	// ErrInternalInconsistency is returned by Recv when PeekSize fails
	// despite a non-empty receive queue, indicating a corrupt invariant.
	ErrInternalInconsistency = errors.New("arq: internal inconsistency")

	// ErrBufferTooSmall is returned by Recv when the caller's buffer is
	// shorter than the ready message.
	ErrBufferTooSmall = errors.New("arq: buffer too small")

	// ErrInvalidArgument is returned by Send for an empty buffer.
	ErrInvalidArgument = errors.New("arq: invalid argument")

	// ErrFragmentOverflow is returned by Send when a message would need
	// more than 255 fragments.
	ErrFragmentOverflow = errors.New("arq: fragment count overflow")

	// ErrShortHeader is returned by Input when a datagram's remaining
	// bytes are shorter than one header.
	ErrShortHeader = errors.New("arq: short header")

	// ErrDeclaredLengthExceedsBuffer is returned by Input when a segment's
	// declared len exceeds the bytes remaining in the datagram.
	ErrDeclaredLengthExceedsBuffer = errors.New("arq: declared length exceeds buffer")

	// ErrUnknownCommand is returned by Input for an unrecognized cmd byte.
	ErrUnknownCommand = errors.New("arq: unknown command")

	// ErrConvMismatch is returned by Input when a segment's conv does not
	// match the session's.
	ErrConvMismatch = errors.New("arq: conversation id mismatch")
)

// recvCode maps Recv's sentinel errors to the legacy numeric return codes
// from spec §7 (empty=-1, internal=-2, too small=-3); success is 0 or the
// positive byte count, handled by the caller, not this helper.
func recvCode(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQueue):
		return -1
	case errors.Is(err, ErrInternalInconsistency):
		return -2
	case errors.Is(err, ErrBufferTooSmall):
		return -3
	default:
		return 0
	}
}

// sendCode maps Send's sentinel errors to spec §7's numeric codes.
func sendCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return -1
	case errors.Is(err, ErrFragmentOverflow):
		return -2
	default:
		return 0
	}
}

// inputCode maps Input's sentinel errors to spec §7's numeric codes.
func inputCode(err error) int {
	switch {
	case errors.Is(err, ErrConvMismatch), errors.Is(err, ErrShortHeader):
		return -1
	case errors.Is(err, ErrDeclaredLengthExceedsBuffer):
		return -2
	case errors.Is(err, ErrUnknownCommand):
		return -3
	default:
		return 0
	}
}
