package proto

import "errors"

var (
	// ErrVersionMismatch means the datagram was produced by a different
	// protocol version. There is no downgrade negotiation; the client must
	// match the server build.
	ErrVersionMismatch = errors.New("protocol version mismatch")

	ErrUnknownTag = errors.New("unknown message tag")
	ErrTruncated  = errors.New("truncated message")
	ErrTrailing   = errors.New("trailing bytes after message body")
	ErrOversize   = errors.New("field exceeds size limit")
)
