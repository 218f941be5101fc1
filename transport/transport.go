// Package transport provides the byte-source boundary between the
// printer core and the physical serial link.
package transport

import "errors"

// ErrWouldBlock is returned by TryReadByte when no byte is pending.
// It is the expected steady state, not a failure.
var ErrWouldBlock = errors.New("no byte available")

// Transport is the only capability the printer core requires from the
// serial link.
type Transport interface {
	// TryReadByte returns one byte without blocking, or ErrWouldBlock.
	TryReadByte() (byte, error)
}
