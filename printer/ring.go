package printer

import "errors"

// ErrBufferFull is returned by enqueue when a ring is at capacity. The
// command is rejected, never overwritten.
var ErrBufferFull = errors.New("command buffer full")

// RingSize is the fixed capacity of each per-class command buffer.
const RingSize = 32

// Ring is a fixed-capacity FIFO with wrapping cursors. The backing
// array is owned outright; nothing is ever allocated after
// construction.
type Ring[T any] struct {
	buf   [RingSize]T
	head  int
	tail  int
	count int
}

func (r *Ring[T]) Enqueue(v T) error {
	if r.count == RingSize {
		return ErrBufferFull
	}
	r.buf[r.tail] = v
	r.tail = (r.tail + 1) % RingSize
	r.count++
	return nil
}

func (r *Ring[T]) Dequeue() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % RingSize
	r.count--
	return v, true
}

func (r *Ring[T]) Len() int { return r.count }
