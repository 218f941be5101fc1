package transport

import "sync"

// Loopback is an in-memory Transport. Bytes pushed with Feed come back
// out of TryReadByte one at a time, in order. It stands in for the
// serial link in tests and simulation, and carries host-injected
// command lines in front of a real port.
type Loopback struct {
	mx  sync.Mutex
	buf []byte

	// Next, if set, is consulted once the buffer is empty.
	Next Transport
}

func (l *Loopback) Feed(data []byte) {
	l.mx.Lock()
	l.buf = append(l.buf, data...)
	l.mx.Unlock()
}

// FeedLine feeds data followed by a line terminator.
func (l *Loopback) FeedLine(line string) {
	l.Feed(append([]byte(line), '\n'))
}

func (l *Loopback) TryReadByte() (byte, error) {
	l.mx.Lock()
	if len(l.buf) > 0 {
		b := l.buf[0]
		l.buf = l.buf[1:]
		l.mx.Unlock()
		return b, nil
	}
	l.mx.Unlock()

	if l.Next != nil {
		return l.Next.TryReadByte()
	}
	return 0, ErrWouldBlock
}

// Pending returns the number of bytes not yet read.
func (l *Loopback) Pending() int {
	l.mx.Lock()
	defer l.mx.Unlock()
	return len(l.buf)
}
