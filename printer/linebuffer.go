package printer

// LineSize is the fixed capacity of the line accumulator.
const LineSize = 256

// lineBuffer accumulates the bytes of one command line. Bytes past
// LineSize are dropped and the line is marked truncated; truncated
// lines are discarded whole at the terminator.
type lineBuffer struct {
	buf       [LineSize]byte
	n         int
	truncated bool
}

func (l *lineBuffer) push(b byte) {
	if l.n == LineSize {
		l.truncated = true
		return
	}
	l.buf[l.n] = b
	l.n++
}

func (l *lineBuffer) bytes() []byte { return l.buf[:l.n] }

func (l *lineBuffer) reset() {
	l.n = 0
	l.truncated = false
}
