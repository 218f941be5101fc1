// Package printer implements the dispatch core of the firmware: it
// pulls bytes from the serial transport, decodes complete lines into
// commands, and forwards them to the motion layer with emergency
// commands preempting ordinary ones.
package printer

import (
	"errors"
	"io"
	"unicode/utf8"

	"github.com/zethra/wasp/gcode"
	"github.com/zethra/wasp/transport"
)

const lineTerminator = '\n'

// ErrEncoding marks a line that is not valid UTF-8. The whole line is
// discarded; the loop keeps running.
var ErrEncoding = errors.New("line is not valid text")

// A Dispatcher consumes commands in the order the printer forwards
// them. Dispatch must not block; queued commands are applied in
// arrival order and a duplicate EmergencyStop must be safe.
type Dispatcher interface {
	Dispatch(gcode.Command)
}

// Stats counts the recoverable conditions of the dispatch loop. None
// of them stop the loop.
type Stats struct {
	Lines          uint64 // complete lines received
	LinesTruncated uint64 // lines over LineSize, discarded whole
	EncodingErrors uint64 // lines that failed UTF-8 validation
	SyntaxErrors   uint64 // malformed fragments skipped
	DroppedQueued  uint64 // commands rejected by a full queued buffer
	DroppedImmed   uint64 // commands rejected by a full immediate buffer
	Dispatched     uint64
}

// Printer owns all dispatch state: the line accumulator and both
// command rings. It is driven by a single goroutine calling Tick; the
// buffers are never touched from outside.
type Printer struct {
	tr   transport.Transport
	disp Dispatcher

	line      lineBuffer
	queued    Ring[gcode.Command]
	immediate Ring[gcode.Command]

	stats Stats
}

func New(tr transport.Transport, disp Dispatcher) *Printer {
	return &Printer{tr: tr, disp: disp}
}

// Tick runs one bounded unit of work: at most one byte received, at
// most one line decoded, at most one command dispatched. It never
// blocks and never fails.
func (p *Printer) Tick() {
	if p.receive() {
		p.decodeLine()
	}

	if cmd, ok := p.immediate.Dequeue(); ok {
		p.stats.Dispatched++
		p.disp.Dispatch(cmd)
		return
	}
	if cmd, ok := p.queued.Dequeue(); ok {
		p.stats.Dispatched++
		p.disp.Dispatch(cmd)
	}
}

// receive pulls at most one byte from the transport. It returns true
// when a full line is ready for decoding.
func (p *Printer) receive() bool {
	b, err := p.tr.TryReadByte()
	if err != nil {
		// ErrWouldBlock is the steady state; a real transport error is
		// indistinguishable from silence at this layer and is retried
		// next tick.
		return false
	}
	if b != lineTerminator {
		p.line.push(b)
		return false
	}
	return true
}

// decodeLine turns the accumulated line into commands and enqueues
// them by class. The line buffer is reset no matter what.
func (p *Printer) decodeLine() {
	defer p.line.reset()

	p.stats.Lines++
	if p.line.truncated {
		p.stats.LinesTruncated++
		return
	}
	data := p.line.bytes()
	if !utf8.Valid(data) {
		p.stats.EncodingErrors++
		return
	}

	parser := gcode.NewParser(string(data))
	for {
		cmd, err := parser.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			p.stats.SyntaxErrors++
			continue
		}
		p.enqueue(cmd)
	}
}

func (p *Printer) enqueue(cmd gcode.Command) {
	if Classify(cmd) == Immediate {
		if p.immediate.Enqueue(cmd) != nil {
			p.stats.DroppedImmed++
		}
		return
	}
	if p.queued.Enqueue(cmd) != nil {
		p.stats.DroppedQueued++
	}
}

// Stats returns a snapshot of the loop counters.
func (p *Printer) Stats() Stats { return p.stats }

// Backlog reports how many commands are waiting in each class.
func (p *Printer) Backlog() (immediate, queued int) {
	return p.immediate.Len(), p.queued.Len()
}
