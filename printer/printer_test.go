package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zethra/wasp/gcode"
	"github.com/zethra/wasp/transport"
)

type recorder struct {
	cmds []gcode.Command
}

func (r *recorder) Dispatch(cmd gcode.Command) { r.cmds = append(r.cmds, cmd) }

// run ticks until the transport is drained and both rings are empty.
func run(p *Printer, lb *transport.Loopback) {
	for lb.Pending() > 0 {
		p.Tick()
	}
	for im, q := p.Backlog(); im+q > 0; im, q = p.Backlog() {
		p.Tick()
	}
}

// fill pushes the whole stream through receive/decode without
// dispatching anything.
func fill(p *Printer, lb *transport.Loopback) {
	for lb.Pending() > 0 {
		if p.receive() {
			p.decodeLine()
		}
	}
}

func TestPrinter_PreemptionOrder(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	lb.Feed([]byte("G0 X10\nM112\nG0 Y5\n"))
	fill(p, lb)
	run(p, lb)

	// everything was enqueued before the first dispatch, so the
	// emergency stop goes out first, then the moves in arrival order
	assert.Len(t, rec.cmds, 3)
	assert.Equal(t, gcode.KindEmergencyStop, rec.cmds[0].Kind)
	assert.Equal(t, gcode.KindMove, rec.cmds[1].Kind)
	assert.Equal(t, gcode.Coord{Value: 10, Valid: true}, rec.cmds[1].X)
	assert.Equal(t, gcode.KindMove, rec.cmds[2].Kind)
	assert.Equal(t, gcode.Coord{Value: 5, Valid: true}, rec.cmds[2].Y)
}

func TestPrinter_QueuedFIFO(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	lb.Feed([]byte("G0 X1\nM104 S200\nM106 S128\nG0 X2\n"))
	run(p, lb)

	assert.Len(t, rec.cmds, 4)
	assert.Equal(t, gcode.KindMove, rec.cmds[0].Kind)
	assert.Equal(t, gcode.KindSetTemperature, rec.cmds[1].Kind)
	assert.Equal(t, gcode.KindFanSpeed, rec.cmds[2].Kind)
	assert.Equal(t, gcode.KindMove, rec.cmds[3].Kind)
}

func TestPrinter_ImmediatePreemptsBacklog(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	// stack up queued moves without dispatching
	lb.Feed([]byte("G0 X1 G0 X2 G0 X3\n"))
	fill(p, lb)
	lb.Feed([]byte("M114\n"))
	fill(p, lb)

	run(p, lb)

	assert.Equal(t, gcode.KindStatusQuery, rec.cmds[0].Kind)
	for i, x := range []float64{1, 2, 3} {
		assert.Equal(t, gcode.KindMove, rec.cmds[i+1].Kind)
		assert.Equal(t, gcode.Coord{Value: x, Valid: true}, rec.cmds[i+1].X)
	}
}

func TestPrinter_BufferFull(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	// one line carrying RingSize+1 moves; all are enqueued before any
	// dispatch happens
	var sb strings.Builder
	for i := 0; i <= RingSize; i++ {
		sb.WriteString("G0 ")
	}
	lb.FeedLine(sb.String())
	fill(p, lb)

	assert.Equal(t, uint64(1), p.Stats().DroppedQueued)
	_, q := p.Backlog()
	assert.Equal(t, RingSize, q)

	run(p, lb)
	assert.Len(t, rec.cmds, RingSize)
}

func TestPrinter_InvalidEncoding(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	lb.Feed([]byte("G0 X\x80\n"))
	run(p, lb)

	assert.Len(t, rec.cmds, 0)
	assert.Equal(t, uint64(1), p.Stats().EncodingErrors)

	// the loop keeps going on the next line
	lb.Feed([]byte("G0 X1\n"))
	run(p, lb)
	assert.Len(t, rec.cmds, 1)
	assert.Equal(t, gcode.KindMove, rec.cmds[0].Kind)
}

func TestPrinter_TruncatedLineDiscarded(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	// over the 256-byte bound before the terminator: discarded whole
	lb.Feed(bytes.Repeat([]byte("G0 X1 "), 100))
	lb.Feed([]byte("\n"))
	run(p, lb)

	assert.Len(t, rec.cmds, 0)
	assert.Equal(t, uint64(1), p.Stats().LinesTruncated)

	lb.Feed([]byte("G0 X2\n"))
	run(p, lb)
	assert.Len(t, rec.cmds, 1)
}

func TestPrinter_SyntaxErrorSkipsFragmentOnly(t *testing.T) {
	var rec recorder
	lb := &transport.Loopback{}
	p := New(lb, &rec)

	lb.Feed([]byte("G0 X1 #bad G0 X2\n"))
	run(p, lb)

	assert.Equal(t, uint64(1), p.Stats().SyntaxErrors)
	assert.Len(t, rec.cmds, 2)
	assert.Equal(t, gcode.Coord{Value: 1, Valid: true}, rec.cmds[0].X)
	assert.Equal(t, gcode.Coord{Value: 2, Valid: true}, rec.cmds[1].X)
}

func TestPrinter_StreamingEquivalence(t *testing.T) {
	stream := []byte("G0 X1\n\nM114\nlast line no terminator")

	var got []string
	lb := &transport.Loopback{}
	p := New(lb, &recorder{})
	lb.Feed(stream)
	for lb.Pending() > 0 {
		if p.receive() {
			got = append(got, string(p.line.bytes()))
			p.line.reset()
		}
	}

	want := strings.Split(string(stream), "\n")
	// the trailing fragment never completes
	want = want[:len(want)-1]
	assert.Equal(t, want, got)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Immediate, Classify(gcode.Command{Kind: gcode.KindEmergencyStop}))
	assert.Equal(t, Immediate, Classify(gcode.Command{Kind: gcode.KindStatusQuery}))
	assert.Equal(t, Queued, Classify(gcode.Command{Kind: gcode.KindMove}))
	assert.Equal(t, Queued, Classify(gcode.Command{Kind: gcode.KindSetTemperature}))
	assert.Equal(t, Queued, Classify(gcode.Command{Kind: gcode.KindFanSpeed}))
	assert.Equal(t, Queued, Classify(gcode.Command{Kind: gcode.KindUnknown}))
}
