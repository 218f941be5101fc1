package printer

import "github.com/zethra/wasp/gcode"

// Class is the dispatch priority of a command.
type Class byte

const (
	// Queued commands execute in strict arrival order.
	Queued Class = iota
	// Immediate commands preempt all queued dispatch.
	Immediate
)

func (c Class) String() string {
	if c == Immediate {
		return "immediate"
	}
	return "queued"
}

// Classify assigns a command to exactly one class. Unknown commands
// could alter physical state, so they keep arrival order with the
// queued class.
func Classify(cmd gcode.Command) Class {
	switch cmd.Kind {
	case gcode.KindEmergencyStop, gcode.KindStatusQuery:
		return Immediate
	}
	return Queued
}
