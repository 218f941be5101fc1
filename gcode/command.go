package gcode

import "strings"

// Kind identifies a command variant.
type Kind byte

const (
	KindUnknown Kind = iota
	KindMove
	KindSetTemperature
	KindFanSpeed
	KindEmergencyStop
	KindStatusQuery
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "Move"
	case KindSetTemperature:
		return "SetTemperature"
	case KindFanSpeed:
		return "FanSpeed"
	case KindEmergencyStop:
		return "EmergencyStop"
	case KindStatusQuery:
		return "StatusQuery"
	}
	return "Unknown"
}

// Coord is an optional axis value. Valid reports whether the axis
// was present on the wire.
type Coord struct {
	Value float64
	Valid bool
}

// Command is one decoded printer command. Commands are immutable once
// produced by a Parser and are consumed exactly once by the dispatch
// loop.
type Command struct {
	Kind Kind

	// Move arguments. Axes absent from the source line stay invalid,
	// meaning "leave unchanged".
	X, Y, Z, F Coord

	// SetTemperature target in degrees C. Bed selects the bed heater
	// instead of the hotend.
	Target float64
	Bed    bool

	// FanSpeed level, 0-255.
	Level float64

	// Raw holds the source words of Unknown commands.
	Raw string
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Kind.String())
	switch c.Kind {
	case KindMove:
		for _, a := range []struct {
			w byte
			c Coord
		}{{'X', c.X}, {'Y', c.Y}, {'Z', c.Z}, {'F', c.F}} {
			if !a.c.Valid {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(Word{W: a.w, Arg: a.c.Value}.String())
		}
	case KindSetTemperature:
		if c.Bed {
			b.WriteString(" bed")
		}
		b.WriteByte(' ')
		b.WriteString(formatFloat(c.Target, 3))
	case KindFanSpeed:
		b.WriteByte(' ')
		b.WriteString(formatFloat(c.Level, 3))
	case KindUnknown:
		if c.Raw != "" {
			b.WriteByte(' ')
			b.WriteString(c.Raw)
		}
	}
	return b.String()
}
