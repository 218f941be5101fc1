package gcode

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrSyntax is returned by Parser.Next for a malformed fragment. The
// parser recovers past the fragment; later commands on the same line
// are still produced.
var ErrSyntax = errors.New("syntax error")

// Parser decodes the commands of a single line. A new Parser is
// created per line; it is never shared between lines.
type Parser struct {
	s   string
	pos int

	cur Command
	has bool
}

func NewParser(line string) *Parser {
	return &Parser{s: line}
}

// Next returns the next command on the line, or io.EOF when the line
// is exhausted. A wrapped ErrSyntax covers only the offending
// fragment; calling Next again continues with the rest of the line.
func (p *Parser) Next() (Command, error) {
	for {
		w, err := p.nextWord()
		if err == io.EOF {
			if p.has {
				p.has = false
				return p.cur, nil
			}
			return Command{}, io.EOF
		}
		if err != nil {
			return Command{}, err
		}

		if w.IsCommand() {
			next := newCommand(w)
			if p.has {
				out := p.cur
				p.cur = next
				return out, nil
			}
			p.cur = next
			p.has = true
			continue
		}

		if !p.has {
			return Command{}, fmt.Errorf("%w: argument %s before any command", ErrSyntax, w)
		}
		applyArg(&p.cur, w)
	}
}

func isNumByte(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}

// skipFragment advances past the current run of non-space bytes so a
// malformed token never poisons the rest of the line.
func (p *Parser) skipFragment() string {
	start := p.pos
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\r', ';':
			return p.s[start:p.pos]
		}
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *Parser) nextWord() (Word, error) {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\r':
			p.pos++
			continue
		}
		break
	}
	if p.pos >= len(p.s) || p.s[p.pos] == ';' {
		return Word{}, io.EOF
	}

	c := p.s[p.pos]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if !(Word{W: c}).IsValid() {
		return Word{}, fmt.Errorf("%w: invalid word %q", ErrSyntax, p.skipFragment())
	}
	p.pos++

	start := p.pos
	for p.pos < len(p.s) && isNumByte(p.s[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		frag := string(c) + p.skipFragment()
		return Word{}, fmt.Errorf("%w: word %q missing number", ErrSyntax, frag)
	}
	arg, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		frag := p.s[start-1:p.pos] + p.skipFragment()
		return Word{}, fmt.Errorf("%w: invalid number %q", ErrSyntax, frag)
	}

	return Word{W: c, Arg: arg}, nil
}

// newCommand maps a command word to its variant. Anything not in the
// supported dialect becomes Unknown and keeps its source text.
func newCommand(w Word) Command {
	if w.W == 'G' {
		switch w.Arg {
		case 0, 1:
			return Command{Kind: KindMove}
		}
	} else if w.W == 'M' {
		switch w.Arg {
		case 104, 109:
			return Command{Kind: KindSetTemperature}
		case 140, 190:
			return Command{Kind: KindSetTemperature, Bed: true}
		case 106:
			return Command{Kind: KindFanSpeed, Level: 255}
		case 107:
			return Command{Kind: KindFanSpeed}
		case 112:
			return Command{Kind: KindEmergencyStop}
		case 105, 114:
			return Command{Kind: KindStatusQuery}
		}
	}
	return Command{Kind: KindUnknown, Raw: w.String()}
}

func applyArg(cmd *Command, w Word) {
	switch cmd.Kind {
	case KindMove:
		opt := Coord{Value: w.Arg, Valid: true}
		switch w.W {
		case 'X':
			cmd.X = opt
		case 'Y':
			cmd.Y = opt
		case 'Z':
			cmd.Z = opt
		case 'F':
			cmd.F = opt
		}
	case KindSetTemperature:
		if w.W == 'S' {
			cmd.Target = w.Arg
		}
	case KindFanSpeed:
		if w.W == 'S' {
			cmd.Level = w.Arg
		}
	case KindUnknown:
		cmd.Raw += " " + w.String()
	}
}
