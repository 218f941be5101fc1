package gcode

import (
	"io"
)

// Parse decodes every command on the line, skipping malformed
// fragments. The last syntax error encountered, if any, is returned
// alongside the commands that did decode.
func Parse(line string) ([]Command, error) {
	p := NewParser(line)
	var cmds []Command
	var last error
	for {
		cmd, err := p.Next()
		if err == io.EOF {
			return cmds, last
		}
		if err != nil {
			last = err
			continue
		}
		cmds = append(cmds, cmd)
	}
}

func MustParse(line string) []Command {
	cmds, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return cmds
}
