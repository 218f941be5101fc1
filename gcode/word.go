package gcode

import (
	"strconv"
	"strings"
)

// Word is a single letter-number pair from a command line.
type Word struct {
	W   byte
	Arg float64
}

func (w Word) IsValid() bool {
	return w.W >= 'A' && w.W <= 'Z'
}

// IsCommand returns true for words that begin a new command.
func (w Word) IsCommand() bool {
	switch w.W {
	case 'G', 'M', 'T':
		return true
	}
	return false
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	return strings.TrimRight(s, ".")
}

func (w Word) String() string {
	return string(w.W) + formatFloat(w.Arg, 3)
}
