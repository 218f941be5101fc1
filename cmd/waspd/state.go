package main

import (
	"sync"

	"github.com/zethra/wasp/printer"
)

// coreState is the host-side snapshot of the dispatch loop. The tick
// goroutine owns the Printer outright and publishes here after every
// tick; the HTTP handlers read only this copy.
type coreState struct {
	mx        sync.Mutex
	stats     printer.Stats
	immediate int
	queued    int
}

func (s *coreState) set(stats printer.Stats, immediate, queued int) {
	s.mx.Lock()
	s.stats = stats
	s.immediate = immediate
	s.queued = queued
	s.mx.Unlock()
}

func (s *coreState) get() (stats printer.Stats, immediate, queued int) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.stats, s.immediate, s.queued
}
