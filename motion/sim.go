package motion

import (
	"sync"
	"time"

	"github.com/zethra/wasp/coord"
)

// Sim is an in-memory Hardware used by tests and by waspd -sim. It
// applies queued steps instantly and records everything it is told.
type Sim struct {
	mx sync.Mutex

	StepsPerMM float64

	pos     coord.Point
	heaters map[string]float64
	fan     float64
	aborts  int

	queued []StepBatch
}

// StepBatch records one QueueSteps call.
type StepBatch struct {
	Axis     byte
	Steps    int
	Duration time.Duration
}

func NewSim(stepsPerMM float64) *Sim {
	return &Sim{
		StepsPerMM: stepsPerMM,
		heaters:    make(map[string]float64),
	}
}

func (s *Sim) QueueSteps(axis byte, steps int, d time.Duration) {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.queued = append(s.queued, StepBatch{Axis: axis, Steps: steps, Duration: d})
	mm := float64(steps) / s.StepsPerMM
	switch axis {
	case 'X':
		s.pos.X += mm
	case 'Y':
		s.pos.Y += mm
	case 'Z':
		s.pos.Z += mm
	}
}

func (s *Sim) SetHeater(name string, target float64) {
	s.mx.Lock()
	s.heaters[name] = target
	s.mx.Unlock()
}

func (s *Sim) SetFan(duty float64) {
	s.mx.Lock()
	s.fan = duty
	s.mx.Unlock()
}

func (s *Sim) Abort() {
	s.mx.Lock()
	s.aborts++
	s.queued = nil
	for name := range s.heaters {
		s.heaters[name] = 0
	}
	s.mx.Unlock()
}

func (s *Sim) Pos() coord.Point {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.pos
}
func (s *Sim) Heater(name string) float64 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.heaters[name]
}
func (s *Sim) Fan() float64 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.fan
}
func (s *Sim) Aborts() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.aborts
}
func (s *Sim) Queued() []StepBatch {
	s.mx.Lock()
	defer s.mx.Unlock()
	return append([]StepBatch(nil), s.queued...)
}
