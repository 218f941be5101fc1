// Package motion turns printer commands into hardware actions: queued
// step batches for moves, heater and fan updates, and the emergency
// abort path.
package motion

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/zethra/wasp/bedlevel"
	"github.com/zethra/wasp/coord"
	"github.com/zethra/wasp/gcode"
)

type Config struct {
	// StepsPerMM applies to all axes. Defaults to 80.
	StepsPerMM float64

	// FeedRate is the default feed in mm/min until a move sets F.
	// Defaults to 1500.
	FeedRate float64

	// Offsetter, if set, enables bed mesh compensation.
	Offsetter bedlevel.ZOffsetter

	// Granularity is the longest XY segment a compensated move may
	// travel without re-sampling the mesh. Defaults to 5.
	Granularity float64
}

// Status is a point-in-time snapshot of the planner.
type Status struct {
	Pos     coord.Point `json:"pos"`
	Feed    float64     `json:"feed"`
	Hotend  float64     `json:"hotend"`
	Bed     float64     `json:"bed"`
	Fan     float64     `json:"fan"`
	Stopped bool        `json:"stopped"`
}

// Planner is the Cartesian motion and hardware-control consumer of the
// dispatch loop. Queued commands are applied in the order received; a
// duplicate EmergencyStop is harmless.
type Planner struct {
	hw  Hardware
	cfg Config

	mx      sync.Mutex
	pos     coord.Point // logical position, without mesh offset
	zofs    float64     // mesh offset currently applied at the hardware
	feed    float64
	hot     float64
	bed     float64
	fan     float64
	stopped bool

	reports chan Status
}

func New(hw Hardware, cfg Config) *Planner {
	if cfg.StepsPerMM == 0 {
		cfg.StepsPerMM = 80
	}
	if cfg.FeedRate == 0 {
		cfg.FeedRate = 1500
	}
	if cfg.Granularity == 0 {
		cfg.Granularity = 5
	}
	return &Planner{
		hw:      hw,
		cfg:     cfg,
		feed:    cfg.FeedRate,
		reports: make(chan Status, 4),
	}
}

// Reports delivers a Status per status query. Slow readers miss
// reports rather than stalling dispatch.
func (p *Planner) Reports() <-chan Status {
	return p.reports
}

func (p *Planner) Dispatch(cmd gcode.Command) {
	p.mx.Lock()
	defer p.mx.Unlock()

	switch cmd.Kind {
	case gcode.KindEmergencyStop:
		p.hw.Abort()
		p.stopped = true
		p.hot, p.bed, p.fan = 0, 0, 0
		log.Println("ERROR: emergency stop, motion aborted")

	case gcode.KindStatusQuery:
		st := p.status()
		log.Printf("status: pos=%+v feed=%v hotend=%v bed=%v fan=%v stopped=%t",
			st.Pos, st.Feed, st.Hotend, st.Bed, st.Fan, st.Stopped)
		select {
		case p.reports <- st:
		default:
		}

	case gcode.KindMove:
		if p.dropIfStopped(cmd) {
			return
		}
		p.move(cmd)

	case gcode.KindSetTemperature:
		if p.dropIfStopped(cmd) {
			return
		}
		name := "hotend"
		if cmd.Bed {
			name = "bed"
		}
		p.hw.SetHeater(name, cmd.Target)
		if cmd.Bed {
			p.bed = cmd.Target
		} else {
			p.hot = cmd.Target
		}

	case gcode.KindFanSpeed:
		if p.dropIfStopped(cmd) {
			return
		}
		p.fan = math.Min(math.Max(cmd.Level/255, 0), 1)
		p.hw.SetFan(p.fan)

	default:
		log.Println("unsupported command ignored:", cmd)
	}
}

func (p *Planner) dropIfStopped(cmd gcode.Command) bool {
	if p.stopped {
		log.Println("dropped while stopped:", cmd)
	}
	return p.stopped
}

func (p *Planner) move(cmd gcode.Command) {
	if cmd.F.Valid && cmd.F.Value > 0 {
		p.feed = cmd.F.Value
	}

	target := p.pos
	if cmd.X.Valid {
		target.X = cmd.X.Value
	}
	if cmd.Y.Valid {
		target.Y = cmd.Y.Value
	}
	if cmd.Z.Valid {
		target.Z = cmd.Z.Value
	}
	if target.Equal(p.pos) {
		return
	}

	segments := []coord.Point{target}
	if p.cfg.Offsetter != nil {
		if dist := p.pos.DistanceXY(target.X, target.Y); dist > p.cfg.Granularity {
			n := int(math.Ceil(dist / p.cfg.Granularity))
			segments = p.pos.Split(target, n)
		}
	}

	for _, seg := range segments {
		p.moveSegment(seg)
	}
}

func (p *Planner) moveSegment(seg coord.Point) {
	zofs := p.zofs
	if p.cfg.Offsetter != nil {
		if ok, o := p.cfg.Offsetter.OffsetZ(seg.X, seg.Y); ok {
			zofs = o
		}
	}

	dx := seg.X - p.pos.X
	dy := seg.Y - p.pos.Y
	dz := (seg.Z + zofs) - (p.pos.Z + p.zofs)

	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if dist == 0 {
		p.pos = seg
		p.zofs = zofs
		return
	}
	d := time.Duration(dist / (p.feed / 60) * float64(time.Second))

	steps := func(axis byte, mm float64) {
		n := int(math.Round(mm * p.cfg.StepsPerMM))
		if n != 0 {
			p.hw.QueueSteps(axis, n, d)
		}
	}
	steps('X', dx)
	steps('Y', dy)
	steps('Z', dz)

	p.pos = seg
	p.zofs = zofs
}

// ClearStop re-arms the planner after an emergency stop. It is a host
// action, not a wire command.
func (p *Planner) ClearStop() {
	p.mx.Lock()
	p.stopped = false
	p.mx.Unlock()
	log.Println("emergency stop cleared")
}

// Status returns a snapshot of the planner state.
func (p *Planner) Status() Status {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.status()
}

func (p *Planner) status() Status {
	return Status{
		Pos:     p.pos,
		Feed:    p.feed,
		Hotend:  p.hot,
		Bed:     p.bed,
		Fan:     p.fan,
		Stopped: p.stopped,
	}
}
