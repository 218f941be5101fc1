package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zethra/wasp/bedlevel"
	"github.com/zethra/wasp/coord"
	"github.com/zethra/wasp/gcode"
)

func opt(v float64) gcode.Coord { return gcode.Coord{Value: v, Valid: true} }

func TestPlanner_Move(t *testing.T) {
	sim := NewSim(80)
	p := New(sim, Config{StepsPerMM: 80})

	p.Dispatch(gcode.Command{Kind: gcode.KindMove, X: opt(10), Y: opt(-5)})

	assert.Equal(t, coord.Point{X: 10, Y: -5}, sim.Pos())
	assert.Equal(t, coord.Point{X: 10, Y: -5}, p.Status().Pos)

	// axes not present stay put
	p.Dispatch(gcode.Command{Kind: gcode.KindMove, Z: opt(2)})
	assert.Equal(t, coord.Point{X: 10, Y: -5, Z: 2}, sim.Pos())

	batches := sim.Queued()
	assert.Len(t, batches, 3)
	assert.Equal(t, StepBatch{Axis: 'X', Steps: 800, Duration: batches[0].Duration}, batches[0])
	assert.Equal(t, StepBatch{Axis: 'Y', Steps: -400, Duration: batches[1].Duration}, batches[1])
	assert.Equal(t, StepBatch{Axis: 'Z', Steps: 160, Duration: batches[2].Duration}, batches[2])
}

func TestPlanner_FeedRate(t *testing.T) {
	sim := NewSim(80)
	p := New(sim, Config{})

	assert.Equal(t, 1500.0, p.Status().Feed)

	// an F-only move changes feed without producing steps
	p.Dispatch(gcode.Command{Kind: gcode.KindMove, F: opt(3000)})
	assert.Equal(t, 3000.0, p.Status().Feed)
	assert.Len(t, sim.Queued(), 0)
}

func TestPlanner_HeatersAndFan(t *testing.T) {
	sim := NewSim(80)
	p := New(sim, Config{})

	p.Dispatch(gcode.Command{Kind: gcode.KindSetTemperature, Target: 210})
	p.Dispatch(gcode.Command{Kind: gcode.KindSetTemperature, Target: 60, Bed: true})
	p.Dispatch(gcode.Command{Kind: gcode.KindFanSpeed, Level: 255})

	assert.Equal(t, 210.0, sim.Heater("hotend"))
	assert.Equal(t, 60.0, sim.Heater("bed"))
	assert.Equal(t, 1.0, sim.Fan())

	st := p.Status()
	assert.Equal(t, 210.0, st.Hotend)
	assert.Equal(t, 60.0, st.Bed)
	assert.Equal(t, 1.0, st.Fan)
}

func TestPlanner_EmergencyStop(t *testing.T) {
	sim := NewSim(80)
	p := New(sim, Config{})

	p.Dispatch(gcode.Command{Kind: gcode.KindMove, X: opt(10)})
	p.Dispatch(gcode.Command{Kind: gcode.KindEmergencyStop})

	assert.Equal(t, 1, sim.Aborts())
	assert.True(t, p.Status().Stopped)

	// motion and heat are refused until the stop is cleared
	p.Dispatch(gcode.Command{Kind: gcode.KindMove, X: opt(20)})
	p.Dispatch(gcode.Command{Kind: gcode.KindSetTemperature, Target: 200})
	assert.Len(t, sim.Queued(), 0)
	assert.Equal(t, 0.0, sim.Heater("hotend"))

	// a duplicate stop is harmless
	p.Dispatch(gcode.Command{Kind: gcode.KindEmergencyStop})
	assert.Equal(t, 2, sim.Aborts())

	// status queries still answer
	p.Dispatch(gcode.Command{Kind: gcode.KindStatusQuery})
	st := <-p.Reports()
	assert.True(t, st.Stopped)

	p.ClearStop()
	p.Dispatch(gcode.Command{Kind: gcode.KindMove, X: opt(20)})
	assert.Equal(t, 20.0, sim.Pos().X)
}

func TestPlanner_StatusReports(t *testing.T) {
	sim := NewSim(80)
	p := New(sim, Config{})

	p.Dispatch(gcode.Command{Kind: gcode.KindMove, X: opt(1)})
	p.Dispatch(gcode.Command{Kind: gcode.KindStatusQuery})

	st := <-p.Reports()
	assert.Equal(t, coord.Point{X: 1}, st.Pos)
}

func TestPlanner_MeshCompensation(t *testing.T) {
	// bed rises 0.3mm per mm of X
	mesh, err := bedlevel.NewMesh([]coord.Point{
		{X: 0, Y: -50, Z: 0},
		{X: 0, Y: 50, Z: 0},
		{X: 100, Y: -50, Z: 30},
		{X: 100, Y: 50, Z: 30},
	})
	assert.NoError(t, err)

	sim := NewSim(80)
	p := New(sim, Config{Offsetter: mesh, Granularity: 1})

	p.Dispatch(gcode.Command{Kind: gcode.KindMove, X: opt(10)})

	// the hardware tracked the bed surface; the logical position did not
	assert.InDelta(t, 10, sim.Pos().X, coord.Epsilon)
	assert.InDelta(t, 3, sim.Pos().Z, 0.1)
	assert.Equal(t, coord.Point{X: 10}, p.Status().Pos)
}
