package motion

import "time"

// Hardware is the capability surface the planner drives. Every call
// must return promptly; QueueSteps schedules motion, it does not wait
// for it to finish.
type Hardware interface {
	// QueueSteps schedules steps on one axis ('X', 'Y' or 'Z') spread
	// over d. Negative steps reverse direction.
	QueueSteps(axis byte, steps int, d time.Duration)

	// SetHeater sets the target for the named heater ("hotend", "bed").
	SetHeater(name string, target float64)

	// SetFan sets the part fan duty, 0-1.
	SetFan(duty float64)

	// Abort discards all scheduled steps, disables the steppers and
	// kills the heaters. Safe to call repeatedly.
	Abort()
}
