// Package pid is a discrete PID controller used by the stand-in attitude and speed
// controllers that feed the transition logic.
package pid

import "math"

// Controller holds the state for a PID controller.
type Controller struct {
	Kp, Ki, Kd float64

	// OutMin and OutMax bound the output. Both zero means unbounded.
	OutMin, OutMax float64

	prevError float64
	integral  float64
	primed    bool
}

// New creates and initializes a new Controller.
func New(kp, ki, kd float64) *Controller {
	return &Controller{
		Kp: kp,
		Ki: ki,
		Kd: kd,
	}
}

// WithLimits sets the output bounds and returns the controller.
func (pid *Controller) WithLimits(min, max float64) *Controller {
	pid.OutMin, pid.OutMax = min, max
	return pid
}

// Update calculates the new control output. A non-positive dt only applies the
// proportional term.
func (pid *Controller) Update(currentError, dt float64) float64 {
	if math.IsNaN(currentError) {
		currentError = 0
	}

	// Proportional term
	output := pid.Kp * currentError

	if dt > 0 {
		// Integral term
		pid.integral += currentError * dt
		output += pid.Ki * pid.integral

		// Derivative term, skipped on the first sample to avoid a kick
		if pid.primed {
			output += pid.Kd * (currentError - pid.prevError) / dt
		}
	}
	pid.prevError = currentError
	pid.primed = true

	if pid.OutMin == 0 && pid.OutMax == 0 {
		return output
	}

	// anti-windup: undo the last integration step when saturated
	if output > pid.OutMax {
		if dt > 0 && currentError > 0 {
			pid.integral -= currentError * dt
		}
		return pid.OutMax
	}
	if output < pid.OutMin {
		if dt > 0 && currentError < 0 {
			pid.integral -= currentError * dt
		}
		return pid.OutMin
	}
	return output
}

// Reset clears the integrator and derivative history.
func (pid *Controller) Reset() {
	pid.prevError = 0
	pid.integral = 0
	pid.primed = false
}
