package tiltrotor

import "time"

// MotorState is a command for the multicopter motors.
type MotorState int

const (
	MotorDisabled MotorState = iota
	MotorIdle
	MotorEnabled
	// MotorValue limits the motor output to an explicit value.
	MotorValue
)

func (m MotorState) String() string {
	switch m {
	case MotorDisabled:
		return "DISABLED"
	case MotorIdle:
		return "IDLE"
	case MotorEnabled:
		return "ENABLED"
	case MotorValue:
		return "VALUE"
	}
	return "UNKNOWN"
}

// MotorOutput is the actuation layer the controller issues motor-state commands to.
type MotorOutput interface {
	// SetAllMotorState applies a state to every multicopter motor.
	SetAllMotorState(state MotorState)
	// SetMainMotorState applies a state to the main motors; value is the output limit
	// used with MotorValue.
	SetMainMotorState(state MotorState, value int)
	// SetIdleMC requests multicopter idle speed and reports whether it was applied.
	SetIdleMC() bool
}

// Motor spin-up: the first second after arming holds the tilt at Spinup, so
// propellers that do not spin up smoothly fully upright get a head start; the next
// 700 ms bring the tilt back to the multicopter angle.
const (
	spinupHold = 1000 * time.Millisecond
	spinupRamp = 700 * time.Millisecond

	// spin-up only happens when the spin-up tilt is meaningfully non-zero
	minSpinupTilt = 0.01
)

// Spinup is the motor start-up sequence state.
type Spinup struct {
	// Active is the tilt-motors-for-startup latch.
	Active       bool
	LastDisarmed time.Duration
}

// Observe records the arming state. While disarmed the disarm timestamp follows now and
// the latch is re-armed; once armed the latch clears after the spin-up window.
func (s *Spinup) Observe(armed bool, now time.Duration, t *TiltParams) {
	if !armed {
		s.LastDisarmed = now
		s.Active = t.Spinup > minSpinupTilt
		return
	}

	if s.Active && now-s.LastDisarmed > spinupHold+spinupRamp {
		s.Active = false
	}
}

// Tilt returns the spin-up tilt for now. It is only meaningful while Active.
func (s *Spinup) Tilt(now time.Duration, t *TiltParams) float64 {
	sinceArm := now - s.LastDisarmed
	if sinceArm < spinupHold {
		return t.Spinup
	}

	// second phase: move from spin-up tilt to multicopter tilt
	delta := t.MC - t.Spinup
	tilt := t.Spinup + delta*float64(sinceArm-spinupHold)/float64(spinupRamp)

	if delta < 0 {
		return max(tilt, t.MC)
	}
	return min(tilt, t.MC)
}

// transitionMotors issues the motor commands for a transition phase. idleLatched is
// the idle-request latch; the updated latch is returned.
func transitionMotors(m MotorOutput, phase Phase, elapsed float64, idleLatched bool, p *Params) bool {
	switch phase {
	case PhaseTransFrontP1:
		// all rotors are used for the first part of the transition
		m.SetAllMotorState(MotorEnabled)

	case PhaseTransFrontP2:
		m.SetMainMotorState(MotorValue, RampDownValue(elapsed, p))

	case PhaseTransBack:
		m.SetAllMotorState(MotorEnabled)

		if !idleLatched {
			idleLatched = m.SetIdleMC()
		}
	}

	return idleLatched
}

// NopMotors discards every motor command.
type NopMotors struct{}

func (NopMotors) SetAllMotorState(MotorState) {}

func (NopMotors) SetMainMotorState(MotorState, int) {}

func (NopMotors) SetIdleMC() bool { return true }
