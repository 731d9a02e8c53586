package tiltrotor

// Tilt trajectories per phase. Every ramp is a function of the absolute time since the
// phase started, so it does not depend on the tick rate. Ramps saturate at their target
// instead of overshooting past it.

// backTransTiltTime is the time constant of the back-transition tilt ramp, in seconds.
const backTransTiltTime = 1.0

// FrontP1Tilt tilts the rotors forward up to the transition angle. Tilt never decreases
// because the hover tilt may already be non-zero.
func FrontP1Tilt(current, elapsed float64, p *Params) float64 {
	t := &p.Tilt
	if current > t.Transition {
		return current
	}

	ramped := t.MC
	if p.FrontTransDuration > 0 {
		ramped += abs(t.Transition-t.MC) * elapsed / p.FrontTransDuration
	} else {
		ramped = t.Transition
	}
	ramped = min(ramped, t.Transition)

	return max(current, ramped)
}

// FrontP2Tilt tilts the rotors from the transition angle to the fixed-wing angle over
// FrontTransDurP2 seconds.
func FrontP2Tilt(elapsed float64, p *Params) float64 {
	t := &p.Tilt
	if t.FrontTransDurP2 <= 0 {
		return t.FW
	}

	tilt := t.Transition + abs(t.FW-t.Transition)*elapsed/t.FrontTransDurP2
	return min(tilt, t.FW)
}

// BackTilt rotates the rotors back from the fixed-wing angle to the multicopter angle.
// The tilt only moves while it is above the multicopter angle.
func BackTilt(current, elapsed float64, p *Params) float64 {
	t := &p.Tilt
	if current <= t.MC {
		return current
	}

	tilt := t.FW - abs(t.FW-t.MC)*elapsed/backTransTiltTime
	return max(tilt, t.MC)
}

// FWTilt is the tilt held in fixed-wing flight.
func FWTilt(p *Params) float64 {
	return p.Tilt.FW
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
