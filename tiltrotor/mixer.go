package tiltrotor

import "time"

// FillActuatorOutputs mixes the virtual multicopter and fixed-wing controls into the
// two physical actuator-control vectors.
func FillActuatorOutputs(mcIn, fwIn *ActuatorControls, blend *BlendState, phase Phase, p *Params, now time.Duration) (mcOut, fwOut ActuatorControls) {
	// --- Multirotor output ---
	mcOut.Control[IndexRoll] = mcIn.Control[IndexRoll] * blend.Roll
	mcOut.Control[IndexPitch] = mcIn.Control[IndexPitch] * blend.Pitch
	mcOut.Control[IndexYaw] = mcIn.Control[IndexYaw] * blend.Yaw

	if phase == PhaseFW {
		mcOut.Control[IndexThrottle] = fwIn.Control[IndexThrottle]

		// differential thrust steers with the rotors
		if p.DiffThrust {
			mcOut.Control[IndexRoll] = fwIn.Control[IndexYaw] * p.DiffThrustScale
		}
	} else {
		mcOut.Control[IndexThrottle] = mcIn.Control[IndexThrottle] * blend.Throttle
	}

	// --- Fixed wing output ---
	fwOut.Control[IndexTilt] = blend.Tilt

	// keep the surfaces still while hovering
	if p.ElevonsMCLock && phase == PhaseMC {
		fwOut.Control[IndexRoll] = 0
		fwOut.Control[IndexPitch] = 0
		fwOut.Control[IndexYaw] = 0
	} else {
		fwOut.Control[IndexRoll] = fwIn.Control[IndexRoll]
		fwOut.Control[IndexPitch] = fwIn.Control[IndexPitch]
		fwOut.Control[IndexYaw] = fwIn.Control[IndexYaw]
	}

	mcOut.TimestampSample = mcIn.TimestampSample
	fwOut.TimestampSample = fwIn.TimestampSample
	mcOut.Timestamp = now
	fwOut.Timestamp = now

	return mcOut, fwOut
}
