package tiltrotor

import (
	"testing"
	"time"
)

func mixerInputs() (mc, fw ActuatorControls) {
	mc.Control[IndexRoll] = 0.2
	mc.Control[IndexPitch] = -0.4
	mc.Control[IndexYaw] = 0.6
	mc.Control[IndexThrottle] = 0.5
	mc.TimestampSample = 7 * time.Millisecond

	fw.Control[IndexRoll] = 0.1
	fw.Control[IndexPitch] = 0.3
	fw.Control[IndexYaw] = -0.5
	fw.Control[IndexThrottle] = 0.8
	fw.TimestampSample = 9 * time.Millisecond
	return mc, fw
}

func TestFillActuatorOutputsMC(t *testing.T) {
	p := DefaultParams()
	mc, fw := mixerInputs()
	blend := BlendState{Tilt: 0.1, Weights: Weights{Roll: 1, Pitch: 0.5, Yaw: 0, Throttle: 1}}

	now := 20 * time.Millisecond
	mcOut, fwOut := FillActuatorOutputs(&mc, &fw, &blend, PhaseMC, &p, now)

	if mcOut.Control[IndexRoll] != 0.2 || mcOut.Control[IndexPitch] != -0.2 || mcOut.Control[IndexYaw] != 0 {
		t.Errorf("weighted mc controls = %v", mcOut.Control[:3])
	}
	if mcOut.Control[IndexThrottle] != 0.5 {
		t.Errorf("mc throttle = %v, want 0.5", mcOut.Control[IndexThrottle])
	}
	if fwOut.Control[IndexTilt] != 0.1 {
		t.Errorf("tilt channel = %v, want 0.1", fwOut.Control[IndexTilt])
	}

	// elevons locked in hover
	for _, i := range []int{IndexRoll, IndexPitch, IndexYaw} {
		if fwOut.Control[i] != 0 {
			t.Errorf("fw control %d = %v, want 0 with elevons locked", i, fwOut.Control[i])
		}
	}

	if mcOut.TimestampSample != mc.TimestampSample || fwOut.TimestampSample != fw.TimestampSample {
		t.Error("sample timestamps should be copied from the virtual inputs")
	}
	if mcOut.Timestamp != now || fwOut.Timestamp != now {
		t.Error("output timestamps should be the tick time")
	}
}

func TestFillActuatorOutputsElevonsUnlocked(t *testing.T) {
	p := DefaultParams()
	p.ElevonsMCLock = false
	mc, fw := mixerInputs()
	blend := BlendState{Weights: MCWeights(false)}

	_, fwOut := FillActuatorOutputs(&mc, &fw, &blend, PhaseMC, &p, 0)
	if fwOut.Control[IndexRoll] != 0.1 || fwOut.Control[IndexPitch] != 0.3 || fwOut.Control[IndexYaw] != -0.5 {
		t.Errorf("fw surfaces = %v, want passthrough", fwOut.Control[:3])
	}
}

func TestFillActuatorOutputsFW(t *testing.T) {
	p := DefaultParams()
	mc, fw := mixerInputs()
	blend := BlendState{Tilt: 1, Weights: FWWeights()}

	mcOut, fwOut := FillActuatorOutputs(&mc, &fw, &blend, PhaseFW, &p, 0)

	if mcOut.Control[IndexThrottle] != 0.8 {
		t.Errorf("mc throttle = %v, want fixed-wing throttle 0.8", mcOut.Control[IndexThrottle])
	}
	if mcOut.Control[IndexRoll] != 0 {
		t.Errorf("mc roll = %v, want 0 without differential thrust", mcOut.Control[IndexRoll])
	}
	if fwOut.Control[IndexRoll] != 0.1 || fwOut.Control[IndexYaw] != -0.5 {
		t.Errorf("fw surfaces = %v, want passthrough", fwOut.Control[:3])
	}
	if fwOut.Control[IndexTilt] != 1 {
		t.Errorf("tilt channel = %v, want 1", fwOut.Control[IndexTilt])
	}
}

func TestFillActuatorOutputsDiffThrust(t *testing.T) {
	p := DefaultParams()
	p.DiffThrust = true
	p.DiffThrustScale = 0.5
	mc, fw := mixerInputs()
	blend := BlendState{Tilt: 1, Weights: FWWeights()}

	mcOut, _ := FillActuatorOutputs(&mc, &fw, &blend, PhaseFW, &p, 0)
	if mcOut.Control[IndexRoll] != -0.25 {
		t.Errorf("mc roll = %v, want yaw*scale -0.25", mcOut.Control[IndexRoll])
	}

	// differential thrust only applies in fixed-wing flight
	blend = BlendState{Weights: FrontP2Weights()}
	mcOut, _ = FillActuatorOutputs(&mc, &fw, &blend, PhaseTransFrontP2, &p, 0)
	if mcOut.Control[IndexRoll] != 0 {
		t.Errorf("mc roll in P2 = %v, want 0", mcOut.Control[IndexRoll])
	}
}

func TestFillActuatorOutputsTransitionThrottle(t *testing.T) {
	p := DefaultParams()
	mc, fw := mixerInputs()
	blend := BlendState{Tilt: 0.7, Weights: BackWeights(1.5)}

	mcOut, fwOut := FillActuatorOutputs(&mc, &fw, &blend, PhaseTransBack, &p, 0)
	if mcOut.Control[IndexThrottle] != 0.25 {
		t.Errorf("mc throttle = %v, want 0.25", mcOut.Control[IndexThrottle])
	}
	if fwOut.Control[IndexPitch] != 0.3 {
		t.Errorf("fw pitch = %v, want passthrough outside MC", fwOut.Control[IndexPitch])
	}
}
