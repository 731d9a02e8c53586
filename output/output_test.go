package output

import (
	"math"
	"testing"
	"time"

	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

func hover(throttle, tilt float64) *tiltrotor.Output {
	out := &tiltrotor.Output{}
	out.MC.Control[tiltrotor.IndexThrottle] = throttle
	out.FW.Control[tiltrotor.IndexTilt] = tilt
	return out
}

func TestBankHover(t *testing.T) {
	got := NewBank().Pulses(hover(0.5, 0))
	want := Pulses{1500, 1500, 1500, 1500, 1000, 1500, 1500, 1000}
	if got != want {
		t.Errorf("pulses = %v, want %v", got, want)
	}
}

func TestBankMotorStates(t *testing.T) {
	b := NewBank()
	out := hover(0.8, 0.5)

	b.SetMainMotorState(tiltrotor.MotorValue, 750)
	pw := b.Pulses(out)
	if pw[FrontLeft] != 1800 || pw[RearLeft] != PulseMin || pw[RearRight] != PulseMin {
		t.Errorf("ramp-down outputs = %v", pw)
	}
	if pw[Tilt] != 1500 {
		t.Errorf("tilt = %d, want 1500", pw[Tilt])
	}

	b.SetAllMotorState(tiltrotor.MotorEnabled)
	b.SetIdleMC()
	pw = b.Pulses(hover(0, 0))
	for i := FrontLeft; i <= RearRight; i++ {
		if pw[i] != PulseIdle {
			t.Errorf("motor %d = %d, want idle %d", i, pw[i], PulseIdle)
		}
	}

	b.SetAllMotorState(tiltrotor.MotorDisabled)
	pw = b.Pulses(out)
	for i := FrontLeft; i <= RearRight; i++ {
		if pw[i] != PulseMin {
			t.Errorf("disabled motor %d = %d, want %d", i, pw[i], PulseMin)
		}
	}
}

func TestBankDisarm(t *testing.T) {
	b := NewBank()
	b.SetIdleMC()
	b.Disarm()

	pw := b.Pulses(hover(0.6, 0))
	for i := FrontLeft; i <= RearRight; i++ {
		if pw[i] != PulseMin {
			t.Errorf("motor %d = %d after disarm, want %d", i, pw[i], PulseMin)
		}
	}

	b.SetAllMotorState(tiltrotor.MotorEnabled)
	if pw = b.Pulses(hover(0, 0)); pw[FrontLeft] != PulseMin {
		t.Errorf("idle floor survived disarm: %d", pw[FrontLeft])
	}
}

func TestMixQuadX(t *testing.T) {
	var ac tiltrotor.ActuatorControls
	ac.Control[tiltrotor.IndexThrottle] = 0.5
	ac.Control[tiltrotor.IndexRoll] = 0.2

	m := MixQuadX(&ac)
	want := [4]float64{0.7, 0.3, 0.7, 0.3}
	for i := range want {
		if math.Abs(m[i]-want[i]) > 1e-9 {
			t.Errorf("roll mix = %v, want %v", m, want)
			break
		}
	}

	ac.Control[tiltrotor.IndexThrottle] = 1
	ac.Control[tiltrotor.IndexRoll] = 0.5
	m = MixQuadX(&ac)
	if m[0] != 1 || m[1] != 0.5 {
		t.Errorf("saturated mix = %v", m)
	}
}

func TestBankElevons(t *testing.T) {
	out := hover(0, 1)
	out.FW.Control[tiltrotor.IndexPitch] = 0.5
	out.FW.Control[tiltrotor.IndexRoll] = 0.25

	pw := NewBank().Pulses(out)
	if pw[ElevonLeft] != 1875 || pw[ElevonRight] != 1625 {
		t.Errorf("elevons = %d %d, want 1875 1625", pw[ElevonLeft], pw[ElevonRight])
	}
	if pw[Tilt] != PulseMax {
		t.Errorf("tilt = %d, want %d", pw[Tilt], PulseMax)
	}
}

func TestSafe(t *testing.T) {
	pw := Safe()
	if pw[FrontLeft] != PulseMin || pw[Tilt] != PulseMin || pw[ElevonLeft] != PulseMid {
		t.Errorf("safe pulses = %v", pw)
	}
}

func TestBankRearmHover(t *testing.T) {
	b := NewBank()
	ctrl := tiltrotor.New(tiltrotor.DefaultParams(), tiltrotor.DefaultBase{}, b)

	hoverIn := func(now time.Duration, armed bool) tiltrotor.Inputs {
		in := tiltrotor.Inputs{Now: now, Armed: armed}
		in.MCVirtualControls.Control[tiltrotor.IndexThrottle] = 0.6
		return in
	}

	now := time.Duration(0)
	for i := 0; i < 10; i++ {
		b.Disarm()
		ctrl.Update(hoverIn(now, false))
		now += 10 * time.Millisecond
	}

	b.Arm()
	var pw Pulses
	for i := 0; i < 500; i++ {
		out := ctrl.Update(hoverIn(now, true))
		pw = b.Pulses(&out)
		now += 10 * time.Millisecond
	}

	for i := FrontLeft; i <= RearRight; i++ {
		if pw[i] < 1590 || pw[i] > 1610 {
			t.Errorf("motor %d = %d after re-arm, want hover pulse near 1600", i, pw[i])
		}
	}
}
