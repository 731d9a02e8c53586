package tiltrotor

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

const tick = 10 * time.Millisecond

type phaseChange struct {
	from, to Phase
	at       time.Duration
}

func newRecordingController(p Params, motors MotorOutput) (*Controller, *[]phaseChange) {
	c := New(p, nil, motors)
	changes := &[]phaseChange{}
	c.OnPhaseChange = func(from, to Phase, now time.Duration, _ float64) {
		*changes = append(*changes, phaseChange{from, to, now})
	}
	return c, changes
}

// run ticks the controller from start until stop returns true or limit is reached and
// returns the time of the last tick.
func run(c *Controller, start, limit time.Duration, in func(now time.Duration) Inputs, stop func(Output) bool) (time.Duration, Output) {
	var out Output
	now := start
	for ; now <= limit; now += tick {
		out = c.Update(in(now))
		if stop != nil && stop(out) {
			return now, out
		}
	}
	return now - tick, out
}

func hoverInputs(now time.Duration) Inputs {
	in := Inputs{
		Now:              now,
		Armed:            true,
		ClimbRateControl: true,
	}
	in.MCVirtualSetpoint.ThrustBody[2] = -0.5
	in.MCVirtualControls.Control[IndexThrottle] = 0.5
	in.FWVirtualControls.Control[IndexThrottle] = 0.7
	return in
}

func TestControllerOpenLoopFrontTransition(t *testing.T) {
	p := DefaultParams()
	c, changes := newRecordingController(p, nil)

	in := func(now time.Duration) Inputs {
		i := hoverInputs(now)
		i.FixedWingRequested = true
		return i
	}

	at, out := run(c, 0, 10*time.Second, in, func(o Output) bool {
		return o.Schedule.Phase == PhaseTransFrontP2
	})
	if out.Schedule.Phase != PhaseTransFrontP2 {
		t.Fatalf("no P2 within 10s, phase = %v", out.Schedule.Phase)
	}
	if at != 6010*time.Millisecond {
		t.Errorf("P2 entered at %v, want 6.01s", at)
	}

	want := []phaseChange{
		{PhaseMC, PhaseTransFrontP1, 0},
		{PhaseTransFrontP1, PhaseTransFrontP2, 6010 * time.Millisecond},
	}
	if len(*changes) != len(want) {
		t.Fatalf("phase changes = %v, want %v", *changes, want)
	}
	for i := range want {
		if (*changes)[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, (*changes)[i], want[i])
		}
	}
}

func TestControllerRoundTrip(t *testing.T) {
	p := DefaultParams()
	motors := &recordingMotors{idleOK: true}
	c, changes := newRecordingController(p, motors)

	fwRequested := true
	in := func(now time.Duration) Inputs {
		i := hoverInputs(now)
		i.FixedWingRequested = fwRequested
		i.Airspeed = 12
		i.AirspeedValid = true
		i.Ground = GroundVelocity{VX: 3, Valid: true}
		return i
	}

	at, out := run(c, 0, 5*time.Second, in, func(o Output) bool {
		return o.Schedule.Phase == PhaseFW
	})
	if out.Schedule.Phase != PhaseFW {
		t.Fatalf("not in FW after 5s, phase = %v", out.Schedule.Phase)
	}
	if out.Blend.Tilt != p.Tilt.FW {
		t.Errorf("FW tilt = %v, want %v", out.Blend.Tilt, p.Tilt.FW)
	}
	if out.Blend.Weights != FWWeights() {
		t.Errorf("FW weights = %+v, want all zero", out.Blend.Weights)
	}
	if out.MC.Control[IndexThrottle] != 0.7 {
		t.Errorf("FW rotor throttle = %v, want fixed-wing throttle", out.MC.Control[IndexThrottle])
	}

	fwRequested = false
	backStart := at + tick
	at, out = run(c, backStart, backStart+10*time.Second, in, func(o Output) bool {
		return o.Schedule.Phase == PhaseMC
	})
	if out.Schedule.Phase != PhaseMC {
		t.Fatalf("not back in MC, phase = %v", out.Schedule.Phase)
	}
	if d := (at - backStart).Seconds(); d > p.BackTransDuration {
		t.Errorf("back-transition took %vs, want <= %v", d, p.BackTransDuration)
	}
	if out.Blend.Tilt > p.Tilt.MC {
		t.Errorf("MC tilt = %v, want <= %v", out.Blend.Tilt, p.Tilt.MC)
	}
	if out.Blend.Weights != MCWeights(false) {
		t.Errorf("MC weights = %+v, want full authority", out.Blend.Weights)
	}

	var phases []Phase
	for _, ch := range *changes {
		phases = append(phases, ch.to)
	}
	want := []Phase{PhaseTransFrontP1, PhaseTransFrontP2, PhaseFW, PhaseTransBack, PhaseMC}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, phases[i], want[i])
		}
	}

	if motors.idleReqs != 1 {
		t.Errorf("idle requests = %d, want 1", motors.idleReqs)
	}
	if len(motors.main) == 0 {
		t.Error("P2 should command the main motors")
	}
}

func TestControllerFailsafeFromAnyPhase(t *testing.T) {
	p := DefaultParams()

	reach := map[Phase]func(c *Controller) time.Duration{
		PhaseTransFrontP1: func(c *Controller) time.Duration {
			c.Update(Inputs{Now: 0, FixedWingRequested: true})
			return 0
		},
		PhaseTransFrontP2: func(c *Controller) time.Duration {
			c.Update(Inputs{Now: 0, FixedWingRequested: true})
			c.Update(Inputs{Now: tick, FixedWingRequested: true, CanTransitionOnGround: true})
			return tick
		},
		PhaseFW: func(c *Controller) time.Duration {
			at, _ := run(c, 0, 20*time.Second, func(now time.Duration) Inputs {
				return Inputs{Now: now, FixedWingRequested: true, CanTransitionOnGround: true}
			}, func(o Output) bool { return o.Schedule.Phase == PhaseFW })
			return at
		},
	}

	for phase, setup := range reach {
		t.Run(phase.String(), func(t *testing.T) {
			c := New(p, nil, nil)
			at := setup(c)
			if got := c.Schedule().Phase; got != phase {
				t.Fatalf("setup reached %v, want %v", got, phase)
			}

			out := c.Update(Inputs{Now: at + tick, FixedWingRequested: true, Failsafe: true})
			if out.Schedule.Phase != PhaseMC || out.Mode != ModeRotaryWing || !out.Failsafe {
				t.Errorf("phase = %v mode = %v failsafe = %v, want MC with failsafe", out.Schedule.Phase, out.Mode, out.Failsafe)
			}
		})
	}
}

func TestControllerWeightsStayInRange(t *testing.T) {
	p := DefaultParams()
	p.Tilt.Spinup = 0.1
	c := New(p, nil, nil)

	rng := rand.New(rand.NewSource(1))
	pick := func() float64 {
		switch rng.Intn(6) {
		case 0:
			return math.NaN()
		case 1:
			return math.Inf(1)
		default:
			return rng.Float64()*40 - 20
		}
	}

	for i := 0; i < 20000; i++ {
		in := Inputs{
			Now:                   time.Duration(i) * tick,
			Failsafe:              rng.Intn(50) == 0,
			FixedWingRequested:    rng.Intn(400) < 300,
			Armed:                 rng.Intn(100) != 0,
			ClimbRateControl:      rng.Intn(2) == 0,
			Airspeed:              pick(),
			AirspeedValid:         rng.Intn(2) == 0,
			Ground:                GroundVelocity{VX: pick(), VY: pick(), Valid: rng.Intn(2) == 0},
			CanTransitionOnGround: rng.Intn(20) == 0,
		}
		in.MCVirtualSetpoint.ThrustBody[2] = pick()
		in.FWVirtualSetpoint.ThrustBody[0] = pick()
		for j := 0; j < 4; j++ {
			in.MCVirtualControls.Control[j] = pick()
			in.FWVirtualControls.Control[j] = pick()
		}

		out := c.Update(in)
		w := out.Blend.Weights
		for _, v := range []float64{w.Roll, w.Pitch, w.Yaw, w.Throttle} {
			if !(v >= 0 && v <= 1) {
				t.Fatalf("tick %d: weight out of range: %+v", i, w)
			}
		}
		if !finite(out.Blend.Tilt) {
			t.Fatalf("tick %d: tilt = %v", i, out.Blend.Tilt)
		}
		for j, v := range out.MC.Control {
			if !finite(v) {
				t.Fatalf("tick %d: mc control %d = %v", i, j, v)
			}
		}
	}
}

func TestControllerSpinup(t *testing.T) {
	p := DefaultParams()
	p.Tilt.Spinup = 0.05
	c := New(p, nil, nil)

	c.Update(Inputs{Now: 0})

	out := c.Update(Inputs{Now: 500 * time.Millisecond, Armed: true})
	if out.Blend.Tilt != 0.05 || out.Blend.Yaw != 0 {
		t.Errorf("tilt = %v yaw = %v, want 0.05 and 0 during spin-up", out.Blend.Tilt, out.Blend.Yaw)
	}

	out = c.Update(Inputs{Now: 1800 * time.Millisecond, Armed: true})
	if out.Blend.Tilt != p.Tilt.MC || out.Blend.Yaw != 1 {
		t.Errorf("tilt = %v yaw = %v, want MC tilt and full yaw after spin-up", out.Blend.Tilt, out.Blend.Yaw)
	}
}

type assistBase struct {
	DefaultBase
	tilt float64
}

func (b assistBase) PusherAssist(*Inputs, *Params) float64 { return b.tilt }

func TestControllerThrustCompensation(t *testing.T) {
	c := New(DefaultParams(), assistBase{tilt: 0.5}, nil)

	in := hoverInputs(0)
	out := c.Update(in)

	want := -0.5 / math.Cos(math.Pi/4)
	if math.Abs(out.AttitudeSetpoint.ThrustBody[2]-want) > 1e-9 {
		t.Errorf("compensated thrust = %v, want %v", out.AttitudeSetpoint.ThrustBody[2], want)
	}
	if out.Blend.Tilt != 0.5 {
		t.Errorf("tilt = %v, want pusher assist 0.5", out.Blend.Tilt)
	}
}

func TestControllerTransitionSetpoint(t *testing.T) {
	c := New(DefaultParams(), nil, nil)

	in := hoverInputs(0)
	in.FixedWingRequested = true
	in.ClimbRateControl = false
	in.MCVirtualSetpoint.Pitch = -0.1
	in.MCVirtualSetpoint.ThrustBody[2] = -0.6
	in.FWVirtualSetpoint.Roll = 0.2
	in.FWVirtualSetpoint.ThrustBody[0] = 0.4

	out := c.Update(in)
	sp := out.AttitudeSetpoint
	if sp.Roll != 0.2 || sp.Pitch != -0.1 {
		t.Errorf("roll, pitch = %v, %v; want 0.2, -0.1", sp.Roll, sp.Pitch)
	}
	if sp.ThrustBody[2] != -0.4 {
		t.Errorf("thrust z = %v, want manual throttle -0.4", sp.ThrustBody[2])
	}
	if out.Blend.ThrustTransition != 0.6 {
		t.Errorf("latched thrust = %v, want 0.6", out.Blend.ThrustTransition)
	}

	roll, pitch, _ := sp.Q.Euler()
	if math.Abs(roll-0.2) > 1e-9 || math.Abs(pitch+0.1) > 1e-9 {
		t.Errorf("quaternion euler = %v, %v; want 0.2, -0.1", roll, pitch)
	}

	tecs := c.WaitOnTECS()
	if tecs.ThrustBody[0] != 0.6 {
		t.Errorf("WaitOnTECS thrust x = %v, want 0.6", tecs.ThrustBody[0])
	}
	if !c.WasInTransition() {
		t.Error("WasInTransition should be set during a transition")
	}
}

func TestQuaternionEulerRoundTrip(t *testing.T) {
	for _, e := range [][3]float64{
		{0, 0, 0},
		{0.3, -0.2, 1.1},
		{-1.2, 0.7, -2.5},
	} {
		r, p, y := QuaternionFromEuler(e[0], e[1], e[2]).Euler()
		if math.Abs(r-e[0]) > 1e-9 || math.Abs(p-e[1]) > 1e-9 || math.Abs(y-e[2]) > 1e-9 {
			t.Errorf("round trip %v = %v %v %v", e, r, p, y)
		}
	}
}
