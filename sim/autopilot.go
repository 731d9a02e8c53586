package sim

import (
	"math"

	"github.com/BryanSouza91/TiltFC/pid"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// hover thrust of the multicopter: ThrustBody[2] = -hoverThrust
const hoverThrust = 0.5

// Autopilot stands in for the multicopter and fixed-wing attitude controllers. It
// produces the virtual setpoints and virtual actuator controls the transition logic
// blends.
type Autopilot struct {
	// CruiseSpeed is the fixed-wing speed target in m/s.
	CruiseSpeed float64

	speed *pid.Controller
	pitch *pid.Controller
	roll  *pid.Controller
}

func NewAutopilot(cruise float64) *Autopilot {
	return &Autopilot{
		CruiseSpeed: cruise,
		speed:       pid.New(0.15, 0.05, 0).WithLimits(0, 1),
		pitch:       pid.New(0.8, 0.1, 0.05).WithLimits(-1, 1),
		roll:        pid.New(0.8, 0.1, 0.05).WithLimits(-1, 1),
	}
}

// Fill writes the virtual setpoints and controls for one tick into in. roll and pitch
// are the estimated attitude, stickRoll the pilot roll stick in [-1, 1].
func (a *Autopilot) Fill(in *tiltrotor.Inputs, mode tiltrotor.Mode, roll, pitch, stickRoll, dt float64) {
	in.MCVirtualSetpoint = tiltrotor.AttitudeSetpoint{
		Roll:       0.3 * stickRoll,
		ThrustBody: [3]float64{0, 0, -hoverThrust},
	}

	measured := in.Airspeed
	if !in.AirspeedValid {
		measured = in.Ground.Speed()
	}

	throttle := 0.0
	if mode != tiltrotor.ModeRotaryWing {
		throttle = a.speed.Update(a.CruiseSpeed-measured, dt)
	} else {
		a.speed.Reset()
	}
	in.FWVirtualSetpoint = tiltrotor.AttitudeSetpoint{
		Roll:       0.5 * stickRoll,
		Pitch:      0.05,
		ThrustBody: [3]float64{throttle, 0, 0},
	}

	sp := in.MCVirtualSetpoint
	if mode == tiltrotor.ModeFixedWing {
		sp = in.FWVirtualSetpoint
	}
	rollCmd := a.roll.Update(sp.Roll-roll, dt)
	pitchCmd := a.pitch.Update(sp.Pitch-pitch, dt)

	in.MCVirtualControls.Control[tiltrotor.IndexRoll] = rollCmd
	in.MCVirtualControls.Control[tiltrotor.IndexPitch] = pitchCmd
	in.MCVirtualControls.Control[tiltrotor.IndexThrottle] = hoverThrust

	in.FWVirtualControls.Control[tiltrotor.IndexRoll] = rollCmd
	in.FWVirtualControls.Control[tiltrotor.IndexPitch] = pitchCmd
	in.FWVirtualControls.Control[tiltrotor.IndexThrottle] = throttle
}

// Base is the generic VTOL behaviour used in simulation. Back-transition pitch raises
// the nose a little to help decelerate.
type Base struct {
	tiltrotor.DefaultBase
}

func (Base) BacktransitionPitch(in *tiltrotor.Inputs) float64 {
	return math.Min(in.MCVirtualSetpoint.Pitch+0.1, 0.3)
}
