// Package tiltrotor implements the flight-mode transition logic of a tilting-rotor VTOL:
// the mode scheduler, the tilt trajectory, the blending of multicopter and fixed-wing
// control authority, motor sequencing and the output mixer.
//
// A Controller is driven once per control-loop tick by the caller. It never blocks and
// never allocates after construction, so the same code runs on the flight controller
// firmware and in the host simulator.
package tiltrotor

import (
	"math"
	"time"
)

// Phase is the detailed tiltrotor flight phase.
type Phase int

const (
	PhaseMC Phase = iota
	PhaseFW
	PhaseTransFrontP1
	PhaseTransFrontP2
	PhaseTransBack
)

func (p Phase) String() string {
	switch p {
	case PhaseMC:
		return "MC"
	case PhaseFW:
		return "FW"
	case PhaseTransFrontP1:
		return "TRANS_FRONT_P1"
	case PhaseTransFrontP2:
		return "TRANS_FRONT_P2"
	case PhaseTransBack:
		return "TRANS_BACK"
	}
	return "UNKNOWN"
}

// Transitional reports whether the phase is one of the three transition phases.
func (p Phase) Transitional() bool {
	return p == PhaseTransFrontP1 || p == PhaseTransFrontP2 || p == PhaseTransBack
}

// Mode is the coarse flight mode consumed by the attitude-control dispatcher.
type Mode int

const (
	ModeRotaryWing Mode = iota
	ModeFixedWing
	ModeTransitionToFW
	ModeTransitionToMC
)

func (m Mode) String() string {
	switch m {
	case ModeRotaryWing:
		return "ROTARY_WING"
	case ModeFixedWing:
		return "FIXED_WING"
	case ModeTransitionToFW:
		return "TRANSITION_TO_FW"
	case ModeTransitionToMC:
		return "TRANSITION_TO_MC"
	}
	return "UNKNOWN"
}

// Schedule is the state owned by the Scheduler. TransitionStart is the monotonic time
// at which the current transitional phase was entered.
type Schedule struct {
	Phase           Phase
	TransitionStart time.Duration
}

// Elapsed returns the seconds spent since TransitionStart.
func (s Schedule) Elapsed(now time.Duration) float64 {
	return (now - s.TransitionStart).Seconds()
}

// Mode maps the detailed phase onto the coarse flight mode.
func (s Schedule) Mode() Mode {
	switch s.Phase {
	case PhaseFW:
		return ModeFixedWing
	case PhaseTransFrontP1, PhaseTransFrontP2:
		return ModeTransitionToFW
	case PhaseTransBack:
		return ModeTransitionToMC
	}
	return ModeRotaryWing
}

// Quaternion is a Hamilton quaternion stored as w, x, y, z.
type Quaternion [4]float64

// QuaternionFromEuler builds a quaternion from roll, pitch and yaw (radians, ZYX order).
func QuaternionFromEuler(roll, pitch, yaw float64) Quaternion {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)

	return Quaternion{
		cr*cp*cy + sr*sp*sy,
		sr*cp*cy - cr*sp*sy,
		cr*sp*cy + sr*cp*sy,
		cr*cp*sy - sr*sp*cy,
	}
}

// Euler returns roll, pitch and yaw (radians) of the quaternion.
func (q Quaternion) Euler() (roll, pitch, yaw float64) {
	w, x, y, z := q[0], q[1], q[2], q[3]
	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitch = math.Asin(Constrain(2*(w*y-z*x), -1, 1))
	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return roll, pitch, yaw
}

// AttitudeSetpoint carries an attitude target and a body-frame thrust vector.
// ThrustBody follows the NED body convention: ThrustBody[2] is negative for upward
// multicopter thrust and ThrustBody[0] is the forward (fixed-wing throttle) component.
type AttitudeSetpoint struct {
	Roll, Pitch, Yaw float64
	Q                Quaternion
	ThrustBody       [3]float64
}

// Actuator control channel indices.
const (
	IndexRoll     = 0
	IndexPitch    = 1
	IndexYaw      = 2
	IndexThrottle = 3
	// IndexTilt is the fixed-wing output channel reserved for the tilt mechanism.
	IndexTilt = 4

	NumControls = 8
)

// ActuatorControls is one actuator-control vector, virtual or physical.
type ActuatorControls struct {
	Control         [NumControls]float64
	TimestampSample time.Duration
	Timestamp       time.Duration
}

// GroundVelocity is the local-frame horizontal velocity estimate.
type GroundVelocity struct {
	VX, VY float64
	Valid  bool
}

// Speed returns the horizontal ground speed.
func (g GroundVelocity) Speed() float64 {
	return math.Hypot(g.VX, g.VY)
}

// Inputs is everything the controller reads on one tick.
type Inputs struct {
	// Now is the monotonic time of this tick.
	Now time.Duration

	// Failsafe raises the transition failsafe; it stays latched until fixed-wing
	// is no longer requested.
	Failsafe           bool
	FixedWingRequested bool
	Armed              bool
	ClimbRateControl   bool

	Ground        GroundVelocity
	Airspeed      float64
	AirspeedValid bool

	Attitude Quaternion

	MCVirtualSetpoint AttitudeSetpoint
	FWVirtualSetpoint AttitudeSetpoint
	MCVirtualControls ActuatorControls
	FWVirtualControls ActuatorControls

	CanTransitionOnGround bool
}

// Output is everything the controller produces on one tick.
type Output struct {
	Mode     Mode
	Schedule Schedule
	Failsafe bool

	AttitudeSetpoint AttitudeSetpoint
	Blend            BlendState

	// MC and FW are the physical actuator-control vectors for the multicopter and
	// fixed-wing mixers.
	MC, FW ActuatorControls
}
