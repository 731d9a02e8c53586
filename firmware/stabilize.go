//go:build tinygo

package main

import (
	"math"

	"github.com/BryanSouza91/TiltFC/pid"
	"github.com/BryanSouza91/TiltFC/rx"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

const degToRad = math.Pi / 180

// stabilizer turns the pilot's sticks into the multicopter and fixed-wing virtual
// setpoints and controls the transition logic blends.
type stabilizer struct {
	roll, pitch *pid.Controller
}

func newStabilizer() *stabilizer {
	return &stabilizer{
		roll:  pid.New(P, I, D).WithLimits(-1, 1),
		pitch: pid.New(P, I, D).WithLimits(-1, 1),
	}
}

func (s *stabilizer) reset() {
	s.roll.Reset()
	s.pitch.Reset()
}

// fill writes the virtual setpoints and controls for one tick. roll, pitch are the
// estimated attitude, yawRate the measured body yaw rate.
func (s *stabilizer) fill(in *tiltrotor.Inputs, ch *rx.Channels, mode tiltrotor.Mode, roll, pitch, yawRate, dt float64) {
	throttle := ch.Throttle(chThrottle)

	in.MCVirtualSetpoint = tiltrotor.AttitudeSetpoint{
		Roll:       ch.Stick(chRoll) * MAX_ANGLE_DEG * degToRad,
		Pitch:      -ch.Stick(chPitch) * MAX_ANGLE_DEG * degToRad,
		ThrustBody: [3]float64{0, 0, -throttle},
	}
	in.FWVirtualSetpoint = tiltrotor.AttitudeSetpoint{
		Roll:       ch.Stick(chRoll) * MAX_BANK_FW_DEG * degToRad,
		Pitch:      -ch.Stick(chPitch) * MAX_ANGLE_DEG * degToRad,
		ThrustBody: [3]float64{throttle, 0, 0},
	}

	sp := in.MCVirtualSetpoint
	if mode == tiltrotor.ModeFixedWing {
		sp = in.FWVirtualSetpoint
	}
	rollCmd := s.roll.Update(sp.Roll-roll, dt)
	pitchCmd := s.pitch.Update(sp.Pitch-pitch, dt)
	yawCmd := tiltrotor.Constrain(YAW_P*(ch.Stick(chYaw)*MAX_YAW_RATE_DEG*degToRad-yawRate), -1, 1)

	mc := &in.MCVirtualControls.Control
	mc[tiltrotor.IndexRoll] = rollCmd
	mc[tiltrotor.IndexPitch] = pitchCmd
	mc[tiltrotor.IndexYaw] = yawCmd
	mc[tiltrotor.IndexThrottle] = throttle

	fw := &in.FWVirtualControls.Control
	fw[tiltrotor.IndexRoll] = rollCmd
	fw[tiltrotor.IndexPitch] = pitchCmd
	fw[tiltrotor.IndexYaw] = ch.Stick(chYaw)
	fw[tiltrotor.IndexThrottle] = throttle
}
