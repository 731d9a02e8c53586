// Package output maps the transition controller's two actuator-control vectors to the
// pulse widths of a tiltrotor quad: four rotors in X, one tilt servo and two elevons.
// It has no host dependencies so the flight firmware and the MSP publisher share it.
package output

import "github.com/BryanSouza91/TiltFC/tiltrotor"

// Pulse widths in microseconds.
const (
	PulseMin  = 1000
	PulseMid  = 1500
	PulseMax  = 2000
	PulseIdle = 1100

	// NumOutputs is the number of output slots, matching MSP_SET_MOTOR.
	NumOutputs = 8
)

// Output slots.
const (
	FrontLeft = iota
	FrontRight
	RearLeft
	RearRight
	Tilt
	ElevonLeft
	ElevonRight
)

// Pulses is one set of output pulse widths.
type Pulses [NumOutputs]uint16

// Bank applies the motor-state commands of the transition logic to the rotor outputs.
// It implements tiltrotor.MotorOutput.
type Bank struct {
	// Ramped lists the rotors the main-motor commands apply to: the ones not used in
	// forward flight.
	Ramped []int

	all   tiltrotor.MotorState
	main  tiltrotor.MotorState
	limit int
	// idleMC raises the floor of enabled motors to PulseIdle.
	idleMC bool
}

func NewBank() *Bank {
	return &Bank{
		Ramped: []int{RearLeft, RearRight},
		all:    tiltrotor.MotorEnabled,
		main:   tiltrotor.MotorEnabled,
	}
}

func (b *Bank) SetAllMotorState(state tiltrotor.MotorState) {
	b.all = state
	b.main = state
}

func (b *Bank) SetMainMotorState(state tiltrotor.MotorState, value int) {
	b.main = state
	b.limit = value
}

func (b *Bank) SetIdleMC() bool {
	b.idleMC = true
	return true
}

// Disarm drops every rotor to PulseMin until the next state command and clears the
// idle floor.
func (b *Bank) Disarm() {
	b.all = tiltrotor.MotorDisabled
	b.main = tiltrotor.MotorDisabled
	b.idleMC = false
}

// Arm re-enables every rotor after Disarm.
func (b *Bank) Arm() {
	b.all = tiltrotor.MotorEnabled
	b.main = tiltrotor.MotorEnabled
}

// Pulses mixes the tick's actuator controls into pulse widths.
func (b *Bank) Pulses(out *tiltrotor.Output) Pulses {
	var pw Pulses

	motors := MixQuadX(&out.MC)
	for i, m := range motors {
		pw[i] = b.motorPulse(i, m)
	}

	fw := &out.FW.Control
	pw[Tilt] = pulse(fw[tiltrotor.IndexTilt])
	pw[ElevonLeft] = centered(fw[tiltrotor.IndexPitch] + fw[tiltrotor.IndexRoll])
	pw[ElevonRight] = centered(fw[tiltrotor.IndexPitch] - fw[tiltrotor.IndexRoll])
	pw[7] = PulseMin

	return pw
}

// Safe returns the outputs for a disarmed vehicle: rotors stopped, rotors upright and
// elevons centered.
func Safe() Pulses {
	var pw Pulses
	for i := range pw {
		pw[i] = PulseMin
	}
	pw[ElevonLeft] = PulseMid
	pw[ElevonRight] = PulseMid
	return pw
}

func (b *Bank) motorPulse(i int, thrust float64) uint16 {
	state := b.all
	if b.isRamped(i) {
		state = b.main
	}

	switch state {
	case tiltrotor.MotorDisabled:
		return PulseMin
	case tiltrotor.MotorIdle:
		return max(pulse(thrust), PulseIdle)
	case tiltrotor.MotorValue:
		return min(pulse(thrust), uint16(tiltrotor.Constrain(float64(b.limit), PulseMin, PulseMax)))
	}

	if b.idleMC {
		return max(pulse(thrust), PulseIdle)
	}
	return pulse(thrust)
}

func (b *Bank) isRamped(i int) bool {
	for _, r := range b.Ramped {
		if r == i {
			return true
		}
	}
	return false
}

// MixQuadX mixes throttle, roll, pitch and yaw into four X-configured rotors in
// front-left, front-right, rear-left, rear-right order. Results are in [0, 1].
func MixQuadX(ac *tiltrotor.ActuatorControls) [4]float64 {
	c := &ac.Control
	t := c[tiltrotor.IndexThrottle]
	r := c[tiltrotor.IndexRoll]
	pt := c[tiltrotor.IndexPitch]
	y := c[tiltrotor.IndexYaw]

	m := [4]float64{
		t + r + pt - y, // front-left, CW
		t - r + pt + y, // front-right, CCW
		t + r - pt + y, // rear-left, CCW
		t - r - pt - y, // rear-right, CW
	}
	for i := range m {
		m[i] = tiltrotor.Constrain(m[i], 0, 1)
	}
	return m
}

// pulse maps [0, 1] to [PulseMin, PulseMax].
func pulse(v float64) uint16 {
	return uint16(tiltrotor.ScaleToRange(v, PulseMin, PulseMax))
}

// centered maps [-1, 1] to [PulseMin, PulseMax].
func centered(v float64) uint16 {
	v = tiltrotor.Constrain(v, -1, 1)
	return uint16(tiltrotor.MapRange(v, -1, 1, PulseMin, PulseMax))
}
