//go:build tinygo

package main

import (
	"machine"

	"tinygo.org/x/drivers/servo"

	"github.com/BryanSouza91/TiltFC/output"
)

// pwmGroup is the part of machine's PWM peripherals the outputs use.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmOut is one pulse-width output on a PWM channel.
type pwmOut struct {
	pwm      pwmGroup
	ch       uint8
	periodNs uint64
}

// setPulse converts a pulse width in microseconds to a duty value relative to the
// PWM period.
func (o *pwmOut) setPulse(us uint16) {
	duty := uint32(uint64(us) * 1000 * uint64(o.pwm.Top()) / o.periodNs)
	o.pwm.Set(o.ch, duty)
}

var (
	escs    [4]pwmOut
	elevons [2]pwmOut
	tilt    servo.Servo
)

func newPWMOut(pwm pwmGroup, pin machine.Pin, freq uint64) (pwmOut, error) {
	ch, err := pwm.Channel(pin)
	if err != nil {
		return pwmOut{}, err
	}
	return pwmOut{pwm: pwm, ch: ch, periodNs: machine.GHz / freq}, nil
}

// setupOutputs configures the ESC, elevon and tilt-servo outputs.
func setupOutputs() error {
	servoPeriod := machine.PWMConfig{Period: machine.GHz / SERVO_PWM_FREQUENCY}
	escPeriod := machine.PWMConfig{Period: machine.GHz / ESC_PWM_FREQUENCY}

	if err := pwm0.Configure(servoPeriod); err != nil {
		return err
	}
	if err := pwm1.Configure(escPeriod); err != nil {
		return err
	}
	if err := pwm2.Configure(escPeriod); err != nil {
		return err
	}

	var err error
	for i, pin := range ESC_PINS {
		group := pwmGroup(pwm1)
		if i >= 2 {
			group = pwm2
		}
		if escs[i], err = newPWMOut(group, pin, ESC_PWM_FREQUENCY); err != nil {
			return err
		}
	}
	if elevons[0], err = newPWMOut(pwm0, ELEVON_L, SERVO_PWM_FREQUENCY); err != nil {
		return err
	}
	if elevons[1], err = newPWMOut(pwm0, ELEVON_R, SERVO_PWM_FREQUENCY); err != nil {
		return err
	}

	// the tilt mechanism is a standard 50 Hz servo
	tilt, err = servo.New(pwm3, TILT_PIN)
	return err
}

// writeOutputs sets every output from one set of pulse widths.
func writeOutputs(pw output.Pulses) {
	for i := range escs {
		escs[i].setPulse(pw[output.FrontLeft+i])
	}
	elevons[0].setPulse(pw[output.ElevonLeft])
	elevons[1].setPulse(pw[output.ElevonRight])
	tilt.SetMicroseconds(int16(pw[output.Tilt]))
}
