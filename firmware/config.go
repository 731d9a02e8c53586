//go:build tinygo

package main

// TiltFC configuration
// All user-configurable parameters and hardware mappings

import (
	"machine"
	"time"

	"github.com/BryanSouza91/TiltFC/rx"
)

const Version = "0.1.0"

// --- Protocol Selection ---
const (
	activeProtocol = rx.ProtocolIBus // rx.ProtocolIBus, rx.ProtocolCRSF or rx.ProtocolELRS
)

// --- Loop and Failsafe ---
const (
	loopInterval     = 10 * time.Millisecond
	failsafeTimeout  = 500 * time.Millisecond
	failsafeThrottle = 1400 // throttle pulse held for a slow descent on signal loss (µs)
)

// --- PWM Configuration ---
const (
	SERVO_PWM_FREQUENCY = 200 // elevon servo frequency (Hz)
	ESC_PWM_FREQUENCY   = 500 // ESC frequency (Hz)
)

// --- Flight Control Parameters ---
const (
	MAX_ANGLE_DEG    = 30  // stick deflection for full roll/pitch in hover
	MAX_YAW_RATE_DEG = 120 // degrees/sec
	MAX_BANK_FW_DEG  = 45  // stick deflection for full bank in fixed-wing flight

	P, I, D = 0.5, 0.1, 0.2 // attitude PID gains
	YAW_P   = 0.3
)

// --- Channel Mapping ---
const (
	chRoll       = 0 // Rx channel 1
	chPitch      = 1 // Rx channel 2
	chThrottle   = 2 // Rx channel 3
	chYaw        = 3 // Rx channel 4
	chArm        = 4 // Rx channel 5
	chTransition = 5 // Rx channel 6, high requests fixed-wing
	chCalibrate  = 6 // Rx channel 7
)

// --- Hardware Mappings ---
var (
	ESC_PINS = [4]machine.Pin{machine.D2, machine.D3, machine.D4, machine.D5} // FL, FR, RL, RR
	ELEVON_L = machine.D0
	ELEVON_R = machine.D1
	TILT_PIN = machine.D6
	LED_PIN  = machine.LED
)

// --- Hardware Interfaces ---
var (
	pwm0 = machine.PWM0 // elevon servos
	pwm1 = machine.PWM1 // front ESCs
	pwm2 = machine.PWM2 // rear ESCs
	pwm3 = machine.PWM3 // tilt servo
)
