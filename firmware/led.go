//go:build tinygo

package main

/*
The status LED follows the flight state: slow flash while waiting, fast flash while
calibrating, solid in flight, a double blink while a transition is in progress and a
rapid flash in failsafe.
*/

import (
	"machine"
	"time"
)

// Define LED patterns
const (
	LED_OFF = iota
	LED_ON
	LED_SLOWFLASH
	LED_FASTFLASH
	LED_FLASH
	LED_DOUBLEBLINK
)

// LED state struct
type ledState struct {
	pin        machine.Pin
	state      int
	lastToggle time.Time
	isOn       bool
	step       int
}

func newLEDState(pin machine.Pin) *ledState {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &ledState{pin: pin, lastToggle: time.Now()}
}

func (ls *ledState) set(on bool) {
	ls.pin.Set(on)
	ls.isOn = on
}

func (ls *ledState) toggleEvery(now time.Time, d time.Duration) {
	if now.Sub(ls.lastToggle) >= d {
		ls.set(!ls.isOn)
		ls.lastToggle = now
	}
}

// update advances the current pattern; call it once per loop.
func (ls *ledState) update(now time.Time) {
	switch ls.state {
	case LED_OFF:
		ls.set(false)
	case LED_ON:
		ls.set(true)
	case LED_SLOWFLASH:
		ls.toggleEvery(now, 500*time.Millisecond)
	case LED_FASTFLASH:
		ls.toggleEvery(now, 50*time.Millisecond)
	case LED_FLASH:
		ls.toggleEvery(now, 150*time.Millisecond)
	case LED_DOUBLEBLINK:
		// on, off, on, then a long pause
		durations := [4]time.Duration{100, 100, 100, 700}
		if now.Sub(ls.lastToggle) >= durations[ls.step]*time.Millisecond {
			ls.step = (ls.step + 1) % len(durations)
			ls.set(ls.step%2 == 0 && ls.step < 3)
			ls.lastToggle = now
		}
	}
}

func (ls *ledState) setState(state int) {
	if ls.state != state {
		ls.step = 0
	}
	ls.state = state
}
