package sim

import (
	"github.com/BryanSouza91/TiltFC/rx"
)

// Receiver channel map used by the simulated pilot and the firmware.
const (
	ChRoll       = 0
	ChPitch      = 1
	ChThrottle   = 2
	ChYaw        = 3
	ChArm        = 4
	ChTransition = 5

	pilotChannels = 14
)

// Pilot is the scripted RC transmitter. Its sticks and switches travel through an iBus
// frame and the decoder each tick, the same path the firmware reads.
type Pilot struct {
	sticks  rx.Channels
	decoder *rx.IBus
	lost    bool
}

func NewPilot() *Pilot {
	p := &Pilot{decoder: rx.NewIBus()}
	for i := range p.sticks[:pilotChannels] {
		p.sticks[i] = rx.MidRxValue
	}
	p.sticks[ChThrottle] = rx.MinRxValue
	p.sticks[ChArm] = rx.MinRxValue
	p.sticks[ChTransition] = rx.MinRxValue
	return p
}

func setSwitch(c *rx.Channels, ch int, on bool) {
	if on {
		c[ch] = rx.MaxRxValue
	} else {
		c[ch] = rx.MinRxValue
	}
}

// Apply performs a scenario command that concerns the transmitter.
func (p *Pilot) Apply(cmd Command) {
	switch cmd {
	case CmdArm:
		setSwitch(&p.sticks, ChArm, true)
	case CmdDisarm:
		setSwitch(&p.sticks, ChArm, false)
	case CmdTransitionFW:
		setSwitch(&p.sticks, ChTransition, true)
	case CmdTransitionMC:
		setSwitch(&p.sticks, ChTransition, false)
	case CmdSignalLost:
		p.lost = true
	case CmdSignalOK:
		p.lost = false
	}
}

// Receive transmits one frame and returns what the receiver decoded. ok is false while
// the signal is lost.
func (p *Pilot) Receive() (ch rx.Channels, ok bool, err error) {
	if p.lost {
		return p.decoder.Channels(), false, nil
	}
	for _, b := range rx.EncodeIBus(p.sticks, pilotChannels) {
		done, ferr := p.decoder.Feed(b)
		if ferr != nil {
			return p.decoder.Channels(), false, ferr
		}
		ok = ok || done
	}
	return p.decoder.Channels(), ok, nil
}
