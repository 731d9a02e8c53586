package tiltrotor

import "time"

// SchedulerInputs are the measurements and flags the scheduler reads each tick.
type SchedulerInputs struct {
	Now                time.Duration
	Failsafe           bool
	FixedWingRequested bool

	GroundSpeed      float64
	GroundSpeedValid bool

	// Airspeed is only trusted when AirspeedValid is set. Callers fold the
	// "airspeed disabled" configuration and finiteness checks into AirspeedValid.
	Airspeed      float64
	AirspeedValid bool

	CanTransitionOnGround bool

	// Tilt is the tilt command produced on the previous tick.
	Tilt float64
}

// Scheduler is the discrete flight-phase state machine. The zero value starts in MC.
type Scheduler struct {
	schedule Schedule
	failsafe bool
}

// Schedule returns the current schedule.
func (s *Scheduler) Schedule() Schedule {
	return s.schedule
}

// Failsafe reports whether the transition failsafe latch is set.
func (s *Scheduler) Failsafe() bool {
	return s.failsafe
}

// Advance evaluates one tick of the state machine and returns the new schedule and
// the tilt command, which is only modified when entering FW.
//
// A two-way switch drives the transitions: after the switch is flipped the rotors tilt
// forward and the vehicle picks up speed; once fast enough the rotors are tilted forward
// completely. For the back-transition the rotors simply rotate back.
func (s *Scheduler) Advance(in SchedulerInputs, p *Params) (Schedule, float64) {
	tilt := in.Tilt

	if in.Failsafe {
		s.failsafe = true
	}

	switch {
	case s.failsafe:
		// switch to MC immediately, whatever we were doing
		s.schedule.Phase = PhaseMC

		if !in.FixedWingRequested {
			s.failsafe = false
		}

	case !in.FixedWingRequested:
		switch s.schedule.Phase {
		case PhaseFW:
			s.enter(PhaseTransBack, in.Now)

		case PhaseTransFrontP1, PhaseTransFrontP2:
			// abort the front transition
			s.schedule.Phase = PhaseMC

		case PhaseTransBack:
			elapsed := s.schedule.Elapsed(in.Now)
			belowCruise := in.GroundSpeedValid && in.GroundSpeed <= p.CruiseSpeed

			if tilt <= p.Tilt.MC && (elapsed > p.BackTransDuration || belowCruise) {
				s.schedule.Phase = PhaseMC
			}
		}

	default:
		switch s.schedule.Phase {
		case PhaseMC:
			s.enter(PhaseTransFrontP1, in.Now)

		case PhaseTransFrontP1:
			if frontP1Done(s.schedule.Elapsed(in.Now), in, p) {
				s.enter(PhaseTransFrontP2, in.Now)
			}

		case PhaseTransFrontP2:
			// rotors are tilted completely, switch to FW
			if tilt >= p.Tilt.FW {
				s.schedule.Phase = PhaseFW
				tilt = p.Tilt.FW
			}

		case PhaseTransBack:
			// fixed-wing requested again, jump straight back
			s.schedule.Phase = PhaseFW
		}
	}

	return s.schedule, tilt
}

func (s *Scheduler) enter(phase Phase, now time.Duration) {
	s.schedule.Phase = phase
	s.schedule.TransitionStart = now
}

// frontP1Done decides whether the first front-transition phase is complete.
func frontP1Done(elapsed float64, in SchedulerInputs, p *Params) bool {
	if in.CanTransitionOnGround {
		return true
	}

	if elapsed <= p.FrontTransTimeMin {
		return false
	}

	if in.AirspeedValid {
		return in.Airspeed >= p.TransitionAirspeed
	}

	// no airspeed, use the open-loop schedule
	return in.Tilt >= p.Tilt.Transition && elapsed > p.FrontTransTimeOpenloop
}
