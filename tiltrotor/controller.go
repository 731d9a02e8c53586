package tiltrotor

import "time"

// Base is the generic VTOL behaviour the tiltrotor logic builds on. The controller calls
// into it; it does not reimplement it.
type Base interface {
	// UpdateMCState fills the attitude setpoint for multicopter flight.
	UpdateMCState(in *Inputs, sp *AttitudeSetpoint)
	// UpdateFWState fills the attitude setpoint for fixed-wing flight.
	UpdateFWState(in *Inputs, sp *AttitudeSetpoint)
	// UpdateTransitionState runs before the tiltrotor transition logic.
	UpdateTransitionState(in *Inputs, sp *AttitudeSetpoint)
	// PusherAssist returns the tilt used in multicopter flight.
	PusherAssist(in *Inputs, p *Params) float64
	// BacktransitionPitch returns the pitch setpoint that controls the deceleration
	// during a back-transition.
	BacktransitionPitch(in *Inputs) float64
}

// DefaultBase passes the virtual setpoints through and applies no pusher assist.
type DefaultBase struct{}

func (DefaultBase) UpdateMCState(in *Inputs, sp *AttitudeSetpoint) {
	*sp = in.MCVirtualSetpoint
}

func (DefaultBase) UpdateFWState(in *Inputs, sp *AttitudeSetpoint) {
	*sp = in.FWVirtualSetpoint
}

func (DefaultBase) UpdateTransitionState(*Inputs, *AttitudeSetpoint) {}

func (DefaultBase) PusherAssist(_ *Inputs, p *Params) float64 {
	return p.Tilt.MC
}

func (DefaultBase) BacktransitionPitch(in *Inputs) float64 {
	return in.MCVirtualSetpoint.Pitch
}

// Controller is the tiltrotor transition controller. There is one per vehicle and it
// is driven by Update once per control tick from a single goroutine.
type Controller struct {
	params Params
	base   Base
	motors MotorOutput

	scheduler Scheduler
	spinup    Spinup
	blend     BlendState
	attSp     AttitudeSetpoint
	mode      Mode

	flagWasInTransMode bool
	flagIdleMC         bool

	// OnPhaseChange, when set, is called after the scheduler changed phase.
	OnPhaseChange func(from, to Phase, now time.Duration, elapsed float64)
}

// New creates a controller in MC mode with full multicopter authority.
func New(p Params, base Base, motors MotorOutput) *Controller {
	if base == nil {
		base = DefaultBase{}
	}
	if motors == nil {
		motors = NopMotors{}
	}

	return &Controller{
		params: p,
		base:   base,
		motors: motors,
		blend: BlendState{
			Tilt:    p.Tilt.MC,
			Weights: MCWeights(false),
		},
	}
}

// SetParams replaces the parameter set. It takes effect on the next tick.
func (c *Controller) SetParams(p Params) {
	c.params = p
}

// Params returns the active parameter set.
func (c *Controller) Params() Params {
	return c.params
}

// Schedule returns the current transition schedule.
func (c *Controller) Schedule() Schedule {
	return c.scheduler.Schedule()
}

// Blend returns the blend state computed on the last tick.
func (c *Controller) Blend() BlendState {
	return c.blend
}

// Spinup returns the motor start-up sequence state.
func (c *Controller) Spinup() Spinup {
	return c.spinup
}

// WasInTransition reports whether the current or last flight phase was a transition.
func (c *Controller) WasInTransition() bool {
	return c.flagWasInTransMode
}

// Update runs one control tick.
func (c *Controller) Update(in Inputs) Output {
	sanitize(&in)
	p := &c.params

	// --- Mode Scheduler ---
	prev := c.scheduler.Schedule()
	sched, tilt := c.scheduler.Advance(SchedulerInputs{
		Now:                   in.Now,
		Failsafe:              in.Failsafe,
		FixedWingRequested:    in.FixedWingRequested,
		GroundSpeed:           in.Ground.Speed(),
		GroundSpeedValid:      in.Ground.Valid,
		Airspeed:              in.Airspeed,
		AirspeedValid:         c.airspeed(&in).Usable,
		CanTransitionOnGround: in.CanTransitionOnGround,
		Tilt:                  c.blend.Tilt,
	}, p)
	c.blend.Tilt = tilt
	c.mode = sched.Mode()

	if sched.Phase != prev.Phase {
		if sched.Phase == PhaseTransBack {
			c.flagIdleMC = false
			c.flagWasInTransMode = false
		}
		if c.OnPhaseChange != nil {
			c.OnPhaseChange(prev.Phase, sched.Phase, in.Now, prev.Elapsed(in.Now))
		}
	}

	// --- Motor Sequencing (arming) ---
	c.spinup.Observe(in.Armed, in.Now, &p.Tilt)

	// --- Tilt, blend and motors for the phase ---
	switch sched.Phase {
	case PhaseMC:
		c.updateMCState(&in)
	case PhaseFW:
		c.updateFWState(&in)
	default:
		c.updateTransitionState(&in, sched)
	}

	// weights must stay in [0,1] whatever the phase did
	c.blend.Weights = c.blend.Weights.Clamp()

	// --- Output Mixer ---
	mcOut, fwOut := FillActuatorOutputs(&in.MCVirtualControls, &in.FWVirtualControls, &c.blend, sched.Phase, p, in.Now)

	return Output{
		Mode:             c.mode,
		Schedule:         sched,
		Failsafe:         c.scheduler.Failsafe(),
		AttitudeSetpoint: c.attSp,
		Blend:            c.blend,
		MC:               mcOut,
		FW:               fwOut,
	}
}

// WaitOnTECS keeps the multicopter thrust latched during the transition until the
// fixed-wing speed/height controller provides data, and returns the setpoint.
func (c *Controller) WaitOnTECS() AttitudeSetpoint {
	c.attSp.ThrustBody[0] = c.blend.ThrustTransition
	return c.attSp
}

func (c *Controller) updateMCState(in *Inputs) {
	p := &c.params
	c.base.UpdateMCState(in, &c.attSp)
	c.flagWasInTransMode = false

	if c.spinup.Active {
		// leave motors tilted forward after arming so they spin up easier
		c.blend.Tilt = c.spinup.Tilt(in.Now, &p.Tilt)
		c.blend.Weights = MCWeights(true)
		return
	}

	c.blend.Tilt = c.base.PusherAssist(in, p)
	c.blend.Weights = MCWeights(false)
	c.attSp.ThrustBody[2] = CompensateThrust(c.blend.Tilt, c.attSp.ThrustBody[2])
}

func (c *Controller) updateFWState(in *Inputs) {
	c.base.UpdateFWState(in, &c.attSp)
	c.flagWasInTransMode = false

	// make sure the rotors are tilted forward
	c.blend.Tilt = FWTilt(&c.params)
	c.blend.Weights = FWWeights()
}

func (c *Controller) updateTransitionState(in *Inputs, sched Schedule) {
	p := &c.params
	c.base.UpdateTransitionState(in, &c.attSp)

	// the multicopter setpoint is the real setpoint, roll comes from the fixed-wing path
	c.attSp = in.MCVirtualSetpoint
	c.attSp.Roll = in.FWVirtualSetpoint.Roll

	elapsed := sched.Elapsed(in.Now)
	c.flagWasInTransMode = true

	switch sched.Phase {
	case PhaseTransFrontP1:
		c.blend.Tilt = FrontP1Tilt(c.blend.Tilt, elapsed, p)
		c.blend.Weights = FrontP1Weights(elapsed, c.airspeed(in), p)
		c.blend.ThrustTransition = -in.MCVirtualSetpoint.ThrustBody[2]
		ManualThrust(&c.attSp, &in.FWVirtualSetpoint, in.ClimbRateControl)

	case PhaseTransFrontP2:
		// ready for fixed-wing, tilt the rotors forward completely
		c.blend.Tilt = FrontP2Tilt(elapsed, p)
		c.blend.Weights = FrontP2Weights()
		c.blend.ThrustTransition = -in.MCVirtualSetpoint.ThrustBody[2]
		ManualThrust(&c.attSp, &in.FWVirtualSetpoint, in.ClimbRateControl)

	case PhaseTransBack:
		c.blend.Tilt = BackTilt(c.blend.Tilt, elapsed, p)
		c.blend.Weights = BackWeights(elapsed)

		// control the deceleration using pitch
		if in.ClimbRateControl {
			c.attSp.Pitch = c.base.BacktransitionPitch(in)
		}
		ManualThrust(&c.attSp, &in.FWVirtualSetpoint, in.ClimbRateControl)
	}

	c.flagIdleMC = transitionMotors(c.motors, sched.Phase, elapsed, c.flagIdleMC, p)

	c.attSp.Q = QuaternionFromEuler(c.attSp.Roll, c.attSp.Pitch, c.attSp.Yaw)
}

// airspeed reports the airspeed and whether it may be used for control.
func (c *Controller) airspeed(in *Inputs) Airspeed {
	return Airspeed{
		Value:  in.Airspeed,
		Usable: !c.params.AirspeedDisabled && in.AirspeedValid && finite(in.Airspeed),
	}
}

// sanitize rejects non-finite external measurements before they reach the blend.
func sanitize(in *Inputs) {
	if !finite(in.Airspeed) {
		in.AirspeedValid = false
	}
	if !finite(in.Ground.VX) || !finite(in.Ground.VY) {
		in.Ground.Valid = false
	}

	for _, sp := range []*AttitudeSetpoint{&in.MCVirtualSetpoint, &in.FWVirtualSetpoint} {
		sp.Roll = finiteOr(sp.Roll, 0)
		sp.Pitch = finiteOr(sp.Pitch, 0)
		sp.Yaw = finiteOr(sp.Yaw, 0)
		for i := range sp.ThrustBody {
			sp.ThrustBody[i] = finiteOr(sp.ThrustBody[i], 0)
		}
	}

	for _, ac := range []*ActuatorControls{&in.MCVirtualControls, &in.FWVirtualControls} {
		for i := range ac.Control {
			ac.Control[i] = finiteOr(ac.Control[i], 0)
		}
	}
}
