package tiltrotor

// arspYawCtrlDisable is the airspeed (m/s) above which yaw is no longer controlled by
// the rotors during a front transition.
const arspYawCtrlDisable = 7.0

// Weights fade the authority of each multicopter axis: 1 is full multicopter control,
// 0 leaves the axis to the fixed-wing path.
type Weights struct {
	Roll, Pitch, Yaw, Throttle float64
}

// Clamp limits every weight to [0, 1]. NaN becomes 0.
func (w Weights) Clamp() Weights {
	return Weights{
		Roll:     clamp01(w.Roll),
		Pitch:    clamp01(w.Pitch),
		Yaw:      clamp01(w.Yaw),
		Throttle: clamp01(w.Throttle),
	}
}

// BlendState is the continuous state recomputed every tick.
type BlendState struct {
	Tilt float64
	Weights
	// ThrustTransition is the vertical thrust latched during the front transition.
	ThrustTransition float64
}

// Airspeed is an airspeed sample together with whether it may be used for control.
type Airspeed struct {
	Value  float64
	Usable bool
}

// MCWeights gives full multicopter authority. Yaw is withheld while the motors spin up.
func MCWeights(spinup bool) Weights {
	w := Weights{Roll: 1, Pitch: 1, Yaw: 1, Throttle: 1}
	if spinup {
		w.Yaw = 0
	}
	return w
}

// FWWeights removes all multicopter authority; the fixed-wing throttle reaches the
// rotors through the mixer instead.
func FWWeights() Weights {
	return Weights{}
}

// FrontP1Weights starts with full multicopter authority and reduces it once the vehicle
// has picked up speed. Without airspeed, roll and yaw fade out linearly between
// FrontTransTimeMin and FrontTransTimeOpenloop.
func FrontP1Weights(elapsed float64, air Airspeed, p *Params) Weights {
	w := Weights{Roll: 1, Pitch: 1, Yaw: 1, Throttle: 1}

	if air.Usable {
		if air.Value > arspYawCtrlDisable {
			w.Yaw = 0
		}
		if air.Value >= p.AirspeedBlend {
			w.Roll = 0
		}
		return w
	}

	if elapsed > p.FrontTransTimeMin {
		span := p.FrontTransTimeOpenloop - p.FrontTransTimeMin
		w.Roll = 0
		if span > 0 {
			w.Roll = 1 - (elapsed-p.FrontTransTimeMin)/span
		}
		w.Yaw = w.Roll
	}

	return w
}

// BlendRollLinear is the linear airspeed blend for the roll weight between
// AirspeedBlend and TransitionAirspeed. The controller cuts roll to zero at
// AirspeedBlend instead; this is kept for airframes that need a softer hand-over.
func BlendRollLinear(airspeed float64, p *Params) float64 {
	span := p.TransitionAirspeed - p.AirspeedBlend
	if span <= 0 {
		return 0
	}
	return clamp01(1 - (airspeed-p.AirspeedBlend)/span)
}

// FrontP2Weights leaves roll and yaw to the fixed-wing controller.
func FrontP2Weights() Weights {
	return Weights{Roll: 0, Pitch: 1, Yaw: 0, Throttle: 1}
}

// BackWeights keeps yaw throughout. For the first second the rotors are rotating back
// and throttle, roll and pitch are held at zero; then roll and pitch return and throttle
// ramps up over one second to avoid a step input.
func BackWeights(elapsed float64) Weights {
	if elapsed < backTransTiltTime {
		return Weights{Yaw: 1}
	}

	return Weights{
		Roll:     1,
		Pitch:    1,
		Yaw:      1,
		Throttle: (elapsed - backTransTiltTime) / 1.0,
	}
}

// RampDownValue is the main-motor command during the second front-transition phase.
// The motors not used in forward flight are ramped from PWMMax down to PWMMin over
// FrontTransDurP2 and the result is halved.
func RampDownValue(elapsed float64, p *Params) int {
	fraction := 0.0
	if p.Tilt.FrontTransDurP2 > 0 {
		fraction = 1 - elapsed/p.Tilt.FrontTransDurP2
	}

	value := int(ScaleToRange(fraction, p.PWMMin, p.PWMMax))
	return int(float64(value) * 0.5)
}

// ManualThrust overrides the vertical thrust with the fixed-wing throttle stick when
// climb-rate control is off (manual, stabilized, acro), so the throttle feels the same
// throughout the transition.
func ManualThrust(sp *AttitudeSetpoint, fw *AttitudeSetpoint, climbRateControl bool) {
	if !climbRateControl {
		sp.ThrustBody[2] = -fw.ThrustBody[0]
	}
}
