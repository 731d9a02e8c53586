package config

import (
	"fmt"
	"math"

	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// Validate enforces the parameter constraints the transition logic relies on.
func Validate(params *tiltrotor.Params) error {
	if params == nil {
		return fmt.Errorf("params cannot be nil")
	}

	for _, fd := range fields(params) {
		if fd.f != nil && (math.IsNaN(*fd.f) || math.IsInf(*fd.f, 0)) {
			return fmt.Errorf("%s must be finite, got %v", fd.key, *fd.f)
		}
	}

	if err := validateTilt(&params.Tilt); err != nil {
		return fmt.Errorf("tilt validation failed: %w", err)
	}

	if err := validateTiming(params); err != nil {
		return fmt.Errorf("timing validation failed: %w", err)
	}

	if err := validateAirspeed(params); err != nil {
		return fmt.Errorf("airspeed validation failed: %w", err)
	}

	if params.PWMMin >= params.PWMMax {
		return fmt.Errorf("pwm_min %v must be below pwm_max %v", params.PWMMin, params.PWMMax)
	}
	if params.DiffThrustScale < 0 || params.DiffThrustScale > 1 {
		return fmt.Errorf("vt_fw_difthr_sc must be in [0, 1], got %v", params.DiffThrustScale)
	}

	return nil
}

func validateTilt(t *tiltrotor.TiltParams) error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"vt_tilt_mc", t.MC},
		{"vt_tilt_trans", t.Transition},
		{"vt_tilt_fw", t.FW},
		{"vt_tilt_spinup", t.Spinup},
	} {
		if v.val < 0 || v.val > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", v.name, v.val)
		}
	}

	// tilt ramps only move one way
	if t.MC > t.Transition || t.Transition > t.FW {
		return fmt.Errorf("tilts must satisfy mc <= trans <= fw, got %v, %v, %v", t.MC, t.Transition, t.FW)
	}

	if t.FrontTransDurP2 <= 0 {
		return fmt.Errorf("vt_trans_p2_dur must be positive, got %v", t.FrontTransDurP2)
	}
	return nil
}

func validateTiming(p *tiltrotor.Params) error {
	if p.FrontTransDuration <= 0 {
		return fmt.Errorf("vt_f_trans_dur must be positive, got %v", p.FrontTransDuration)
	}
	if p.BackTransDuration <= 0 {
		return fmt.Errorf("vt_b_trans_dur must be positive, got %v", p.BackTransDuration)
	}
	if p.FrontTransTimeMin < 0 {
		return fmt.Errorf("vt_trans_min_tm must be non-negative, got %v", p.FrontTransTimeMin)
	}
	if p.FrontTransTimeOpenloop <= p.FrontTransTimeMin {
		return fmt.Errorf("vt_f_tr_ol_tm %v must exceed vt_trans_min_tm %v", p.FrontTransTimeOpenloop, p.FrontTransTimeMin)
	}
	return nil
}

func validateAirspeed(p *tiltrotor.Params) error {
	if p.TransitionAirspeed <= 0 {
		return fmt.Errorf("vt_arsp_trans must be positive, got %v", p.TransitionAirspeed)
	}
	if p.AirspeedBlend < 0 || p.AirspeedBlend > p.TransitionAirspeed {
		return fmt.Errorf("vt_arsp_blend %v must be in [0, vt_arsp_trans %v]", p.AirspeedBlend, p.TransitionAirspeed)
	}
	if p.CruiseSpeed < 0 {
		return fmt.Errorf("mpc_xy_cruise must be non-negative, got %v", p.CruiseSpeed)
	}
	return nil
}
