package tiltrotor

// TiltParams are the tilt-mechanism calibration values. Tilt positions are normalized
// (0 = rotors upright, 1 = rotors fully forward) and expected in the order
// MC <= Transition <= FW.
type TiltParams struct {
	MC         float64 `yaml:"vt_tilt_mc"`
	Transition float64 `yaml:"vt_tilt_trans"`
	FW         float64 `yaml:"vt_tilt_fw"`
	Spinup     float64 `yaml:"vt_tilt_spinup"`
	// FrontTransDurP2 is the duration of the second front-transition phase in seconds.
	FrontTransDurP2 float64 `yaml:"vt_trans_p2_dur"`
}

// Params is the complete parameter set read by the controller. Durations are in
// seconds, speeds in m/s.
type Params struct {
	Tilt TiltParams `yaml:",inline"`

	FrontTransDuration     float64 `yaml:"vt_f_trans_dur"`
	FrontTransTimeMin      float64 `yaml:"vt_trans_min_tm"`
	FrontTransTimeOpenloop float64 `yaml:"vt_f_tr_ol_tm"`
	BackTransDuration      float64 `yaml:"vt_b_trans_dur"`

	TransitionAirspeed float64 `yaml:"vt_arsp_trans"`
	AirspeedBlend      float64 `yaml:"vt_arsp_blend"`
	AirspeedDisabled   bool    `yaml:"fw_arsp_disabled"`
	CruiseSpeed        float64 `yaml:"mpc_xy_cruise"`

	DiffThrust      bool    `yaml:"vt_fw_difthr_en"`
	DiffThrustScale float64 `yaml:"vt_fw_difthr_sc"`
	ElevonsMCLock   bool    `yaml:"vt_elev_mc_lock"`

	// PWMMin and PWMMax bound the legacy output range used for the phase-2 motor
	// ramp-down command.
	PWMMin float64 `yaml:"pwm_min"`
	PWMMax float64 `yaml:"pwm_max"`
}

// DefaultParams returns the stock parameter values.
func DefaultParams() Params {
	return Params{
		Tilt: TiltParams{
			MC:              0.0,
			Transition:      0.3,
			FW:              1.0,
			Spinup:          0.0,
			FrontTransDurP2: 0.5,
		},
		FrontTransDuration:     5.0,
		FrontTransTimeMin:      2.0,
		FrontTransTimeOpenloop: 6.0,
		BackTransDuration:      4.0,
		TransitionAirspeed:     10.0,
		AirspeedBlend:          8.0,
		CruiseSpeed:            5.0,
		DiffThrustScale:        0.1,
		ElevonsMCLock:          true,
		PWMMin:                 1000,
		PWMMax:                 2000,
	}
}
