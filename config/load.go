// Package config loads the transition parameter set: the stock defaults, an optional
// YAML file, then TILTFC_* environment overrides, validated as a whole.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// EnvPrefix prefixes every environment override. The rest of the variable name is the
// upper-cased parameter key, e.g. TILTFC_VT_TILT_MC.
const EnvPrefix = "TILTFC_"

// Load merges defaults from tiltrotor.DefaultParams() + optional YAML file at path + env
// overrides. An empty path skips the file.
func Load(path string) (*tiltrotor.Params, error) {
	params := tiltrotor.DefaultParams()

	if path != "" {
		if err := loadFromFile(path, &params); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&params, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := Validate(&params); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &params, nil
}

// loadFromFile overlays the keys present in the file onto params.
func loadFromFile(path string, params *tiltrotor.Params) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, params); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Marshal renders params in the file format Load reads.
func Marshal(params *tiltrotor.Params) ([]byte, error) {
	return yaml.Marshal(params)
}

// field binds one parameter key to its storage.
type field struct {
	key string
	f   *float64
	b   *bool
}

func fields(p *tiltrotor.Params) []field {
	return []field{
		{key: "vt_tilt_mc", f: &p.Tilt.MC},
		{key: "vt_tilt_trans", f: &p.Tilt.Transition},
		{key: "vt_tilt_fw", f: &p.Tilt.FW},
		{key: "vt_tilt_spinup", f: &p.Tilt.Spinup},
		{key: "vt_trans_p2_dur", f: &p.Tilt.FrontTransDurP2},
		{key: "vt_f_trans_dur", f: &p.FrontTransDuration},
		{key: "vt_trans_min_tm", f: &p.FrontTransTimeMin},
		{key: "vt_f_tr_ol_tm", f: &p.FrontTransTimeOpenloop},
		{key: "vt_b_trans_dur", f: &p.BackTransDuration},
		{key: "vt_arsp_trans", f: &p.TransitionAirspeed},
		{key: "vt_arsp_blend", f: &p.AirspeedBlend},
		{key: "fw_arsp_disabled", b: &p.AirspeedDisabled},
		{key: "mpc_xy_cruise", f: &p.CruiseSpeed},
		{key: "vt_fw_difthr_en", b: &p.DiffThrust},
		{key: "vt_fw_difthr_sc", f: &p.DiffThrustScale},
		{key: "vt_elev_mc_lock", b: &p.ElevonsMCLock},
		{key: "pwm_min", f: &p.PWMMin},
		{key: "pwm_max", f: &p.PWMMax},
	}
}

// EnvName returns the environment variable overriding the parameter key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// applyEnvOverrides applies TILTFC_* variables to params.
func applyEnvOverrides(params *tiltrotor.Params, lookup func(string) (string, bool)) error {
	for _, fd := range fields(params) {
		name := EnvName(fd.key)
		val, ok := lookup(name)
		if !ok || val == "" {
			continue
		}

		if fd.b != nil {
			v, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*fd.b = v
			continue
		}

		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*fd.f = v
	}
	return nil
}
