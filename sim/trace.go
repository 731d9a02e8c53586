package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// Sample is the recorded state of one tick.
type Sample struct {
	T        time.Duration
	Phase    tiltrotor.Phase
	Mode     tiltrotor.Mode
	Failsafe bool
	Armed    bool

	Tilt    float64
	Weights tiltrotor.Weights

	Airspeed    float64
	GroundSpeed float64

	RotorThrottle float64
	FWThrottle    float64
	MainMotors    tiltrotor.MotorState
}

// Transition is one recorded phase change.
type Transition struct {
	At       time.Duration
	From, To tiltrotor.Phase
	// Elapsed is the time spent in the previous transitional phase, in seconds.
	Elapsed float64
}

// Trace is the record of a run.
type Trace struct {
	Samples     []Sample
	Transitions []Transition
}

// Phases returns the sequence of phases entered.
func (t *Trace) Phases() []tiltrotor.Phase {
	out := make([]tiltrotor.Phase, 0, len(t.Transitions))
	for _, tr := range t.Transitions {
		out = append(out, tr.To)
	}
	return out
}

// FirstEntry returns the first transition into phase.
func (t *Trace) FirstEntry(phase tiltrotor.Phase) (Transition, bool) {
	for _, tr := range t.Transitions {
		if tr.To == phase {
			return tr, true
		}
	}
	return Transition{}, false
}

// At returns the last sample taken at or before ts.
func (t *Trace) At(ts time.Duration) (Sample, bool) {
	var s Sample
	found := false
	for _, smp := range t.Samples {
		if smp.T > ts {
			break
		}
		s, found = smp, true
	}
	return s, found
}

var csvHeader = []string{
	"t", "phase", "mode", "failsafe", "armed", "tilt",
	"w_roll", "w_pitch", "w_yaw", "w_throttle",
	"airspeed", "groundspeed", "rotor_throttle", "fw_throttle", "main_motors",
}

// WriteCSV writes one row per sample.
func (t *Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for _, s := range t.Samples {
		row := []string{
			f(s.T.Seconds()), s.Phase.String(), s.Mode.String(),
			strconv.FormatBool(s.Failsafe), strconv.FormatBool(s.Armed), f(s.Tilt),
			f(s.Weights.Roll), f(s.Weights.Pitch), f(s.Weights.Yaw), f(s.Weights.Throttle),
			f(s.Airspeed), f(s.GroundSpeed), f(s.RotorThrottle), f(s.FWThrottle), s.MainMotors.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
