package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/BryanSouza91/TiltFC/ahrs"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// ErrEmptyScenario is returned when a scenario has no duration.
var ErrEmptyScenario = errors.New("sim: scenario has no duration")

// Config configures a run.
type Config struct {
	Params tiltrotor.Params

	// Rate is the control-loop rate in Hz. Default 100.
	Rate float64
	// Jitter is the largest deviation of a tick from the nominal period.
	Jitter time.Duration
	// Seed seeds the jitter generator.
	Seed int64
	// SignalTimeout is how long RC frames may be missing before the transition
	// failsafe is raised. Default 500ms.
	SignalTimeout time.Duration
	// CruiseSpeed is the fixed-wing speed target. Default 18 m/s.
	CruiseSpeed float64

	Airframe *Airframe
	Motors   *MotorBank
	Logger   *slog.Logger

	// Publish, when set, receives the output of every tick.
	Publish func(*tiltrotor.Output) error
}

// Runner drives the controller through a scenario on a simulated monotonic clock.
type Runner struct {
	cfg  Config
	ctrl *tiltrotor.Controller
	lg   *slog.Logger
}

func NewRunner(cfg Config) *Runner {
	if cfg.Rate <= 0 {
		cfg.Rate = 100
	}
	if cfg.SignalTimeout <= 0 {
		cfg.SignalTimeout = 500 * time.Millisecond
	}
	if cfg.CruiseSpeed <= 0 {
		cfg.CruiseSpeed = 18
	}
	if cfg.Airframe == nil {
		cfg.Airframe = DefaultAirframe()
	}
	if cfg.Motors == nil {
		cfg.Motors = NewMotorBank()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		cfg:  cfg,
		ctrl: tiltrotor.New(cfg.Params, Base{}, cfg.Motors),
		lg:   cfg.Logger,
	}
}

// Controller returns the controller under test.
func (r *Runner) Controller() *tiltrotor.Controller {
	return r.ctrl
}

// Period returns the nominal tick period.
func (r *Runner) Period() time.Duration {
	return time.Duration(float64(time.Second) / r.cfg.Rate)
}

// world is the scenario-controlled environment.
type world struct {
	failsafe     bool
	airspeedFail bool
	ground       bool
}

func (w *world) apply(e Event, af *Airframe) {
	switch e.Cmd {
	case CmdFailsafeOn:
		w.failsafe = true
	case CmdFailsafeOff:
		w.failsafe = false
	case CmdAirspeedFail:
		w.airspeedFail = true
	case CmdAirspeedOK:
		w.airspeedFail = false
	case CmdGroundOn:
		w.ground = true
	case CmdGroundOff:
		w.ground = false
	case CmdWind:
		af.Wind = e.Value
	}
}

// Run executes the scenario until its end and returns the trace. It stops early with
// ctx.Err() when ctx is done.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Trace, error) {
	end := sc.End()
	if end <= 0 {
		return nil, ErrEmptyScenario
	}

	var (
		rng    = rand.New(rand.NewSource(r.cfg.Seed))
		period = r.Period()
		af     = r.cfg.Airframe
		pilot  = NewPilot()
		ap     = NewAutopilot(r.cfg.CruiseSpeed)
		est    = ahrs.NewEstimator()
		trace  = &Trace{}
		env    world

		now, prev, lastRx time.Duration
		next              int
		mode              tiltrotor.Mode
		armed             bool
		roll, pitch, yaw  float64
	)

	r.ctrl.OnPhaseChange = func(from, to tiltrotor.Phase, at time.Duration, elapsed float64) {
		trace.Transitions = append(trace.Transitions, Transition{At: at, From: from, To: to, Elapsed: elapsed})
		r.lg.Info("phase change",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.Duration("t", at),
			slog.Float64("elapsed", elapsed),
			slog.Float64("airspeed", af.Airspeed()))
	}
	defer func() { r.ctrl.OnPhaseChange = nil }()

	for now <= end {
		select {
		case <-ctx.Done():
			return trace, ctx.Err()
		default:
		}

		for ; next < len(sc) && sc[next].At <= now; next++ {
			e := sc[next]
			r.lg.Debug("scenario event", slog.String("cmd", e.Cmd.String()), slog.Duration("at", e.At), slog.Int("line", e.Line))
			pilot.Apply(e.Cmd)
			env.apply(e, af)
		}

		dt := (now - prev).Seconds()

		ch, ok, err := pilot.Receive()
		if err != nil {
			r.lg.Warn("rc frame rejected", slog.Any("err", err))
		}
		if ok {
			lastRx = now
		}
		rcLost := now-lastRx > r.cfg.SignalTimeout

		// arming is refused while fixed-wing is requested; once armed the switch only
		// has to stay high
		armed = ch.Switch(ChArm) && (armed || ch.ArmRequested(ChArm, ChTransition))

		ax, ay, az, gx, gy, gz := af.IMU(roll, pitch, yaw, dt)
		roll, pitch, yaw = af.Roll, af.Pitch, af.Yaw
		q := est.Update(ahrs.Sample{AccelX: ax, AccelY: ay, AccelZ: az, GyroX: gx, GyroY: gy, GyroZ: gz}, dt)
		estRoll, estPitch, _ := est.Euler()

		in := tiltrotor.Inputs{
			Now:                   now,
			Failsafe:              env.failsafe || rcLost,
			FixedWingRequested:    armed && ch.Switch(ChTransition),
			Armed:                 armed,
			ClimbRateControl:      true,
			Ground:                tiltrotor.GroundVelocity{VX: af.Speed, Valid: true},
			Airspeed:              af.Airspeed(),
			AirspeedValid:         !env.airspeedFail,
			Attitude:              q,
			CanTransitionOnGround: env.ground,
		}
		ap.Fill(&in, mode, estRoll, estPitch, ch.Stick(ChRoll), dt)

		out := r.ctrl.Update(in)
		if out.Mode == tiltrotor.ModeFixedWing && mode != tiltrotor.ModeFixedWing {
			// the speed controller has not run in fixed-wing mode yet: hold the
			// transition thrust for this tick
			tecs := r.ctrl.WaitOnTECS()
			out.MC.Control[tiltrotor.IndexThrottle] = tecs.ThrustBody[0]
			r.lg.Debug("waiting on speed controller", slog.Float64("thrust", tecs.ThrustBody[0]))
		}
		mode = out.Mode

		if r.cfg.Publish != nil {
			if err := r.cfg.Publish(&out); err != nil {
				return trace, fmt.Errorf("publish at %v: %w", now, err)
			}
		}

		rotor := out.MC.Control[tiltrotor.IndexThrottle]
		if !in.Armed || r.cfg.Motors.All == tiltrotor.MotorDisabled {
			rotor = 0
		}

		trace.Samples = append(trace.Samples, Sample{
			T:             now,
			Phase:         out.Schedule.Phase,
			Mode:          out.Mode,
			Failsafe:      out.Failsafe,
			Armed:         in.Armed,
			Tilt:          out.Blend.Tilt,
			Weights:       out.Blend.Weights,
			Airspeed:      af.Airspeed(),
			GroundSpeed:   af.Speed,
			RotorThrottle: rotor,
			FWThrottle:    in.FWVirtualControls.Control[tiltrotor.IndexThrottle],
			MainMotors:    r.cfg.Motors.Main,
		})

		step := period
		if r.cfg.Jitter > 0 {
			step += time.Duration(rng.Int63n(int64(2*r.cfg.Jitter)+1)) - r.cfg.Jitter
			step = max(step, period/2)
		}

		af.Roll = out.AttitudeSetpoint.Roll
		af.Pitch = out.AttitudeSetpoint.Pitch
		af.Step(rotor, out.Blend.Tilt, step.Seconds())

		prev = now
		now += step
	}

	r.lg.Info("scenario complete",
		slog.Duration("duration", end),
		slog.Int("ticks", len(trace.Samples)),
		slog.Int("transitions", len(trace.Transitions)))
	return trace, nil
}
