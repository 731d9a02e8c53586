// Command tiltsim flies the transition controller through a scenario on a simulated
// clock. It writes the trace as CSV and as a plot, and can mirror every tick's outputs
// to a flight controller as MSP_SET_MOTOR frames.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.bug.st/serial"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/BryanSouza91/TiltFC/config"
	"github.com/BryanSouza91/TiltFC/msp"
	"github.com/BryanSouza91/TiltFC/sim"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

var (
	paramsFile   = flag.String("params", "", "YAML parameter file")
	scenarioFile = flag.String("scenario", "", "Scenario file (default: round trip)")
	rate         = flag.Float64("rate", 100, "Control loop rate (Hz)")
	jitter       = flag.Duration("jitter", 0, "Maximum tick jitter")
	seed         = flag.Int64("seed", 1, "Jitter seed")
	plotOut      = flag.String("plot", "", "Write a plot of the trace (png, svg, pdf)")
	csvOut       = flag.String("csv", "", "Write the trace as CSV")
	logFile      = flag.String("log", "", "Log to a rotated file instead of stderr")
	verbose      = flag.Bool("v", false, "Debug logging")
	device       = flag.String("d", "", "MSP device (path[@baud], tcp://host:port, udp://host:port or auto)")
	baud         = flag.Int("b", msp.DefaultBaud, "Baud rate")
	dumpParams   = flag.Bool("dump", false, "Print the effective parameters and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	lg := newLogger(*logFile, *verbose)

	if err := run(lg); err != nil {
		lg.Error("tiltsim failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(lg *slog.Logger) error {
	params, err := config.Load(*paramsFile)
	if err != nil {
		return err
	}
	if *dumpParams {
		b, err := config.Marshal(params)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	}

	sc, err := loadScenario(*scenarioFile)
	if err != nil {
		return err
	}

	cfg := sim.Config{
		Params: *params,
		Rate:   *rate,
		Jitter: *jitter,
		Seed:   *seed,
		Motors: sim.NewMotorBank(),
		Logger: lg,
	}

	if *device != "" {
		link, err := connect(lg, *device, *baud)
		if err != nil {
			return err
		}
		defer link.Close()

		pub := msp.NewPublisher(link)
		cfg.Motors.Next = pub
		cfg.Publish = pub.Publish
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	tr, err := sim.NewRunner(cfg).Run(ctx, sc)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	lg.Info("run finished",
		slog.Duration("simulated", sc.End()),
		slog.Duration("wall", time.Since(start)),
		slog.Bool("interrupted", err != nil))

	for _, t := range tr.Transitions {
		fmt.Printf("%8.3fs  %-14s -> %-14s  (%.2fs)\n", t.At.Seconds(), t.From, t.To, t.Elapsed)
	}

	if *csvOut != "" {
		if err := writeCSV(*csvOut, tr); err != nil {
			return err
		}
		lg.Info("trace written", slog.String("path", *csvOut))
	}
	if *plotOut != "" {
		if err := tr.WritePlot(*plotOut, plotTitle(params)); err != nil {
			return err
		}
		lg.Info("plot written", slog.String("path", *plotOut))
	}
	return nil
}

// newLogger logs text records to stderr, or to a size-rotated file when path is set.
func newLogger(path string, debug bool) *slog.Logger {
	var w io.Writer = os.Stderr
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadScenario(path string) (sim.Scenario, error) {
	if path == "" {
		return sim.ParseScenarioString(sim.RoundTrip)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := sim.ParseScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func writeCSV(path string, tr *sim.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tr.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func connect(lg *slog.Logger, dev string, baud int) (*msp.Link, error) {
	if dev == "auto" {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("list serial ports: %w", err)
		}
		if dev = pickPort(ports); dev == "" {
			return nil, msp.ErrNoDevice
		}
	}

	dd, err := msp.ParseDevice(dev, baud)
	if err != nil {
		return nil, err
	}
	lg.Info("using device", slog.String("device", dd.String()))

	link, err := msp.Open(dd)
	if err != nil {
		return nil, err
	}

	info, err := link.Identify()
	if err != nil {
		link.Close()
		return nil, fmt.Errorf("identify %s: %w", dd, err)
	}
	lg.Info("flight controller", slog.String("fc", info.String()))
	return link, nil
}

// pickPort prefers USB CDC and USB serial adapters over anything else listed.
func pickPort(ports []string) string {
	for _, prefix := range []string{"/dev/ttyACM", "/dev/ttyUSB", "/dev/cu.usbmodem", "COM"} {
		for _, p := range ports {
			if strings.HasPrefix(p, prefix) {
				return p
			}
		}
	}
	if len(ports) > 0 {
		return ports[0]
	}
	return ""
}

func plotTitle(p *tiltrotor.Params) string {
	return fmt.Sprintf("tilt %.2f/%.2f/%.2f  v_trans %.1f m/s",
		p.Tilt.MC, p.Tilt.Transition, p.Tilt.FW, p.TransitionAirspeed)
}
