package sim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// ErrScenario wraps every scenario parse error.
var ErrScenario = errors.New("sim: scenario")

// Command is a scenario action.
type Command int

const (
	CmdArm Command = iota
	CmdDisarm
	CmdTransitionFW
	CmdTransitionMC
	CmdFailsafeOn
	CmdFailsafeOff
	CmdAirspeedFail
	CmdAirspeedOK
	CmdGroundOn
	CmdGroundOff
	CmdWind
	CmdSignalLost
	CmdSignalOK
	CmdEnd
)

var commandNames = map[Command]string{
	CmdArm:          "arm",
	CmdDisarm:       "disarm",
	CmdTransitionFW: "transition fw",
	CmdTransitionMC: "transition mc",
	CmdFailsafeOn:   "failsafe on",
	CmdFailsafeOff:  "failsafe off",
	CmdAirspeedFail: "airspeed fail",
	CmdAirspeedOK:   "airspeed ok",
	CmdGroundOn:     "ground on",
	CmdGroundOff:    "ground off",
	CmdWind:         "wind",
	CmdSignalLost:   "signal lost",
	CmdSignalOK:     "signal ok",
	CmdEnd:          "end",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "unknown"
}

// Event is one timed scenario line.
type Event struct {
	At    time.Duration
	Cmd   Command
	Value float64 // wind speed for CmdWind
	Line  int
}

// Scenario is a time-ordered list of events.
type Scenario []Event

// End returns the time of the end event, or the last event time when there is none.
func (s Scenario) End() time.Duration {
	var last time.Duration
	for _, e := range s {
		if e.Cmd == CmdEnd {
			return e.At
		}
		last = max(last, e.At)
	}
	return last
}

// ParseScenario reads one event per line:
//
//	<time> <command> [argument]
//
// Time is a Go duration ("1.5s", "200ms"). Commands are arm, disarm, transition fw|mc,
// failsafe [on|off], airspeed fail|ok, ground on|off, wind <m/s>, signal lost|ok and
// end. Text after # is a comment. Events are returned sorted by time; events at the
// same time keep their file order.
func ParseScenario(r io.Reader) (Scenario, error) {
	var sc Scenario
	s := bufio.NewScanner(r)

	for lineNo := 1; s.Scan(); lineNo++ {
		words, err := shlex.Split(s.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrScenario, lineNo, err)
		}
		if len(words) == 0 {
			continue
		}

		ev, err := parseEvent(words)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrScenario, lineNo, err)
		}
		ev.Line = lineNo
		sc = append(sc, ev)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenario, err)
	}

	sort.SliceStable(sc, func(i, j int) bool { return sc[i].At < sc[j].At })
	return sc, nil
}

// ParseScenarioString is ParseScenario over a string.
func ParseScenarioString(s string) (Scenario, error) {
	return ParseScenario(strings.NewReader(s))
}

func parseEvent(words []string) (Event, error) {
	at, err := time.ParseDuration(words[0])
	if err != nil {
		return Event{}, err
	}
	if at < 0 {
		return Event{}, fmt.Errorf("negative time %v", at)
	}
	if len(words) < 2 {
		return Event{}, errors.New("missing command")
	}

	ev := Event{At: at}
	verb := strings.ToLower(words[1])
	arg := ""
	if len(words) > 2 {
		arg = strings.ToLower(words[2])
	}
	if len(words) > 3 {
		return Event{}, fmt.Errorf("too many arguments for %q", verb)
	}

	switch verb {
	case "arm":
		ev.Cmd = CmdArm
	case "disarm":
		ev.Cmd = CmdDisarm
	case "end":
		ev.Cmd = CmdEnd
	case "transition":
		switch arg {
		case "fw":
			ev.Cmd = CmdTransitionFW
		case "mc":
			ev.Cmd = CmdTransitionMC
		default:
			return Event{}, fmt.Errorf("transition wants fw or mc, got %q", arg)
		}
	case "failsafe":
		switch arg {
		case "", "on":
			ev.Cmd = CmdFailsafeOn
		case "off":
			ev.Cmd = CmdFailsafeOff
		default:
			return Event{}, fmt.Errorf("failsafe wants on or off, got %q", arg)
		}
	case "airspeed":
		switch arg {
		case "fail":
			ev.Cmd = CmdAirspeedFail
		case "ok":
			ev.Cmd = CmdAirspeedOK
		default:
			return Event{}, fmt.Errorf("airspeed wants fail or ok, got %q", arg)
		}
	case "ground":
		switch arg {
		case "on":
			ev.Cmd = CmdGroundOn
		case "off":
			ev.Cmd = CmdGroundOff
		default:
			return Event{}, fmt.Errorf("ground wants on or off, got %q", arg)
		}
	case "signal":
		switch arg {
		case "lost":
			ev.Cmd = CmdSignalLost
		case "ok":
			ev.Cmd = CmdSignalOK
		default:
			return Event{}, fmt.Errorf("signal wants lost or ok, got %q", arg)
		}
	case "wind":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Event{}, fmt.Errorf("wind speed: %v", err)
		}
		ev.Cmd = CmdWind
		ev.Value = v
	default:
		return Event{}, fmt.Errorf("unknown command %q", verb)
	}

	// argument-less commands must not carry one
	switch ev.Cmd {
	case CmdArm, CmdDisarm, CmdEnd:
		if arg != "" {
			return Event{}, fmt.Errorf("%s takes no argument", verb)
		}
	}
	return ev, nil
}

// RoundTrip is the stock scenario: arm, transition to fixed-wing and back.
const RoundTrip = `
0s    arm
1s    transition fw
20s   transition mc
30s   end
`
