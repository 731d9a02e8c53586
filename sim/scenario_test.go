package sim

import (
	"errors"
	"testing"
	"time"
)

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenarioString(`
# warm up
0s      arm
12s     transition mc      # back home
1.5s    transition fw
2s      airspeed fail
3s      wind -2.5
4s      failsafe
5s      "ground" on
30s     end
`)
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		at  time.Duration
		cmd Command
	}{
		{0, CmdArm},
		{1500 * time.Millisecond, CmdTransitionFW},
		{2 * time.Second, CmdAirspeedFail},
		{3 * time.Second, CmdWind},
		{4 * time.Second, CmdFailsafeOn},
		{5 * time.Second, CmdGroundOn},
		{12 * time.Second, CmdTransitionMC},
		{30 * time.Second, CmdEnd},
	}
	if len(sc) != len(want) {
		t.Fatalf("events = %d, want %d: %+v", len(sc), len(want), sc)
	}
	for i, w := range want {
		if sc[i].At != w.at || sc[i].Cmd != w.cmd {
			t.Errorf("event %d = %v %v, want %v %v", i, sc[i].At, sc[i].Cmd, w.at, w.cmd)
		}
	}
	if sc[3].Value != -2.5 {
		t.Errorf("wind = %v, want -2.5", sc[3].Value)
	}
	if sc[6].Line != 4 {
		t.Errorf("line = %d, want 4", sc[6].Line)
	}
	if sc.End() != 30*time.Second {
		t.Errorf("End = %v, want 30s", sc.End())
	}
}

func TestParseScenarioErrors(t *testing.T) {
	for _, bad := range []string{
		"soon arm",
		"1s",
		"1s fly",
		"1s transition up",
		"1s arm now",
		"1s wind strong",
		"-1s arm",
		"1s airspeed",
		`1s transition "fw`,
	} {
		if _, err := ParseScenarioString(bad); !errors.Is(err, ErrScenario) {
			t.Errorf("ParseScenarioString(%q) err = %v, want ErrScenario", bad, err)
		}
	}
}

func TestScenarioEndWithoutEndEvent(t *testing.T) {
	sc, err := ParseScenarioString("0s arm\n4s transition fw\n")
	if err != nil {
		t.Fatal(err)
	}
	if sc.End() != 4*time.Second {
		t.Errorf("End = %v, want 4s", sc.End())
	}
}
