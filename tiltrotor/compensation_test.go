package tiltrotor

import (
	"math"
	"testing"
)

func TestCompensateThrust(t *testing.T) {
	tests := []struct {
		name    string
		tilt    float64
		thrustZ float64
		want    float64
	}{
		{"upright", 0, -0.5, -0.5},
		{"upright_clamps_positive", 0, 0.3, 0},
		{"upright_clamps_negative", 0, -1.4, -1},
		{"quarter", 0.5, -0.5, -0.5 / math.Cos(math.Pi/4)},
		{"saturates_tilt", 0.9, -0.5, -0.5 / math.Cos(math.Pi/4)},
		{"negative_tilt_is_upright", -0.2, -0.5, -0.5},
		{"saturates_thrust", 0.5, -0.8, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompensateThrust(tt.tilt, tt.thrustZ)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CompensateThrust(%v, %v) = %v, want %v", tt.tilt, tt.thrustZ, got, tt.want)
			}
		})
	}
}

func TestCompensateThrustRange(t *testing.T) {
	for tilt := -0.5; tilt <= 1.5; tilt += 0.05 {
		for tz := -2.0; tz <= 2.0; tz += 0.1 {
			got := CompensateThrust(tilt, tz)
			if got < -1 || got > 0 {
				t.Fatalf("CompensateThrust(%v, %v) = %v, out of [-1, 0]", tilt, tz, got)
			}
		}
	}
}
