package pid

import (
	"math"
	"testing"
)

func TestUpdate(t *testing.T) {
	tests := []struct {
		name       string
		kp, ki, kd float64
		errors     []float64
		dt         float64
		want       float64
	}{
		{"proportional", 2, 0, 0, []float64{0.5}, 0.1, 1},
		{"integral", 0, 1, 0, []float64{1, 1, 1}, 0.5, 1.5},
		{"derivative_first_sample", 0, 0, 1, []float64{1}, 0.1, 0},
		{"derivative", 0, 0, 1, []float64{1, 2}, 0.5, 2},
		{"zero_dt", 1, 1, 1, []float64{3}, 0, 3},
		{"nan_error", 1, 1, 1, []float64{math.NaN()}, 0.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.kp, tt.ki, tt.kd)
			var got float64
			for _, e := range tt.errors {
				got = c.Update(e, tt.dt)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Update = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLimitsAndAntiWindup(t *testing.T) {
	c := New(1, 1, 0).WithLimits(-1, 1)

	for i := 0; i < 100; i++ {
		if got := c.Update(5, 0.1); got != 1 {
			t.Fatalf("saturated output = %v, want 1", got)
		}
	}
	if c.integral != 0 {
		t.Errorf("integral wound up to %v while saturated", c.integral)
	}

	// the output leaves saturation as soon as the error changes sign
	if got := c.Update(-0.5, 0.1); got >= 0 {
		t.Errorf("output = %v, want negative", got)
	}
}

func TestReset(t *testing.T) {
	c := New(0, 1, 1)
	c.Update(1, 1)
	c.Update(2, 1)

	c.Reset()
	if got := c.Update(1, 1); got != 1 {
		t.Errorf("Update after Reset = %v, want 1", got)
	}
}
