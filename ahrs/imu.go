package ahrs

import "math"

// Sample is one IMU reading. Acceleration is in m/s^2 (any consistent unit works for the
// angle computation), angular rates in rad/s.
type Sample struct {
	AccelX, AccelY, AccelZ float64
	GyroX, GyroY, GyroZ    float64
}

// PitchAccel calculates the pitch angle in radians from accelerometer data.
func (s Sample) PitchAccel() float64 {
	return math.Atan2(-s.AccelX, math.Sqrt(s.AccelY*s.AccelY+s.AccelZ*s.AccelZ))
}

// RollAccel calculates the roll angle in radians from accelerometer data.
func (s Sample) RollAccel() float64 {
	return math.Atan2(s.AccelY, s.AccelZ)
}

// Valid reports whether every field is a finite number.
func (s Sample) Valid() bool {
	for _, v := range [...]float64{s.AccelX, s.AccelY, s.AccelZ, s.GyroX, s.GyroY, s.GyroZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
