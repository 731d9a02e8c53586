package tiltrotor

import "math"

// maxCompensatedTilt caps the tilt used for compensation to half of full tilt.
const maxCompensatedTilt = 0.5

// CompensateThrust increases the combined vertical thrust of the multicopter rotors when
// they are tilted, assuming all rotors are tilted equally: thrustZ / cos(tilt * pi/2),
// limited to [-1, 0].
func CompensateThrust(tilt, thrustZ float64) float64 {
	compensatedTilt := Constrain(tilt, 0, maxCompensatedTilt)
	return Constrain(thrustZ/math.Cos(compensatedTilt*math.Pi/2), -1, 0)
}
