// Package sim closes the loop around the transition controller on the host: a
// point-mass airframe, a scripted pilot, stand-in attitude and speed controllers and a
// tick runner on a simulated monotonic clock.
package sim

import "math"

// Airframe is a point mass moving along its track. It is only as detailed as the
// transition logic needs: forward speed from the tilted rotor thrust and drag.
type Airframe struct {
	// ThrustAccel is the forward acceleration at full throttle with the rotors fully
	// tilted, in m/s^2.
	ThrustAccel float64
	// LinearDrag and QuadDrag are the drag coefficients (1/s and 1/m).
	LinearDrag float64
	QuadDrag   float64

	// Speed is the ground speed along the track in m/s. It never goes negative.
	Speed float64
	// Wind is the headwind component in m/s.
	Wind float64
	// Pitch is the body pitch in radians, following the attitude setpoint.
	Pitch float64
	Roll  float64
	Yaw   float64
}

// DefaultAirframe returns a small tiltrotor that reaches about 40 m/s at full throttle.
func DefaultAirframe() *Airframe {
	return &Airframe{
		ThrustAccel: 30,
		LinearDrag:  0.3,
		QuadDrag:    0.01,
	}
}

// Airspeed is the speed through the air.
func (a *Airframe) Airspeed() float64 {
	return a.Speed + a.Wind
}

// Step advances the airframe by dt seconds. rotorThrottle is the collective rotor
// throttle in [0, 1] and tilt the normalized rotor tilt.
func (a *Airframe) Step(rotorThrottle, tilt, dt float64) {
	if dt <= 0 {
		return
	}
	forward := a.ThrustAccel * clamp(rotorThrottle, 0, 1) * math.Sin(clamp(tilt, 0, 1)*math.Pi/2)
	air := a.Airspeed()
	drag := a.LinearDrag*air + a.QuadDrag*air*math.Abs(air)

	a.Speed = math.Max(0, a.Speed+(forward-drag)*dt)
}

// IMU returns the accelerometer and gyro reading for the current attitude. Rates are
// the attitude change over dt.
func (a *Airframe) IMU(prevRoll, prevPitch, prevYaw, dt float64) (ax, ay, az, gx, gy, gz float64) {
	const g = 9.81
	ax = -g * math.Sin(a.Pitch)
	ay = g * math.Cos(a.Pitch) * math.Sin(a.Roll)
	az = g * math.Cos(a.Pitch) * math.Cos(a.Roll)
	if dt > 0 {
		gx = (a.Roll - prevRoll) / dt
		gy = (a.Pitch - prevPitch) / dt
		gz = (a.Yaw - prevYaw) / dt
	}
	return ax, ay, az, gx, gy, gz
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
