// Package ahrs estimates the vehicle attitude from IMU samples: a Kalman filter for
// pitch and roll over the accelerometer and gyroscope, and integrated yaw rate.
package ahrs

import (
	"math"

	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// Estimator turns IMU samples into the attitude quaternion read by the controller.
type Estimator struct {
	kf  *KalmanFilter
	yaw float64
}

func NewEstimator() *Estimator {
	return &Estimator{kf: NewKalmanFilter()}
}

// Update feeds one sample taken dt seconds after the previous one. Invalid samples
// are skipped and the last estimate is returned.
func (e *Estimator) Update(s Sample, dt float64) tiltrotor.Quaternion {
	if !s.Valid() || dt <= 0 {
		return e.Attitude()
	}

	e.kf.Predict(s.GyroX, s.GyroY, dt)
	if err := e.kf.Update(s.PitchAccel(), s.RollAccel()); err != nil {
		// covariance collapsed, start over from the measurement
		e.Reset()
		e.kf.X.Set(0, 0, s.PitchAccel())
		e.kf.X.Set(1, 0, s.RollAccel())
	}

	e.yaw = math.Remainder(e.yaw+s.GyroZ*dt, 2*math.Pi)
	return e.Attitude()
}

// Attitude returns the current estimate.
func (e *Estimator) Attitude() tiltrotor.Quaternion {
	return tiltrotor.QuaternionFromEuler(e.kf.Roll(), e.kf.Pitch(), e.yaw)
}

// Euler returns roll, pitch and yaw in radians.
func (e *Estimator) Euler() (roll, pitch, yaw float64) {
	return e.kf.Roll(), e.kf.Pitch(), e.yaw
}

// Reset discards the estimate.
func (e *Estimator) Reset() {
	e.kf = NewKalmanFilter()
	e.yaw = 0
}
