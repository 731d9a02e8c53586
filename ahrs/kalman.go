package ahrs

// KalmanFilter is a 2-state Kalman filter.
// State vector X: [pitch, roll]
// Measurement vector Z: [pitch_accel, roll_accel]
type KalmanFilter struct {
	X *Matrix // (2x1) estimated state vector [pitch, roll]

	P *Matrix // (2x2) estimate error covariance
	Q *Matrix // (2x2) process noise covariance
	R *Matrix // (2x2) measurement noise covariance

	F *Matrix // (2x2) state transition matrix
	H *Matrix // (2x2) observation matrix
}

// NewKalmanFilter creates a filter that trusts the gyroscope (small Q) over the noisy
// accelerometer (larger R).
func NewKalmanFilter() *KalmanFilter {
	return &KalmanFilter{
		X: NewMatrix(2, 1),
		P: Identity(2),
		Q: Diag(0.01, 0.01),
		R: Diag(0.5, 0.5),
		F: Identity(2),
		H: Identity(2),
	}
}

// Pitch returns the estimated pitch in radians.
func (kf *KalmanFilter) Pitch() float64 { return kf.X.At(0, 0) }

// Roll returns the estimated roll in radians.
func (kf *KalmanFilter) Roll() float64 { return kf.X.At(1, 0) }

// Predict integrates the gyro rates over dt seconds and grows the covariance.
// The new pitch is the old pitch + gyroY*dt, the new roll the old roll + gyroX*dt.
func (kf *KalmanFilter) Predict(gyroX, gyroY, dt float64) {
	u := NewMatrix(2, 1)
	u.Set(0, 0, gyroY*dt)
	u.Set(1, 0, gyroX*dt)
	kf.X = kf.F.Multiply(kf.X).Add(u)

	// P = F * P * F^T + Q
	kf.P = kf.F.Multiply(kf.P).Multiply(kf.F.Transpose()).Add(kf.Q)
}

// Update corrects the state with an accelerometer attitude measurement.
func (kf *KalmanFilter) Update(accelPitch, accelRoll float64) error {
	z := NewMatrix(2, 1)
	z.Set(0, 0, accelPitch)
	z.Set(1, 0, accelRoll)

	// innovation y = z - H * x
	y := z.Subtract(kf.H.Multiply(kf.X))

	// S = H * P * H^T + R
	hT := kf.H.Transpose()
	s := kf.H.Multiply(kf.P).Multiply(hT).Add(kf.R)
	sInv, err := s.Inverse()
	if err != nil {
		return err
	}

	// K = P * H^T * S^-1
	k := kf.P.Multiply(hT).Multiply(sInv)

	kf.X = kf.X.Add(k.Multiply(y))
	kf.P = Identity(2).Subtract(k.Multiply(kf.H)).Multiply(kf.P)
	return nil
}
