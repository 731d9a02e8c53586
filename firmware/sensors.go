//go:build tinygo

package main

import (
	"machine"
	"math"

	"tinygo.org/x/drivers/lsm6ds3tr"

	"github.com/BryanSouza91/TiltFC/ahrs"
)

// The LSM6DS3TR driver returns values in micro-g for accel and micro-dps for gyro.
// Convert to m/s^2 and rad/s respectively.
const (
	microGToMS2    = 9.80665 / 1e6
	microDPSToRadS = math.Pi / (180 * 1e6)
)

var (
	lsm *lsm6ds3tr.Device

	gyroBiasX, gyroBiasY, gyroBiasZ float64
)

func setupIMU() error {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return err
	}

	lsm = lsm6ds3tr.New(i2c)
	err := lsm.Configure(lsm6ds3tr.Configuration{
		AccelRange:      lsm6ds3tr.ACCEL_8G,
		AccelSampleRate: lsm6ds3tr.ACCEL_SR_104,
		GyroRange:       lsm6ds3tr.GYRO_1000DPS,
		GyroSampleRate:  lsm6ds3tr.GYRO_SR_104,
	})
	if err != nil {
		return err
	}
	if !lsm.Connected() {
		return errIMUNotConnected
	}
	return nil
}

// readIMU reads one bias-corrected sample in m/s^2 and rad/s.
func readIMU() (ahrs.Sample, error) {
	ax, ay, az, err := lsm.ReadAcceleration()
	if err != nil {
		return ahrs.Sample{}, err
	}
	gx, gy, gz, err := lsm.ReadRotation()
	if err != nil {
		return ahrs.Sample{}, err
	}

	return ahrs.Sample{
		AccelX: float64(ax) * microGToMS2,
		AccelY: float64(ay) * microGToMS2,
		AccelZ: float64(az) * microGToMS2,
		GyroX:  float64(gx)*microDPSToRadS - gyroBiasX,
		GyroY:  float64(gy)*microDPSToRadS - gyroBiasY,
		GyroZ:  float64(gz)*microDPSToRadS - gyroBiasZ,
	}, nil
}

// calibrateGyro averages gyro readings to determine the bias offsets.
// The aircraft must be stationary.
func calibrateGyro() {
	const sampleSize = 1000
	var sumX, sumY, sumZ float64
	n := 0

	for i := 0; i < sampleSize; i++ {
		gx, gy, gz, err := lsm.ReadRotation()
		if err != nil {
			println("Error reading gyro during calibration:", err.Error())
			continue
		}
		sumX += float64(gx) * microDPSToRadS
		sumY += float64(gy) * microDPSToRadS
		sumZ += float64(gz) * microDPSToRadS
		n++
	}
	if n == 0 {
		println("Calibration failed: no gyro readings")
		return
	}

	gyroBiasX = sumX / float64(n)
	gyroBiasY = sumY / float64(n)
	gyroBiasZ = sumZ / float64(n)
	println("Gyro calibration complete. Bias X:", gyroBiasX, "Bias Y:", gyroBiasY, "Bias Z:", gyroBiasZ)
}
