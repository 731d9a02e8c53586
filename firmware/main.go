//go:build tinygo

package main

import (
	"errors"
	"machine"
	"time"

	"github.com/BryanSouza91/TiltFC/ahrs"
	"github.com/BryanSouza91/TiltFC/output"
	"github.com/BryanSouza91/TiltFC/rx"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// State machine states
const (
	INITIALIZATION flightState = iota
	WAITING
	CALIBRATING
	FLIGHT_MODE
	FAILSAFE
)

type flightState int

var errIMUNotConnected = errors.New("LSM6DS3TR not connected")

var (
	watchdog = machine.Watchdog

	status     *ledState
	estimator  *ahrs.Estimator
	stab       *stabilizer
	motors     *output.Bank
	controller *tiltrotor.Controller

	lastFlightState flightState
	boot            time.Time
	lastTick        time.Time
	lastMode        tiltrotor.Mode
)

// Main program loop
func main() {
	time.Sleep(2 * time.Second)
	println("TiltFC - Version", Version)
	println("A TinyGo transition controller for tilt-rotor VTOL aircraft")

	// Set up a ticker for consistent loop timing
	ticker := time.NewTicker(loopInterval)
	defer ticker.Stop()

	flightState := INITIALIZATION
	println("Entering INITIALIZATION state...")
	for {
		// Maintain a consistent loop timing
		<-ticker.C
		now := time.Now()

		if flightState != INITIALIZATION {
			pollReceiver(now)
		}
		ch, _ := rcStore.Get()
		rcLost := rcStore.Lost(now, failsafeTimeout)

		// Check for failsafe condition before the main state machine
		if rcLost && flightState == FLIGHT_MODE {
			println("RC signal lost. Entering FAILSAFE state...")
			lastFlightState = flightState
			flightState = FAILSAFE
		}

		switch flightState {
		case INITIALIZATION:
			if err := initialize(); err != nil {
				println("Initialization failed:", err.Error())
				time.Sleep(time.Second)
				break
			}
			println("Initialization complete. Entering WAITING state...")

			// Configuring Watchdog Timer
			watchdog.Configure(machine.WatchdogConfig{
				TimeoutMillis: 500,
			})
			watchdog.Start()

			lastFlightState = flightState
			flightState = WAITING

		case WAITING:
			status.setState(LED_SLOWFLASH)
			motors.Disarm()
			writeOutputs(output.Safe())

			// keep the controller ticking disarmed so the spin-up latch is armed; the
			// schedule stays in MC until armed
			tick(now, &ch, false, false)

			// After a failsafe wait for disarm before allowing re-arming
			if lastFlightState == FAILSAFE {
				if ch.Switch(chArm) {
					break
				}
				lastFlightState = flightState
			}

			if rcLost {
				break
			}

			// Check if pilot is calibrating the system
			if ch.Switch(chCalibrate) {
				lastFlightState = flightState
				flightState = CALIBRATING
				break
			}

			// Check if the system is armed. Arming is refused while the transition
			// switch asks for fixed-wing.
			if ch.ArmRequested(chArm, chTransition) {
				println("Armed. Entering FLIGHT_MODE state...")
				stab.reset()
				motors.Arm()
				lastFlightState = flightState
				flightState = FLIGHT_MODE
			}

		case CALIBRATING:
			status.setState(LED_FASTFLASH)
			writeOutputs(output.Safe())

			// Pause to let airframe settle
			time.Sleep(100 * time.Millisecond)
			println("Calibrating Gyro... Keep gyro still!")
			watchdog.Update()
			calibrateGyro()
			estimator.Reset()

			lastFlightState = flightState
			flightState = WAITING

		case FLIGHT_MODE:
			// Check if the system is disarmed
			if !ch.Switch(chArm) {
				println("Disarmed. Entering WAITING state...")
				lastFlightState = flightState
				flightState = WAITING
				break
			}

			out := tick(now, &ch, true, false)
			writeOutputs(motors.Pulses(&out))

			if out.Schedule.Phase.Transitional() {
				status.setState(LED_DOUBLEBLINK)
			} else {
				status.setState(LED_ON)
			}

		case FAILSAFE:
			status.setState(LED_FLASH)

			// Hold hover with the sticks centered and descend slowly. The transition
			// failsafe forces multicopter flight whatever the transition switch says.
			var hold rx.Channels
			for i := range hold {
				hold[i] = rx.MidRxValue
			}
			hold[chThrottle] = failsafeThrottle
			hold[chTransition] = ch[chTransition]
			out := tick(now, &hold, true, true)
			writeOutputs(motors.Pulses(&out))

			// Remain in FAILSAFE until signal is regained
			if !rcLost {
				println("RC signal regained. Entering WAITING state...")
				lastFlightState = flightState
				flightState = WAITING
			}

		default:
			flightState = WAITING // Fallback to a safe state
		}

		if status != nil {
			status.update(now)
		}

		// Keep the watchdog happy
		watchdog.Update()
	}
}

// initialize sets up the hardware, the attitude estimator and the controller.
func initialize() error {
	status = newLEDState(LED_PIN)
	status.setState(LED_ON)

	if err := setupReceiver(); err != nil {
		return err
	}
	println("UART configured for", activeProtocol.String(), "receiver input.")

	if err := setupOutputs(); err != nil {
		return err
	}
	writeOutputs(output.Safe())
	println("PWM configured for ESCs, elevons and tilt servo.")

	if err := setupIMU(); err != nil {
		return err
	}
	println("LSM6DS3TR initialized.")

	params := tiltrotor.DefaultParams()
	// no airspeed sensor or position estimate on this board: the front transition runs
	// on the open-loop schedule and the back-transition on its timeout
	params.AirspeedDisabled = true

	estimator = ahrs.NewEstimator()
	stab = newStabilizer()
	motors = output.NewBank()
	controller = tiltrotor.New(params, tiltrotor.DefaultBase{}, motors)
	controller.OnPhaseChange = func(from, to tiltrotor.Phase, _ time.Duration, elapsed float64) {
		println("Phase", from.String(), "->", to.String(), "after", elapsed, "s")
	}

	// Small delay to allow ESCs to initialize
	time.Sleep(2 * time.Second)

	boot = time.Now()
	lastTick = boot
	return nil
}

// tick reads the IMU, runs the stabilizer and one controller update.
func tick(now time.Time, ch *rx.Channels, armed, failsafe bool) tiltrotor.Output {
	dt := now.Sub(lastTick).Seconds()
	lastTick = now

	s, err := readIMU()
	if err != nil {
		println("Error reading IMU:", err.Error())
	}
	q := estimator.Update(s, dt)
	roll, pitch, _ := estimator.Euler()

	in := tiltrotor.Inputs{
		Now:                now.Sub(boot),
		Failsafe:           failsafe,
		FixedWingRequested: armed && ch.Switch(chTransition),
		Armed:              armed,
		Attitude:           q,
	}
	stab.fill(&in, ch, lastMode, roll, pitch, s.GyroZ, dt)

	out := controller.Update(in)
	lastMode = out.Mode
	return out
}
