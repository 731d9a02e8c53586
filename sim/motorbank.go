package sim

import "github.com/BryanSouza91/TiltFC/tiltrotor"

// MotorBank records the motor-state commands of the transition logic and forwards
// them to Next when set.
type MotorBank struct {
	All       tiltrotor.MotorState
	Main      tiltrotor.MotorState
	MainValue int
	IdleMC    bool
	IdleReqs  int

	Next tiltrotor.MotorOutput
}

func NewMotorBank() *MotorBank {
	return &MotorBank{All: tiltrotor.MotorEnabled, Main: tiltrotor.MotorEnabled}
}

func (m *MotorBank) SetAllMotorState(state tiltrotor.MotorState) {
	m.All = state
	m.Main = state
	if m.Next != nil {
		m.Next.SetAllMotorState(state)
	}
}

func (m *MotorBank) SetMainMotorState(state tiltrotor.MotorState, value int) {
	m.Main = state
	m.MainValue = value
	if m.Next != nil {
		m.Next.SetMainMotorState(state, value)
	}
}

func (m *MotorBank) SetIdleMC() bool {
	m.IdleReqs++
	ok := true
	if m.Next != nil {
		ok = m.Next.SetIdleMC()
	}
	m.IdleMC = m.IdleMC || ok
	return ok
}
