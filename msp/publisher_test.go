package msp

import (
	"errors"
	"testing"

	"github.com/BryanSouza91/TiltFC/output"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

type sent struct {
	cmd     byte
	payload []byte
}

type recordingSender struct {
	frames []sent
	err    error
}

func (r *recordingSender) Send(cmd byte, payload []byte) error {
	r.frames = append(r.frames, sent{cmd, payload})
	return r.err
}

func hover(throttle, tilt float64) *tiltrotor.Output {
	out := &tiltrotor.Output{}
	out.MC.Control[tiltrotor.IndexThrottle] = throttle
	out.FW.Control[tiltrotor.IndexTilt] = tilt
	return out
}

func TestPublisherHover(t *testing.T) {
	r := &recordingSender{}
	p := NewPublisher(r)

	if err := p.Publish(hover(0.5, 0)); err != nil {
		t.Fatal(err)
	}
	if len(r.frames) != 1 || r.frames[0].cmd != MSPSetMotor {
		t.Fatalf("frames = %+v, want one MSP_SET_MOTOR", r.frames)
	}

	got := DeserializeOutputs(r.frames[0].payload)
	want := []uint16{1500, 1500, 1500, 1500, 1000, 1500, 1500, 1000}
	if len(got) != len(want) {
		t.Fatalf("outputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("output %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPublisherMotorStates(t *testing.T) {
	r := &recordingSender{}
	var p tiltrotor.MotorOutput = NewPublisher(r)

	p.SetMainMotorState(tiltrotor.MotorValue, 750)
	if err := p.(*Publisher).Publish(hover(0.8, 0.5)); err != nil {
		t.Fatal(err)
	}

	got := DeserializeOutputs(r.frames[0].payload)
	if got[output.FrontLeft] != 1800 || got[output.RearLeft] != output.PulseMin {
		t.Errorf("ramp-down outputs = %v", got)
	}
}

func TestPublisherSendError(t *testing.T) {
	boom := errors.New("write failed")
	p := NewPublisher(&recordingSender{err: boom})
	if err := p.Publish(hover(0, 0)); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
