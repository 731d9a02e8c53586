package msp

import (
	"encoding/binary"

	"github.com/BryanSouza91/TiltFC/output"
	"github.com/BryanSouza91/TiltFC/tiltrotor"
)

// Sender is the part of Link the Publisher needs.
type Sender interface {
	Send(cmd byte, payload []byte) error
}

// Publisher sends the tick's physical outputs as MSP_SET_MOTOR frames. The embedded
// Bank takes the motor-state commands of the transition logic, so a Publisher can be
// handed to the controller as its motor output.
type Publisher struct {
	*output.Bank
	link Sender
}

func NewPublisher(link Sender) *Publisher {
	return &Publisher{Bank: output.NewBank(), link: link}
}

// Publish sends one frame for the tick.
func (p *Publisher) Publish(out *tiltrotor.Output) error {
	return p.link.Send(MSPSetMotor, SerializeOutputs(p.Pulses(out)))
}

// SerializeOutputs encodes pulse widths as little-endian uint16s.
func SerializeOutputs(pw output.Pulses) []byte {
	buf := make([]byte, 2*len(pw))
	for i, v := range pw {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	return buf
}

// DeserializeOutputs decodes an MSP_MOTOR or MSP_SET_MOTOR payload.
func DeserializeOutputs(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out
}
