// Package msp speaks MultiWii Serial Protocol v1 to a bench flight controller so the
// transition outputs can be exercised on real ESCs and servos (hardware-in-the-loop).
package msp

import (
	"errors"
	"fmt"
)

// Message IDs
const (
	MSPAPIVersion = 1
	MSPFCVariant  = 2
	MSPFCVersion  = 3
	MSPBoardInfo  = 4
	MSPBuildInfo  = 5
	MSPName       = 10
	MSPMotor      = 104
	MSPRC         = 105
	MSPSetRawRC   = 200
	MSPSetMotor   = 214
)

const maxPayload = 255

var (
	// ErrChecksum is returned for a frame whose XOR checksum does not match.
	ErrChecksum = errors.New("msp: checksum mismatch")
	// ErrRejected is returned when the flight controller answers with '!'.
	ErrRejected = errors.New("msp: command rejected")
	// ErrPayloadTooLong is returned by Encode for payloads over 255 bytes.
	ErrPayloadTooLong = errors.New("msp: payload too long")
)

const (
	dirRequest  = '<'
	dirResponse = '>'
	dirError    = '!'
)

// Frame is one decoded MSP message.
type Frame struct {
	Cmd     byte
	Payload []byte
}

// Encode builds a request frame: "$M<", length, command, payload and the XOR of
// length, command and payload.
func Encode(cmd byte, payload []byte) ([]byte, error) {
	return encode(dirRequest, cmd, payload)
}

// EncodeResponse builds a response frame as a flight controller sends it.
func EncodeResponse(cmd byte, payload []byte) ([]byte, error) {
	return encode(dirResponse, cmd, payload)
}

func encode(dir byte, cmd byte, payload []byte) ([]byte, error) {
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLong, len(payload))
	}
	paylen := byte(len(payload))

	buf := make([]byte, 6+len(payload))
	buf[0] = '$'
	buf[1] = 'M'
	buf[2] = dir
	buf[3] = paylen
	buf[4] = cmd
	copy(buf[5:], payload)

	crc := byte(0)
	for _, b := range buf[3 : 5+len(payload)] {
		crc ^= b
	}
	buf[5+len(payload)] = crc
	return buf, nil
}

type decodeState int

const (
	stateInit decodeState = iota
	stateM
	stateDirection
	stateLength
	stateCmd
	stateData
	stateCRC
)

// Decoder is the byte-fed MSP frame state machine.
type Decoder struct {
	state    decodeState
	rejected bool
	length   byte
	count    byte
	crc      byte
	cmd      byte
	buf      []byte
}

// Feed consumes one byte. It returns the frame and true once a frame completes. A
// corrupt frame completes with ErrChecksum, a rejected one with ErrRejected.
func (d *Decoder) Feed(b byte) (Frame, bool, error) {
	switch d.state {
	case stateInit:
		if b == '$' {
			d.state = stateM
		}
	case stateM:
		if b == 'M' {
			d.state = stateDirection
		} else {
			d.state = stateInit
		}
	case stateDirection:
		switch b {
		case dirResponse, dirRequest:
			d.rejected = false
			d.state = stateLength
		case dirError:
			d.rejected = true
			d.state = stateLength
		default:
			d.state = stateInit
		}
	case stateLength:
		d.length = b
		d.count = 0
		d.buf = make([]byte, b)
		d.crc = b
		d.state = stateCmd
	case stateCmd:
		d.cmd = b
		d.crc ^= b
		if d.length == 0 {
			d.state = stateCRC
		} else {
			d.state = stateData
		}
	case stateData:
		d.buf[d.count] = b
		d.crc ^= b
		d.count++
		if d.count == d.length {
			d.state = stateCRC
		}
	case stateCRC:
		d.state = stateInit
		f := Frame{Cmd: d.cmd, Payload: d.buf}
		if d.crc != b {
			return f, true, ErrChecksum
		}
		if d.rejected {
			return f, true, fmt.Errorf("%w: command %d", ErrRejected, d.cmd)
		}
		return f, true, nil
	}
	return Frame{}, false, nil
}
