package rx

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksum is returned when a complete frame fails its checksum.
	ErrChecksum = errors.New("rx: checksum mismatch")
	// ErrUnknownProtocol is returned by NewDecoder for an unsupported protocol.
	ErrUnknownProtocol = errors.New("rx: unknown protocol")
)

// Decoder is a byte-fed frame decoder.
type Decoder interface {
	// Feed consumes one byte. It reports true when the byte completed a valid RC
	// channels frame, and ErrChecksum when it completed a corrupt one.
	Feed(b byte) (bool, error)
	// Channels returns the channels of the last valid frame.
	Channels() Channels
}

// Protocol selects a receiver protocol.
type Protocol int

// Supported receiver protocols
const (
	ProtocolIBus Protocol = iota
	ProtocolCRSF
	ProtocolELRS
)

func (p Protocol) String() string {
	switch p {
	case ProtocolIBus:
		return "ibus"
	case ProtocolCRSF:
		return "crsf"
	case ProtocolELRS:
		return "elrs"
	}
	return "unknown"
}

// BaudRate returns the UART speed the protocol runs at.
func (p Protocol) BaudRate() uint32 {
	switch p {
	case ProtocolCRSF:
		return 416666
	case ProtocolELRS:
		return 420000
	}
	return 115200
}

// NewDecoder returns a decoder for the protocol.
func NewDecoder(p Protocol) (Decoder, error) {
	switch p {
	case ProtocolIBus:
		return NewIBus(), nil
	case ProtocolCRSF:
		return NewCRSF(), nil
	case ProtocolELRS:
		return NewELRS(), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownProtocol, int(p))
}

// ByteReader is the receiver UART.
type ByteReader interface {
	ReadByte() (byte, error)
}

// Poll drains r into d and reports whether at least one valid frame completed. Read
// errors end the poll; they mean no data is buffered.
func Poll(r ByteReader, d Decoder) (bool, error) {
	ready := false
	var lastErr error
	for {
		b, err := r.ReadByte()
		if err != nil {
			return ready, lastErr
		}
		ok, err := d.Feed(b)
		if err != nil {
			lastErr = err
		}
		ready = ready || ok
	}
}
