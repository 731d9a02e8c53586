package rx

// FlySky iBus. A frame is a length byte, the 0x40 command byte, little-endian
// channel values and a little-endian checksum of 0xFFFF minus the sum of every
// preceding byte. A length of 0x20 carries 14 channels, 0x28 carries 18 (FS-A8S).
const (
	ibusCommand   = 0x40
	ibusMinLength = 0x20
	ibusMaxLength = 2 + MaxChannels*2 + 2
)

type ibusState int

const (
	ibusWaitLength ibusState = iota
	ibusWaitCommand
	ibusReadPayload
)

// IBus is the iBus frame decoder.
type IBus struct {
	state    ibusState
	buf      [ibusMaxLength]byte
	n        int
	length   int
	channels Channels
}

func NewIBus() *IBus {
	return &IBus{}
}

func (d *IBus) Feed(b byte) (bool, error) {
	switch d.state {
	case ibusWaitLength:
		if int(b) >= ibusMinLength && int(b) <= ibusMaxLength && b%2 == 0 {
			d.buf[0] = b
			d.length = int(b)
			d.state = ibusWaitCommand
		}

	case ibusWaitCommand:
		if b != ibusCommand {
			// not a frame start, the byte may itself be a length
			d.state = ibusWaitLength
			return d.Feed(b)
		}
		d.buf[1] = b
		d.n = 2
		d.state = ibusReadPayload

	case ibusReadPayload:
		d.buf[d.n] = b
		d.n++
		if d.n < d.length {
			return false, nil
		}
		d.state = ibusWaitLength

		if ibusChecksum(d.buf[:d.length-2]) != uint16(d.buf[d.length-2])|uint16(d.buf[d.length-1])<<8 {
			return false, ErrChecksum
		}

		var ch Channels
		for i := 0; i < (d.length-4)/2; i++ {
			ch[i] = uint16(d.buf[2+2*i]) | uint16(d.buf[3+2*i])<<8
		}
		d.channels = ch
		return true, nil
	}
	return false, nil
}

func (d *IBus) Channels() Channels {
	return d.channels
}

func ibusChecksum(data []byte) uint16 {
	sum := uint16(0xFFFF)
	for _, b := range data {
		sum -= uint16(b)
	}
	return sum
}

// EncodeIBus builds a frame carrying the first n channels of c. It is the inverse of
// the decoder and is used by the simulator and tests.
func EncodeIBus(c Channels, n int) []byte {
	if n > MaxChannels {
		n = MaxChannels
	}
	length := 4 + 2*n
	frame := make([]byte, length)
	frame[0] = byte(length)
	frame[1] = ibusCommand
	for i := 0; i < n; i++ {
		frame[2+2*i] = byte(c[i])
		frame[3+2*i] = byte(c[i] >> 8)
	}
	sum := ibusChecksum(frame[:length-2])
	frame[length-2] = byte(sum)
	frame[length-1] = byte(sum >> 8)
	return frame
}
