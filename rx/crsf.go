package rx

// CRSF (Crossfire) protocol, also used by ExpressLRS for the RC link.
const (
	// CRSFAddressFlightController is the sync byte of frames addressed to the flight
	// controller.
	CRSFAddressFlightController = 0xC8
	CRSFFrameTypeRCChannels     = 0x16

	// sync + length + type + 22 payload bytes + crc
	CRSFRCPacketSize  = 26
	crsfRCPayloadSize = 22
	crsfNumChannels   = 16
	crsfMaxFrameSize  = 64

	CRSFChannelValueMin = 172  // 987us
	CRSFChannelValueMid = 992  // 1500us
	CRSFChannelValueMax = 1811 // 2012us
)

type crsfState int

const (
	crsfWaitSync crsfState = iota
	crsfWaitLength
	crsfReadFrame
)

// CRSF is the CRSF frame decoder.
type CRSF struct {
	state    crsfState
	buf      [crsfMaxFrameSize]byte
	n        int
	length   int
	channels Channels
}

func NewCRSF() *CRSF {
	return &CRSF{}
}

func (d *CRSF) Feed(b byte) (bool, error) {
	switch d.state {
	case crsfWaitSync:
		if b == CRSFAddressFlightController {
			d.buf[0] = b
			d.state = crsfWaitLength
		}

	case crsfWaitLength:
		// the length counts type, payload and crc
		if b < 2 || int(b) > crsfMaxFrameSize-2 {
			d.state = crsfWaitSync
			return false, nil
		}
		d.buf[1] = b
		d.length = int(b)
		d.n = 2
		d.state = crsfReadFrame

	case crsfReadFrame:
		d.buf[d.n] = b
		d.n++
		if d.n < d.length+2 {
			return false, nil
		}
		d.state = crsfWaitSync

		end := d.n - 1
		if CRC8(d.buf[2:end]) != d.buf[end] {
			return false, ErrChecksum
		}
		if d.buf[2] != CRSFFrameTypeRCChannels || d.length != crsfRCPayloadSize+2 {
			// valid frame we do not decode (telemetry, link statistics, ...)
			return false, nil
		}
		d.channels = unpackCRSFChannels(d.buf[3:end])
		return true, nil
	}
	return false, nil
}

func (d *CRSF) Channels() Channels {
	return d.channels
}

// unpackCRSFChannels unpacks the 11-bit channel values of an RC channels payload,
// following the Betaflight bit-packing logic, and converts them to microseconds.
func unpackCRSFChannels(bitstream []byte) Channels {
	var ch Channels
	var bitsMerged uint
	var readValue uint32
	var readByteIndex int

	for n := 0; n < crsfNumChannels; n++ {
		for bitsMerged < 11 {
			if readByteIndex >= len(bitstream) {
				return ch
			}
			readValue |= uint32(bitstream[readByteIndex]) << bitsMerged
			readByteIndex++
			bitsMerged += 8
		}
		ch[n] = CRSFToMicroseconds(uint16(readValue & 0x07FF))
		readValue >>= 11
		bitsMerged -= 11
	}
	return ch
}

// CRSFToMicroseconds converts a raw 11-bit CRSF channel value to a pulse width.
func CRSFToMicroseconds(v uint16) uint16 {
	return uint16(MidRxValue + (int(v)-CRSFChannelValueMid)*5/8)
}

// CRC8 computes the CRSF CRC8 (DVB-S2, polynomial 0xD5).
func CRC8(data []byte) byte {
	crc := byte(0x00)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0xD5
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
