package rx

import (
	"errors"
	"testing"
)

// an RC channels frame with every channel centered
var centeredFrame = []byte{
	0xc8, 0x18, 0x16, 0xe0, 0x03, 0x1f, 0xf8, 0xc0, 0x07, 0x3e, 0xf0, 0x81, 0x0f, 0x7c,
	0xe0, 0x03, 0x1f, 0xf8, 0xc0, 0x07, 0x3e, 0xf0, 0x81, 0x0f, 0x7c, 0xad,
}

func feedAll(t *testing.T, d Decoder, data []byte) (frames int, errs []error) {
	t.Helper()
	for _, b := range data {
		ok, err := d.Feed(b)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			frames++
		}
	}
	return frames, errs
}

func TestCRSFDecodesCenteredFrame(t *testing.T) {
	d := NewCRSF()

	frames, errs := feedAll(t, d, centeredFrame)
	if frames != 1 || len(errs) != 0 {
		t.Fatalf("frames = %d errs = %v, want 1 frame", frames, errs)
	}

	ch := d.Channels()
	for i := 0; i < crsfNumChannels; i++ {
		if ch[i] != MidRxValue {
			t.Errorf("CH%d = %d, want %d", i+1, ch[i], MidRxValue)
		}
	}
	if ch[16] != 0 || ch[17] != 0 {
		t.Errorf("channels beyond 16 = %d %d, want 0", ch[16], ch[17])
	}
}

func TestCRSFResyncsAfterGarbage(t *testing.T) {
	d := NewCRSF()
	data := append([]byte{0x00, 0x42, 0xc8, 0x00}, centeredFrame...)

	frames, errs := feedAll(t, d, data)
	if frames != 1 || len(errs) != 0 {
		t.Errorf("frames = %d errs = %v, want 1 frame", frames, errs)
	}
}

func TestCRSFChecksumMismatch(t *testing.T) {
	d := NewCRSF()
	bad := append([]byte(nil), centeredFrame...)
	bad[len(bad)-1] ^= 0xff

	frames, errs := feedAll(t, d, bad)
	if frames != 0 || len(errs) != 1 || !errors.Is(errs[0], ErrChecksum) {
		t.Fatalf("frames = %d errs = %v, want one ErrChecksum", frames, errs)
	}

	// the next good frame still decodes
	if frames, _ := feedAll(t, d, centeredFrame); frames != 1 {
		t.Errorf("frames after corrupt frame = %d, want 1", frames)
	}
}

func TestCRSFIgnoresOtherFrameTypes(t *testing.T) {
	// link statistics frame, 10 byte payload
	frame := []byte{0xc8, 12, 0x14, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	frame = append(frame, CRC8(frame[2:]))

	d := NewCRSF()
	frames, errs := feedAll(t, d, frame)
	if frames != 0 || len(errs) != 0 {
		t.Errorf("frames = %d errs = %v, want none", frames, errs)
	}
}

func TestCRSFToMicroseconds(t *testing.T) {
	tests := []struct {
		raw  uint16
		want uint16
	}{
		{CRSFChannelValueMin, 988},
		{CRSFChannelValueMid, 1500},
		{CRSFChannelValueMax, 2011},
	}
	for _, tt := range tests {
		if got := CRSFToMicroseconds(tt.raw); got != tt.want {
			t.Errorf("CRSFToMicroseconds(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestELRSUsesCRSFFraming(t *testing.T) {
	d, err := NewDecoder(ProtocolELRS)
	if err != nil {
		t.Fatal(err)
	}
	if frames, _ := feedAll(t, d, centeredFrame); frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}
