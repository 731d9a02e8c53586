// Package rx decodes RC receiver serial protocols (iBus, CRSF and ELRS) into channel
// pulse widths and maps them to the stick and switch values the flight code reads.
package rx

import (
	"sync"
	"time"
)

// MaxChannels is the largest channel count any supported protocol carries.
const MaxChannels = 18

// Pulse-width range of a channel in microseconds.
const (
	MinRxValue  = 988
	MidRxValue  = 1500
	MaxRxValue  = 2012
	HighRxValue = 1800 // switch threshold for arming and mode selection
	Deadband    = 20   // around MidRxValue
)

// Channels holds one frame of channel values in microseconds. Channels a protocol does
// not carry are zero.
type Channels [MaxChannels]uint16

// Stick maps channel i to [-1, 1] around the center with a deadband.
func (c *Channels) Stick(i int) float64 {
	v := int(c[i])
	if v == 0 {
		return 0
	}
	d := v - MidRxValue
	if d > -Deadband && d < Deadband {
		return 0
	}
	return clamp(float64(d)/float64(MaxRxValue-MidRxValue), -1, 1)
}

// Throttle maps channel i to [0, 1].
func (c *Channels) Throttle(i int) float64 {
	v := int(c[i])
	if v == 0 {
		return 0
	}
	return clamp(float64(v-MinRxValue)/float64(MaxRxValue-MinRxValue), 0, 1)
}

// Switch reports whether channel i is in its high position.
func (c *Channels) Switch(i int) bool {
	return c[i] > HighRxValue
}

// ArmRequested reports whether the arm switch is high while every inhibit switch is
// low.
func (c *Channels) ArmRequested(arm int, inhibit ...int) bool {
	if !c.Switch(arm) {
		return false
	}
	for _, i := range inhibit {
		if c.Switch(i) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Store is the latest decoded frame shared between the receiver goroutine and the
// control loop.
type Store struct {
	mu       sync.Mutex
	channels Channels
	last     time.Time
	// PacketReady is signalled, without blocking, whenever a frame is stored.
	PacketReady chan struct{}
}

func NewStore() *Store {
	return &Store{PacketReady: make(chan struct{}, 1)}
}

// Update stores a new frame received at now.
func (s *Store) Update(c Channels, now time.Time) {
	s.mu.Lock()
	s.channels = c
	s.last = now
	s.mu.Unlock()

	select {
	case s.PacketReady <- struct{}{}:
	default:
	}
}

// Get returns the latest frame and the time it was received.
func (s *Store) Get() (Channels, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels, s.last
}

// Lost reports whether no frame arrived within timeout of now.
func (s *Store) Lost(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.IsZero() || now.Sub(s.last) > timeout
}
