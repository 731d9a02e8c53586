package msp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/tarm/serial"
)

// DevClass is the transport class of a device.
type DevClass int

const (
	DevClassNone DevClass = iota
	DevClassSerial
	DevClassTCP
	DevClassUDP
)

// ErrNoDevice is returned for an empty device description.
var ErrNoDevice = errors.New("msp: no device given")

// DefaultBaud is used for serial devices without an explicit rate.
const DefaultBaud = 115200

// Device describes where the flight controller is reachable.
type Device struct {
	Class DevClass
	Name  string
	// Param is the baud rate for serial devices and the port for network devices.
	Param int
}

func (d Device) String() string {
	switch d.Class {
	case DevClassSerial:
		return fmt.Sprintf("%s@%d", d.Name, d.Param)
	case DevClassTCP:
		return fmt.Sprintf("tcp://%s:%d", d.Name, d.Param)
	case DevClassUDP:
		return fmt.Sprintf("udp://%s:%d", d.Name, d.Param)
	}
	return "none"
}

// ParseDevice parses "/dev/ttyACM0", "/dev/ttyACM0@230400", "tcp://host:port" or
// "udp://host:port".
func ParseDevice(s string, baud int) (Device, error) {
	if s == "" {
		return Device{}, ErrNoDevice
	}

	u, err := url.Parse(s)
	if err != nil {
		return Device{}, fmt.Errorf("msp: parse device %q: %w", s, err)
	}

	switch u.Scheme {
	case "":
		dd := Device{Class: DevClassSerial, Param: baud}
		name, rate, found := strings.Cut(u.Path, "@")
		dd.Name = name
		if found {
			if dd.Param, err = strconv.Atoi(rate); err != nil {
				return Device{}, fmt.Errorf("msp: baud rate %q: %w", rate, err)
			}
		}
		if dd.Param == 0 {
			dd.Param = DefaultBaud
		}
		return dd, nil

	case "tcp", "udp":
		host, port, err := net.SplitHostPort(u.Host)
		if err != nil {
			return Device{}, fmt.Errorf("msp: device %q: %w", s, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return Device{}, fmt.Errorf("msp: port %q: %w", port, err)
		}
		class := DevClassTCP
		if u.Scheme == "udp" {
			class = DevClassUDP
		}
		return Device{Class: class, Name: host, Param: p}, nil
	}

	return Device{}, fmt.Errorf("msp: unsupported device scheme %q", u.Scheme)
}

// Link is an MSP connection to a flight controller.
type Link struct {
	rw     io.ReadWriter
	closer io.Closer
	reader io.ByteReader
	dec    Decoder

	// Unsolicited counts frames skipped while waiting for a specific reply.
	Unsolicited int
}

// NewLink wraps an established byte stream.
func NewLink(rw io.ReadWriter) *Link {
	l := &Link{rw: rw, reader: bufio.NewReader(rw)}
	if c, ok := rw.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Open connects to the device.
func Open(dd Device) (*Link, error) {
	switch dd.Class {
	case DevClassSerial:
		p, err := serial.OpenPort(&serial.Config{Name: dd.Name, Baud: dd.Param})
		if err != nil {
			return nil, fmt.Errorf("msp: open %s: %w", dd, err)
		}
		return NewLink(p), nil

	case DevClassTCP, DevClassUDP:
		network := "tcp"
		if dd.Class == DevClassUDP {
			network = "udp"
		}
		conn, err := net.Dial(network, net.JoinHostPort(dd.Name, strconv.Itoa(dd.Param)))
		if err != nil {
			return nil, fmt.Errorf("msp: dial %s: %w", dd, err)
		}
		return NewLink(conn), nil
	}
	return nil, ErrNoDevice
}

// Close closes the underlying transport.
func (l *Link) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Send writes one request frame.
func (l *Link) Send(cmd byte, payload []byte) error {
	buf, err := Encode(cmd, payload)
	if err != nil {
		return err
	}
	if _, err := l.rw.Write(buf); err != nil {
		return fmt.Errorf("msp: write command %d: %w", cmd, err)
	}
	return nil
}

// ReadFrame blocks until a complete frame arrives.
func (l *Link) ReadFrame() (Frame, error) {
	for {
		b, err := l.reader.ReadByte()
		if err != nil {
			return Frame{}, fmt.Errorf("msp: read: %w", err)
		}
		if f, done, err := l.dec.Feed(b); done {
			return f, err
		}
	}
}

// ReadCmd reads frames until the reply to cmd arrives.
func (l *Link) ReadCmd(cmd byte) (Frame, error) {
	for {
		f, err := l.ReadFrame()
		if f.Cmd == cmd {
			return f, err
		}
		if err != nil && !errors.Is(err, ErrChecksum) && !errors.Is(err, ErrRejected) {
			return f, err
		}
		l.Unsolicited++
	}
}

// Request sends cmd and waits for its reply.
func (l *Link) Request(cmd byte, payload []byte) (Frame, error) {
	if err := l.Send(cmd, payload); err != nil {
		return Frame{}, err
	}
	return l.ReadCmd(cmd)
}

// Info identifies the flight controller.
type Info struct {
	API     string
	Variant string
	Version string
	Name    string
}

func (i Info) String() string {
	s := fmt.Sprintf("%s v%s API %s", i.Variant, i.Version, i.API)
	if i.Name != "" {
		s += fmt.Sprintf(" %q", i.Name)
	}
	return s
}

// Identify queries the API version, firmware variant, version and craft name.
func (l *Link) Identify() (Info, error) {
	var info Info

	f, err := l.Request(MSPAPIVersion, nil)
	if err != nil {
		return info, err
	}
	if len(f.Payload) >= 3 {
		info.API = fmt.Sprintf("%d.%d", f.Payload[1], f.Payload[2])
	}

	if f, err = l.Request(MSPFCVariant, nil); err != nil {
		return info, err
	}
	if len(f.Payload) >= 4 {
		info.Variant = string(f.Payload[:4])
	}

	if f, err = l.Request(MSPFCVersion, nil); err != nil {
		return info, err
	}
	if len(f.Payload) >= 3 {
		info.Version = fmt.Sprintf("%d.%d.%d", f.Payload[0], f.Payload[1], f.Payload[2])
	}

	if f, err = l.Request(MSPName, nil); err != nil {
		return info, err
	}
	info.Name = string(f.Payload)

	return info, nil
}
