//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/BryanSouza91/TiltFC/rx"
)

var (
	uart    = machine.DefaultUART
	decoder rx.Decoder
	rcStore = rx.NewStore()

	badFrames uint32
)

func setupReceiver() error {
	var err error
	if decoder, err = rx.NewDecoder(activeProtocol); err != nil {
		return err
	}
	return uart.Configure(machine.UARTConfig{
		BaudRate: activeProtocol.BaudRate(),
		TX:       machine.NoPin,
		RX:       machine.UART_RX_PIN, // iBus/CRSF/ELRS in
	})
}

// pollReceiver drains the UART and stores the last complete frame.
func pollReceiver(now time.Time) {
	ready, err := rx.Poll(uart, decoder)
	if err != nil {
		badFrames++
	}
	if ready {
		rcStore.Update(decoder.Channels(), now)
	}
}
