//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing and
// USB/UART wM-Bus dongles).
package gowmbus

import (
	"time"

	"github.com/ystepanoff/gowmbus/driver/serial"
	"github.com/ystepanoff/gowmbus/driver/stub"
)

// NewStubController wraps an in-memory stub.Driver in a Controller, for
// tests and for running without real hardware (wmbussniff without --port).
func NewStubController(rssi RSSI, opts ...ControllerOption) (*Controller, Transceiver) {
	driver := stub.New(rssi)
	return NewController(driver, opts...), driver
}

// NewSerialController wraps a serial.Driver over the named port (e.g.
// "/dev/ttyUSB0") in a Controller, for USB/UART wM-Bus dongles.
func NewSerialController(portName string, baud int, readTimeout time.Duration, opts ...ControllerOption) *Controller {
	driver := serial.New(portName,
		serial.WithBaud(baud),
		serial.WithReadTimeout(readTimeout),
	)
	return NewController(driver, opts...)
}
