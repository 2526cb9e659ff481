// Package gowmbus provides a façade to access the wM-Bus protocol stack and
// the asynchronous receive controller built on top of it.
package gowmbus

import (
	"github.com/ystepanoff/gowmbus/protocol"
	"github.com/ystepanoff/gowmbus/stack"
	"github.com/ystepanoff/gowmbus/transport"
)

// The actual constructors are split into build-tag specific files:
// - constructors_nrf.go  - for embedded platforms (//go:build tinygo || baremetal)
// - constructors_host.go - for development/testing (//go:build !tinygo && !baremetal)

// Re-export the stack and transport types most callers need, so that a
// caller importing only this package can decode frames, build a Stack, and
// drive a Controller without reaching into the subpackages directly.
type (
	Mode             = stack.Mode
	Packet           = stack.Packet
	PHLMetadata      = stack.PHLMetadata
	DllFields        = stack.DllFields
	EllFields        = stack.EllFields
	Stack            = stack.Stack
	StackOption      = stack.Option
	ManufacturerCode = protocol.ManufacturerCode
	DeviceType       = protocol.DeviceType
	WMBusAddress     = protocol.WMBusAddress
	Frame            = transport.Frame
	Controller       = transport.Controller
	ControllerOption = transport.Option
	Received         = transport.Received
	Transceiver      = transport.Transceiver
	RSSI             = transport.RSSI
)

// Modes exposed in the public API.
const (
	ModeCFFA = stack.ModeCFFA
	ModeCFFB = stack.ModeCFFB
	ModeTMTO = stack.ModeTMTO
)

// Error constants exposed in the public API.
var (
	ErrIncomplete           = stack.ErrIncomplete
	ErrSyncword             = stack.ErrSyncword
	ErrInvalidLength        = stack.ErrInvalidLength
	ErrCapacity             = stack.ErrCapacity
	ErrBCDConversion        = stack.ErrBCDConversion
	ErrMissingDLL           = stack.ErrMissingDLL
	ErrUnknownELLKind       = stack.ErrUnknownELLKind
	ErrELLEncodeUnsupported = stack.ErrELLEncodeUnsupported

	ErrTransceiverNotPresent = transport.ErrTransceiverNotPresent
	ErrTransceiverTimeout    = transport.ErrTransceiverTimeout
)

// Controller options exposed in the public API.
var (
	WithLogger = transport.WithLogger
	WithStack  = transport.WithStack
)

// NewStack builds a wM-Bus Stack with ELL decoding enabled.
func NewStack(opts ...StackOption) *Stack {
	return stack.New(opts...)
}

// NewStackWithoutELL builds a wM-Bus Stack that treats every frame's
// application layer as starting right after the DLL, skipping ELL parsing.
func NewStackWithoutELL(opts ...StackOption) *Stack {
	return stack.NewWithoutELL(opts...)
}

// NewController wraps driver in a Controller, applying opts on top of the
// package defaults (stack.New and a "[wmbus] "-prefixed logger).
func NewController(driver Transceiver, opts ...ControllerOption) *Controller {
	return transport.NewController(driver, opts...)
}
