// Package transport drives a half-duplex wM-Bus radio transceiver as an
// asynchronous frame producer: it detects the start of a frame, streams
// bytes while progressively deriving the frame's length from the stack
// codec, commits that length to the radio, and yields a complete Frame with
// its timestamp and RSSI.
package transport

import (
	"context"
	"errors"
)

// ErrTransceiverNotPresent is a reserved sentinel any driver may return when
// the underlying radio hardware/link is absent.
var ErrTransceiverNotPresent = errors.New("transport: transceiver not present")

// ErrTransceiverTimeout is a reserved sentinel any driver may return when a
// blocking operation exceeds its deadline.
var ErrTransceiverTimeout = errors.New("transport: transceiver operation timed out")

// RSSI is a received signal strength indication, in dBm.
type RSSI = int8

// RxToken is an opaque handle returned by Transceiver.Receive, tying
// subsequent Read/Accept calls to one in-flight frame. Concrete drivers may
// use it to detect and reject reads that arrive after a frame boundary.
type RxToken interface{}

// Transceiver is the abstract radio contract the receive controller drives.
// Every method may block until ctx is done; implementations must return
// ctx.Err() (or a wrapped form of it) promptly on cancellation.
type Transceiver interface {
	// Init configures the radio and leaves it idle.
	Init(ctx context.Context) error
	// Write stages bytes for the next Transmit call. Must not be called
	// while the radio is in an RX session.
	Write(ctx context.Context, buf []byte) error
	// Transmit sends the staged bytes and returns the radio to idle.
	Transmit(ctx context.Context) error
	// Listen enters RX mode without yet waiting for a frame.
	Listen(ctx context.Context) error
	// Receive suspends until at least minBytes have arrived, returning a
	// token that identifies this frame for subsequent Read/Accept calls.
	Receive(ctx context.Context, minBytes int) (RxToken, error)
	// Read copies already-received bytes belonging to token into buf,
	// suspending if none are yet available, and returns the count copied.
	Read(ctx context.Context, token RxToken, buf []byte) (int, error)
	// Accept commits the final frame length for token, once the stack
	// codec has derived it, so the radio knows when the frame ends.
	Accept(ctx context.Context, token RxToken, frameLength int) error
	// GetRSSI reports the signal strength of the frame currently being
	// received.
	GetRSSI(ctx context.Context) (RSSI, error)
	// Idle aborts any in-progress RX/TX and returns the radio to idle.
	Idle(ctx context.Context) error
}
