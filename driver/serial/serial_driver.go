//go:build !tinygo && !baremetal

// Package serial implements a transport.Transceiver over a USB/UART wM-Bus
// dongle (e.g. an IMST iM871A or Amber AMB8465) reached through a plain
// serial port.
package serial

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/ystepanoff/gowmbus/transport"
)

// ErrRSSIUnavailable is returned by GetRSSI: a bare serial link carries no
// signal-strength side channel, unlike a register-mapped radio.
var ErrRSSIUnavailable = errors.New("serial: dongle does not report RSSI")

const (
	defaultBaud        = 9600
	defaultReadTimeout = 500 * time.Millisecond
	readChunk          = 64
)

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithBaud overrides the port's baud rate (default 9600, the common default
// for wM-Bus USB dongles).
func WithBaud(baud int) Option {
	return func(d *Driver) { d.baud = baud }
}

// WithReadTimeout bounds how long a single underlying port Read may block.
// It does not bound Receive/Read as a whole; ctx cancellation does that.
func WithReadTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.readTimeout = timeout }
}

// Driver is a transport.Transceiver backed by a serial port.
type Driver struct {
	portName    string
	baud        int
	readTimeout time.Duration

	mu     sync.Mutex
	port   readWriteCloser
	staged []byte
	rxBuf  []byte
}

// readWriteCloser is the subset of *serial.Port the driver needs.
type readWriteCloser interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// New returns a Driver for the named serial port (e.g. "/dev/ttyUSB0").
func New(portName string, opts ...Option) *Driver {
	d := &Driver{
		portName:    portName,
		baud:        defaultBaud,
		readTimeout: defaultReadTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	port, err := serial.OpenPort(&serial.Config{
		Name:        d.portName,
		Baud:        d.baud,
		ReadTimeout: d.readTimeout,
	})
	if err != nil {
		return err
	}
	d.port = port
	return nil
}

func (d *Driver) Write(ctx context.Context, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.staged = append(d.staged[:0], buf...)
	return nil
}

func (d *Driver) Transmit(ctx context.Context) error {
	d.mu.Lock()
	port := d.port
	staged := d.staged
	d.mu.Unlock()

	if port == nil {
		return transport.ErrTransceiverNotPresent
	}
	_, err := port.Write(staged)
	return err
}

// Listen clears any bytes left over from a prior frame; the dongle streams
// continuously once open, so there is no separate RX-enable step.
func (d *Driver) Listen(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rxBuf = d.rxBuf[:0]
	return nil
}

// Receive blocks, reading chunks off the port, until at least minBytes have
// accumulated in the internal buffer or ctx is done.
func (d *Driver) Receive(ctx context.Context, minBytes int) (transport.RxToken, error) {
	for {
		d.mu.Lock()
		have := len(d.rxBuf)
		d.mu.Unlock()
		if have >= minBytes {
			return rxToken{}, nil
		}
		if err := d.readMore(ctx); err != nil {
			return nil, err
		}
	}
}

type rxToken struct{}

// Read copies already-buffered bytes into buf, reading more off the port if
// none are yet available.
func (d *Driver) Read(ctx context.Context, token transport.RxToken, buf []byte) (int, error) {
	d.mu.Lock()
	n := copy(buf, d.rxBuf)
	d.rxBuf = d.rxBuf[n:]
	d.mu.Unlock()
	if n > 0 {
		return n, nil
	}
	if err := d.readMore(ctx); err != nil {
		return 0, err
	}
	d.mu.Lock()
	n = copy(buf, d.rxBuf)
	d.rxBuf = d.rxBuf[n:]
	d.mu.Unlock()
	return n, nil
}

// Accept is a no-op: the dongle has no hardware frame-length register to
// program, unlike the nRF RADIO peripheral.
func (d *Driver) Accept(ctx context.Context, token transport.RxToken, frameLength int) error {
	return nil
}

func (d *Driver) GetRSSI(ctx context.Context) (transport.RSSI, error) {
	return 0, ErrRSSIUnavailable
}

func (d *Driver) Idle(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rxBuf = d.rxBuf[:0]
	return nil
}

// readMore performs one underlying port.Read, appending whatever arrived
// before the port's own ReadTimeout to rxBuf, and returns ctx.Err() if ctx
// is already done.
func (d *Driver) readMore(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	port := d.port
	d.mu.Unlock()
	if port == nil {
		return transport.ErrTransceiverNotPresent
	}

	chunk := make([]byte, readChunk)
	n, err := port.Read(chunk)
	if n > 0 {
		d.mu.Lock()
		d.rxBuf = append(d.rxBuf, chunk[:n]...)
		d.mu.Unlock()
	}
	if err != nil {
		return err
	}
	return nil
}
