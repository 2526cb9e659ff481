//go:build !tinygo && !baremetal

// Package stub implements an in-memory transport.Transceiver for tests and
// for running without hardware: callers inject whole frames (optionally split into
// chunks, to exercise the controller's multi-read accumulation loop) and an
// optional fixed RSSI, and the stub delivers bytes through Receive/Read
// following the same suspension contract a real radio would.
package stub

import (
	"context"
	"sync"
	"time"

	"github.com/ystepanoff/gowmbus/transport"
)

// Driver is a mock transport.Transceiver for host-side testing.
type Driver struct {
	mu sync.Mutex

	rxQueue   [][]byte
	pending   []byte
	rssi      transport.RSSI
	txLog     [][]byte
	listening bool
}

// New creates a stub driver with signal strength rssi for any frame it
// delivers.
func New(rssi transport.RSSI) *Driver {
	return &Driver{rssi: rssi}
}

func (d *Driver) Init(ctx context.Context) error {
	return nil
}

func (d *Driver) Write(ctx context.Context, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	pkt := make([]byte, len(buf))
	copy(pkt, buf)
	d.txLog = append(d.txLog, pkt)
	return nil
}

func (d *Driver) Transmit(ctx context.Context) error {
	return nil
}

func (d *Driver) Listen(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listening = true
	return nil
}

func (d *Driver) Idle(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listening = false
	d.pending = nil
	return nil
}

func (d *Driver) GetRSSI(ctx context.Context) (transport.RSSI, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rssi, nil
}

// rxToken identifies one in-flight injected frame.
type rxToken struct{}

// Receive pops the next injected frame, polling briefly if none is queued
// yet (mirroring the poll-until-deadline style of a real radio's Rx call),
// and returns ctx.Err() if ctx is cancelled first.
func (d *Driver) Receive(ctx context.Context, minBytes int) (transport.RxToken, error) {
	for {
		d.mu.Lock()
		if len(d.rxQueue) > 0 {
			d.pending = d.rxQueue[0]
			d.rxQueue = d.rxQueue[1:]
			d.mu.Unlock()
			return rxToken{}, nil
		}
		d.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

// Read copies up to len(buf) bytes of the currently-arriving frame into
// buf, pulling the next injected chunk in once the previous one is
// exhausted (so InjectRx can be called multiple times per frame to
// simulate progressive delivery), and polls briefly if nothing is ready.
func (d *Driver) Read(ctx context.Context, token transport.RxToken, buf []byte) (int, error) {
	for {
		d.mu.Lock()
		if len(d.pending) == 0 && len(d.rxQueue) > 0 {
			d.pending = d.rxQueue[0]
			d.rxQueue = d.rxQueue[1:]
		}
		if len(d.pending) > 0 {
			n := copy(buf, d.pending)
			d.pending = d.pending[n:]
			d.mu.Unlock()
			return n, nil
		}
		d.mu.Unlock()

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

// Accept is a no-op for the stub: the whole injected frame is already
// buffered, so there is no hardware frame-length register to program.
func (d *Driver) Accept(ctx context.Context, token transport.RxToken, frameLength int) error {
	return nil
}

// InjectRx queues a frame to be returned by subsequent Receive/Read calls.
func (d *Driver) InjectRx(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pkt := make([]byte, len(data))
	copy(pkt, data)
	d.rxQueue = append(d.rxQueue, pkt)
}

// GetTxLog returns a copy of every buffer passed to Write.
func (d *Driver) GetTxLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.txLog))
	for i, p := range d.txLog {
		cp := make([]byte, len(p))
		copy(cp, p)
		out[i] = cp
	}
	return out
}
