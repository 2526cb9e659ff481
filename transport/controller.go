package transport

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ystepanoff/gowmbus/stack"
)

// receiveBufferCap is the scratch buffer size for one in-flight frame,
// sized for the worst case: a max-length FFA frame, three-of-six encoded.
const receiveBufferCap = 435

// Controller drives a single Transceiver as a cooperative, single-owner
// producer of decoded frames. One Controller owns one Transceiver for its
// lifetime; see Release to give it back.
type Controller struct {
	driver Transceiver
	stack  *stack.Stack
	logger *log.Logger
}

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithLogger overrides the controller's logger. The default writes to the
// standard logger's destination with a "[wmbus] " prefix.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithStack overrides the stack used to decode frames once their mode and
// length are known. The default is stack.New().
func WithStack(s *stack.Stack) Option {
	return func(c *Controller) { c.stack = s }
}

// NewController builds a Controller around driver.
func NewController(driver Transceiver, opts ...Option) *Controller {
	c := &Controller{
		driver: driver,
		stack:  stack.New(),
		logger: log.New(log.Writer(), "[wmbus] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init configures the radio and leaves it idle.
func (c *Controller) Init(ctx context.Context) error {
	return c.driver.Init(ctx)
}

// Write stages bytes for the next Transmit call.
func (c *Controller) Write(ctx context.Context, buf []byte) error {
	return c.driver.Write(ctx, buf)
}

// Transmit fires the staged bytes and returns the radio to idle.
func (c *Controller) Transmit(ctx context.Context) error {
	return c.driver.Transmit(ctx)
}

// Idle stops any RX session and idles the radio.
func (c *Controller) Idle(ctx context.Context) error {
	return c.driver.Idle(ctx)
}

// Release gives the Transceiver back to the caller. The Controller must not
// be used again afterward.
func (c *Controller) Release() Transceiver {
	d := c.driver
	c.driver = nil
	return d
}

// Received is what Receive reports for one frame: a Frame on success, or an
// Err when the stack rejected the complete frame — for example a bad
// three-of-six symbol or a CRC mismatch. A read error from the transceiver
// itself, or a frame start whose mode and length cannot be derived (such as
// a malformed L field), never reaches the channel; it idles the radio and
// restarts the listen loop instead.
type Received struct {
	Frame Frame
	Err   error
}

// Receive starts an RX session and returns a channel that yields one
// Received per observed frame. The session runs in its own goroutine — Go's
// translation of the source's async generator — and keeps producing frames
// until ctx is cancelled. Cancelling ctx stops the goroutine from starting a
// new frame but does not idle the radio; callers must call Idle explicitly.
func (c *Controller) Receive(ctx context.Context) <-chan Received {
	out := make(chan Received)
	go c.receiveLoop(ctx, out)
	return out
}

func (c *Controller) receiveLoop(ctx context.Context, out chan<- Received) {
	defer close(out)

	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.driver.Listen(ctx); err != nil {
			return
		}

		meta, raw, startTime, rssi, err := c.accumulateOne(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Printf("receive restart: %v", err)
			if err := c.driver.Idle(ctx); err != nil {
				return
			}
			continue
		}

		packet, err := c.stack.Read(raw[meta.FrameStart:], meta.Mode)
		result := Received{Err: err}
		if err == nil {
			result.Frame = Frame{
				Packet:    packet,
				Raw:       raw,
				Timestamp: startTime,
				RSSI:      rssi,
			}
		} else {
			c.logger.Printf("frame rejected: %v", err)
		}

		select {
		case out <- result:
		case <-ctx.Done():
			return
		}
	}
}

// accumulateOne runs the Accumulating/LengthKnown states of the receive
// state machine for a single frame: wait for the first bytes, derive the
// mode and length as soon as enough bytes have arrived, commit that length
// to the driver, read the remainder, and capture RSSI and the start
// timestamp. It returns transceiver errors and any stack.DetectMode error
// other than ErrIncomplete; errors from decoding the complete frame are the
// caller's concern once the raw bytes are in hand.
func (c *Controller) accumulateOne(ctx context.Context) (stack.PHLMetadata, []byte, time.Time, RSSI, error) {
	token, err := c.driver.Receive(ctx, 3)
	if err != nil {
		return stack.PHLMetadata{}, nil, time.Time{}, 0, err
	}
	startTime := time.Now()

	buf := make([]byte, 0, receiveBufferCap)
	chunk := make([]byte, receiveBufferCap)

	var meta stack.PHLMetadata
	haveLength := false

	for {
		n, err := c.driver.Read(ctx, token, chunk)
		if err != nil {
			return stack.PHLMetadata{}, nil, time.Time{}, 0, err
		}
		buf = append(buf, chunk[:n]...)

		if !haveLength {
			m, derr := stack.DetectMode(buf)
			switch {
			case derr == nil:
				meta = m
				haveLength = true
				if err := c.driver.Accept(ctx, token, meta.FrameLen); err != nil {
					return stack.PHLMetadata{}, nil, time.Time{}, 0, err
				}
			case errors.Is(derr, stack.ErrIncomplete):
				continue
			default:
				return stack.PHLMetadata{}, nil, time.Time{}, 0, derr
			}
		}

		if haveLength && len(buf) >= meta.FrameLen {
			rssi, err := c.driver.GetRSSI(ctx)
			if err != nil {
				return stack.PHLMetadata{}, nil, time.Time{}, 0, err
			}
			return meta, buf[:meta.FrameLen], startTime, rssi, nil
		}
	}
}
