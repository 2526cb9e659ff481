// Package stack implements the wM-Bus (EN 13757-4) frame codec: physical
// layer framing and mode disambiguation (PHL), the data-link header (DLL),
// the optional extended-link header (ELL), and application-layer payload
// passthrough (APL), composed into two entry points, Read and Write.
package stack

// Option configures a Stack at construction time.
type Option func(*Stack)

// WithAPLCapacity bounds the APL payload a Stack will accept, both when
// reading (overflow is ErrCapacity) and writing. The default is 240 bytes.
func WithAPLCapacity(n int) Option {
	return func(s *Stack) {
		s.aplMaxLen = n
	}
}

// Stack composes the wM-Bus layers. The zero value is not usable; build one
// with New or NewWithoutELL.
type Stack struct {
	withELL   bool
	aplMaxLen int
}

// New builds a Stack that parses and emits the ELL layer when present on
// the wire.
func New(opts ...Option) *Stack {
	s := &Stack{withELL: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithoutELL builds a Stack that treats the entire post-DLL region as
// APL payload, never attempting to recognize an ELL header. ELL encode is
// unimplemented: Write on any Stack fails with ErrELLEncodeUnsupported for a
// packet whose ELL field is set.
func NewWithoutELL(opts ...Option) *Stack {
	s := &Stack{withELL: false}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read decodes buf as a complete frame of the given mode, running it
// through PHL, DLL, optional ELL, and APL in turn.
func (s *Stack) Read(buf []byte, mode Mode) (Packet, error) {
	packet := Packet{
		Mode:      mode,
		FrameLen:  len(buf),
		HasPHL:    true,
		withELL:   s.withELL,
		aplMaxLen: s.aplMaxLen,
	}
	if err := phlRead(&packet, buf); err != nil {
		return Packet{}, err
	}
	return packet, nil
}

// Write encodes packet back into wire bytes, running DLL/ELL/APL encode and
// wrapping the result in the PHL framing dictated by packet.Mode.
func (s *Stack) Write(packet Packet) ([]byte, error) {
	packet.aplMaxLen = s.aplMaxLen
	return phlWrite(&packet)
}
