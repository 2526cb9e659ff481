package stack

import "github.com/ystepanoff/gowmbus/protocol"

// DllFields is the data-link layer header: control byte plus station
// address.
type DllFields struct {
	Control byte
	Address protocol.WMBusAddress
}

// EllKind identifies which of the four ELL header shapes is present.
type EllKind int

const (
	EllNone EllKind = iota
	EllShort
	EllLong
	EllShortDest
	EllLongDest
)

// EllFields is the extended-link layer header. Which fields are meaningful
// depends on Kind: Short only uses CC/ACC, Long adds SN/PayloadCRC,
// ShortDest adds Dest, LongDest uses all of them.
type EllFields struct {
	Kind       EllKind
	CC         byte
	ACC        byte
	Dest       protocol.WMBusAddress
	SN         uint32
	PayloadCRC uint16
	HasCRC     bool
}

// CI returns the control-information byte identifying this ELL variant on
// the wire.
func (e EllFields) CI() byte {
	switch e.Kind {
	case EllShort:
		return 0x8C
	case EllLong:
		return 0x8D
	case EllShortDest:
		return 0x8E
	case EllLongDest:
		return 0x8F
	default:
		return 0
	}
}

// Packet is the intermediate representation produced by Read and consumed
// by Write. Every field is mutable during decode and should be treated as
// read-only once the stack has returned it.
type Packet struct {
	Mode     Mode
	FrameLen int
	RSSI     *int8
	HasPHL   bool
	DLL      *DllFields
	ELL      *EllFields
	APL      []byte

	aplMaxLen int
	withELL   bool
}
