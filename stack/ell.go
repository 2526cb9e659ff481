package stack

import (
	"encoding/binary"

	"github.com/ystepanoff/gowmbus/protocol"
)

// ellHeaderLength returns the header size (including the CI byte) for a
// given ELL control-information byte, or 0 if ci does not name a
// recognized ELL variant.
func ellHeaderLength(ci byte) int {
	switch ci {
	case 0x8C:
		return 3
	case 0x8D:
		return 9
	case 0x8E:
		return 11
	case 0x8F:
		return 17
	default:
		return 0
	}
}

// ellRead inspects the first byte of buffer: if it names one of the four
// recognized ELL CI bytes, it parses that variant's header and recurses
// into APL with the remainder; otherwise the whole region is APL payload
// and no ELL is attached to the packet.
func ellRead(packet *Packet, buffer []byte) error {
	if len(buffer) == 0 {
		return aplRead(packet, buffer)
	}

	ci := buffer[0]
	headerLen := ellHeaderLength(ci)
	if headerLen == 0 {
		return aplRead(packet, buffer)
	}
	if len(buffer) < headerLen {
		return ErrIncomplete
	}

	fields := EllFields{CC: buffer[1], ACC: buffer[2]}

	switch ci {
	case 0x8C:
		fields.Kind = EllShort
	case 0x8D:
		fields.Kind = EllLong
		fields.SN = binary.LittleEndian.Uint32(buffer[3:7])
		fields.PayloadCRC = binary.LittleEndian.Uint16(buffer[7:9])
		fields.HasCRC = true
	case 0x8E:
		fields.Kind = EllShortDest
		var addrBytes [8]byte
		copy(addrBytes[:], buffer[3:11])
		dest, err := protocol.AddressFromBytes(addrBytes)
		if err != nil {
			return ErrBCDConversion
		}
		fields.Dest = dest
	case 0x8F:
		fields.Kind = EllLongDest
		var addrBytes [8]byte
		copy(addrBytes[:], buffer[3:11])
		dest, err := protocol.AddressFromBytes(addrBytes)
		if err != nil {
			return ErrBCDConversion
		}
		fields.Dest = dest
		fields.SN = binary.LittleEndian.Uint32(buffer[11:15])
		fields.PayloadCRC = binary.LittleEndian.Uint16(buffer[15:17])
		fields.HasCRC = true
	default:
		return ErrUnknownELLKind
	}

	packet.ELL = &fields
	return aplRead(packet, buffer[headerLen:])
}

// ellWrite is intentionally unimplemented: every transmit path exercised by
// this system builds frames with the ELL layer disabled (NewWithoutELL),
// matching the original, which also left ELL encode unimplemented. See
// DESIGN.md.
