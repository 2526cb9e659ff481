package stack

import (
	"math/bits"

	"github.com/ystepanoff/gowmbus/crc16mbus"
	"github.com/ystepanoff/gowmbus/threeofsix"
)

const (
	syncC           = 0x54
	syncFFA         = 0xCD
	syncFFB         = 0x3D
	ambiguousCField = 0x44
)

// PHLMetadata is what DetectMode reports about a buffer: the mode it
// believes applies, how many leading bytes (syncword, if any) to skip
// before handing off to the format handler, and the total on-wire frame
// length (in the same byte domain as the input buffer).
type PHLMetadata struct {
	Mode       Mode
	FrameStart int
	FrameLen   int
}

// DetectMode inspects the first few bytes of buf and decides which of the
// three supported framings is in play, per the ambiguity-resolution rules
// described for this layer: an explicit Mode C syncword is authoritative;
// otherwise a lone 0x44 in the second byte is tie-broken between Mode C FFB
// (the common case, synchronized on the trailing half of a double syncword)
// and Mode T three-of-six by checking whether both halves of that byte pair
// could plausibly be 3oo6 symbols and whether decoding them as such yields
// a valid CRC block.
func DetectMode(buf []byte) (PHLMetadata, error) {
	if len(buf) < 3 {
		return PHLMetadata{}, ErrIncomplete
	}

	if buf[0] == syncC {
		switch buf[1] {
		case syncFFA:
			length, err := ffaGetFrameLength(buf[2:])
			if err != nil {
				return PHLMetadata{}, err
			}
			return PHLMetadata{Mode: ModeCFFA, FrameStart: 2, FrameLen: 2 + length}, nil
		case syncFFB:
			length, err := ffbGetFrameLength(buf[2:])
			if err != nil {
				return PHLMetadata{}, err
			}
			return PHLMetadata{Mode: ModeCFFB, FrameStart: 2, FrameLen: 2 + length}, nil
		default:
			return PHLMetadata{}, ErrSyncword
		}
	}

	if buf[1] == ambiguousCField {
		if isValidThreeOutOfSixCandidate(buf) {
			if len(buf) < 18 {
				return PHLMetadata{}, ErrIncomplete
			}
			if meta, ok := tryModeTFromAmbiguous(buf); ok {
				return meta, nil
			}
		}
		length, err := ffbGetFrameLength(buf)
		if err != nil {
			return PHLMetadata{}, err
		}
		return PHLMetadata{Mode: ModeCFFB, FrameStart: 0, FrameLen: length}, nil
	}

	return modeTFallthrough(buf)
}

// isValidThreeOutOfSixCandidate checks whether both the top 6 bits of buf[0]
// and the 6 bits straddling buf[0]/buf[1] are constant-weight-3 symbols, the
// cheap pre-check before committing to a full 3oo6/CRC decode attempt.
func isValidThreeOutOfSixCandidate(buf []byte) bool {
	first := buf[0] >> 2
	straddle := (buf[0]&0x03)<<4 | (buf[1]&0xF0)>>4
	return bits.OnesCount8(first) == 3 && bits.OnesCount8(straddle) == 3
}

// tryModeTFromAmbiguous attempts to decode the leading 144 bits (18 bytes)
// of buf as a 3oo6-encoded 12-byte FFA first block and validates its CRC.
// On success it reports the Mode T metadata, converted into the encoded
// byte domain so the caller knows how many on-wire bytes to wait for.
func tryModeTFromAmbiguous(buf []byte) (PHLMetadata, bool) {
	decoded := make([]byte, 12)
	n, err := threeofsix.Decode(decoded, buf[:18], 144)
	if err != nil || n != 12 {
		return PHLMetadata{}, false
	}
	if !ffaFirstBlockValid(decoded) {
		return PHLMetadata{}, false
	}

	dataLength := 1 + int(decoded[0])
	decodedFrameLen, err := ffaFrameLengthFromDataLength(dataLength)
	if err != nil {
		return PHLMetadata{}, false
	}

	encodedLen := modeTEncodedLen(decodedFrameLen)
	return PHLMetadata{Mode: ModeTMTO, FrameStart: 0, FrameLen: encodedLen}, true
}

// modeTFallthrough handles buffers that show neither a Mode C syncword nor
// the ambiguous 0x44 pattern: decode the first 12 bits as a single 3oo6
// symbol pair (one L byte) and derive the FFA frame length from it.
func modeTFallthrough(buf []byte) (PHLMetadata, error) {
	if len(buf)*8 < 12 {
		return PHLMetadata{}, ErrIncomplete
	}
	var lByte [1]byte
	if _, err := threeofsix.Decode(lByte[:], buf, 12); err != nil {
		return PHLMetadata{}, err
	}

	dataLength := 1 + int(lByte[0])
	decodedFrameLen, err := ffaFrameLengthFromDataLength(dataLength)
	if err != nil {
		return PHLMetadata{}, err
	}

	return PHLMetadata{Mode: ModeTMTO, FrameStart: 0, FrameLen: modeTEncodedLen(decodedFrameLen)}, nil
}

// modeTEncodedLen converts a decoded (raw FFA) frame length into the
// corresponding three-of-six encoded byte count, since Mode T is only ever
// observed in its line-coded form until decode time.
func modeTEncodedLen(decodedLen int) int {
	return (12*decodedLen + 7) / 8
}

// ffaFirstBlockValid reports whether a candidate 12-byte buffer passes as a
// plausible FFA first block, used only as the tie-breaker CRC check in mode
// disambiguation.
func ffaFirstBlockValid(block []byte) bool {
	if len(block) != ffaFirstBlockDataLen+2 {
		return false
	}
	return crc16mbus.IsValid(block)
}

// phlRead dispatches a fully-received buffer to the correct format handler
// according to packet.Mode, strips syncwords/line-coding, validates CRCs,
// and hands the reconstituted data (L, C, address, [ELL], APL) to DLL.
func phlRead(packet *Packet, buf []byte) error {
	switch packet.Mode {
	case ModeTMTO:
		bitLen := len(buf) * 8
		bitLen -= bitLen % 12
		if bitLen < 12 {
			return ErrIncomplete
		}
		decoded := make([]byte, (bitLen/6)/2)
		n, err := threeofsix.Decode(decoded, buf, bitLen)
		if err != nil {
			if se, ok := err.(*threeofsix.SymbolError); ok {
				return &ThreeOutOfSixError{Index: se.Index}
			}
			return err
		}
		data, err := ffaTrimCRC(decoded[:n])
		if err != nil {
			return err
		}
		return dllRead(packet, data, hasELLCapability(packet))

	case ModeCFFA:
		body := buf
		if len(body) >= 2 && body[0] == syncC && body[1] == syncFFA {
			body = body[2:]
		}
		data, err := ffaTrimCRC(body)
		if err != nil {
			return err
		}
		return dllRead(packet, data, hasELLCapability(packet))

	case ModeCFFB:
		body := buf
		if len(body) >= 2 && body[0] == syncC && body[1] == syncFFB {
			body = body[2:]
		}
		data, err := ffbTrimCRC(body)
		if err != nil {
			return err
		}
		return dllRead(packet, data, hasELLCapability(packet))

	default:
		return ErrInvalidLength
	}
}

// hasELLCapability reports whether this packet's owning stack was
// constructed with ELL support; the composer sets this via aplMaxLen's
// sibling flag (see stack.go), passed down through Packet at Read time.
func hasELLCapability(packet *Packet) bool {
	return packet.withELL
}

// phlWrite runs DLL/ELL/APL encode in sequence and then wraps the result in
// the format dictated by packet.Mode: FFA block-chunked CRCs for Mode C FFA,
// the single/split-block layout for Mode C FFB, and FFA-then-3oo6 for Mode
// T.
func phlWrite(packet *Packet) ([]byte, error) {
	scratch := make([]byte, 0, FFAFrameMax)
	scratch, err := dllWrite(scratch, packet.DLL)
	if err != nil {
		return nil, err
	}
	if packet.ELL != nil {
		return nil, ErrELLEncodeUnsupported
	}
	aplBytes, err := aplWrite(packet)
	if err != nil {
		return nil, err
	}
	scratch = append(scratch, aplBytes...)

	switch packet.Mode {
	case ModeCFFA, ModeTMTO:
		raw, err := ffaWrite(scratch)
		if err != nil {
			return nil, err
		}
		if packet.Mode == ModeCFFA {
			return raw, nil
		}
		encodedBits := threeofsix.EncodedLen(len(raw))
		encoded := make([]byte, (encodedBits+7)/8)
		if _, err := threeofsix.Encode(encoded, raw); err != nil {
			return nil, err
		}
		return encoded, nil

	case ModeCFFB:
		return ffbWrite(scratch)

	default:
		return nil, ErrInvalidLength
	}
}
