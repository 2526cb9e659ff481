package stack

import "github.com/ystepanoff/gowmbus/crc16mbus"

// Frame Format B block-layout constants (EN 13757-4 §4.4).
const (
	ffbMinFrameLen = 13
	// FFBFrameMax is the largest possible FFB frame, in bytes, bounded by
	// L being a single byte (frame_length = 1 + L, L <= 255).
	FFBFrameMax = 256

	// ffbSingleBlockDataMax is the largest "data including L" size (see
	// DESIGN.md) that still fits under one CRC block.
	ffbSingleBlockDataMax = 126
	// ffbSingleBlockFrameMax is the largest physical single-block frame
	// size (data plus its trailing CRC-16).
	ffbSingleBlockFrameMax = ffbSingleBlockDataMax + 2
	// ffbFirstBlockFixedLen is the first block's fixed data size (L
	// included) once the frame overflows into two blocks.
	ffbFirstBlockFixedLen = 125
	// ffbFirstBlockFrameLen is the first block's physical size (data plus
	// its own CRC-16) once the frame overflows into two blocks.
	ffbFirstBlockFrameLen = ffbFirstBlockFixedLen + 2
)

// ffbGetFrameLength derives the total on-wire frame length from the L byte
// at buf[0].
func ffbGetFrameLength(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrIncomplete
	}
	frameLength := 1 + int(buf[0])
	if frameLength < ffbMinFrameLen {
		return 0, ErrInvalidLength
	}
	return frameLength, nil
}

// ffbTrimCRC validates every block's CRC (at most two) and returns the
// concatenated data portions with all CRC bytes removed.
func ffbTrimCRC(buf []byte) ([]byte, error) {
	frameLength, err := ffbGetFrameLength(buf)
	if err != nil {
		return nil, err
	}
	if len(buf) < frameLength {
		return nil, ErrIncomplete
	}

	frame := buf[:frameLength]

	if frameLength <= ffbSingleBlockFrameMax {
		if !crc16mbus.IsValid(frame) {
			return nil, &CRCError{Block: 0}
		}
		return append([]byte{}, frame[:frameLength-2]...), nil
	}

	first := frame[:ffbFirstBlockFrameLen]
	if !crc16mbus.IsValid(first) {
		return nil, &CRCError{Block: 0}
	}
	second := frame[ffbFirstBlockFrameLen:]
	if !crc16mbus.IsValid(second) {
		return nil, &CRCError{Block: 1}
	}

	data := make([]byte, 0, frameLength-4)
	data = append(data, first[:ffbFirstBlockFixedLen]...)
	data = append(data, second[:len(second)-2]...)
	return data, nil
}

// ffbWrite encodes body (the content following the reserved L byte: C +
// address [+ ELL] + APL) as a Frame Format B frame. A single block is used
// when the data (L included, CRC excluded) fits in 126 bytes; otherwise the
// overflow is split into a fixed 125-byte first block and a second block
// carrying the remainder, with the two CRCs placed per §4.4 using a single
// pre-sized output buffer and a right-shift by 2 to make room for the
// first CRC in place.
//
// Note: the distilled prose's literal "≤ 125 + 10 = 115" boundary does not
// check out arithmetically; this implementation instead uses the boundary
// implied by "frame_length ≤ 128", independently verified against the S1/S2
// fixtures. See DESIGN.md.
func ffbWrite(body []byte) ([]byte, error) {
	scratch := make([]byte, 1, FFBFrameMax)
	scratch = append(scratch, body...)
	length := len(scratch) // includes the reserved L byte at scratch[0]

	if length <= ffbSingleBlockDataMax {
		l := length + 1
		if l > 0xFF {
			return nil, ErrCapacity
		}
		scratch[0] = byte(l)
		return crc16mbus.Append(scratch, scratch), nil
	}

	l := length + 3
	if l > 0xFF {
		return nil, ErrCapacity
	}
	scratch[0] = byte(l)

	out := make([]byte, length+4)
	copy(out, scratch[:ffbFirstBlockFixedLen])
	copy(out[ffbFirstBlockFixedLen+2:], scratch[ffbFirstBlockFixedLen:length])

	crc1 := crc16mbus.Compute(out[:ffbFirstBlockFixedLen])
	out[ffbFirstBlockFixedLen] = byte(crc1 >> 8)
	out[ffbFirstBlockFixedLen+1] = byte(crc1)

	secondStart := ffbFirstBlockFixedLen + 2
	secondEnd := length + 2
	crc2 := crc16mbus.Compute(out[secondStart:secondEnd])
	out[length+2] = byte(crc2 >> 8)
	out[length+3] = byte(crc2)

	return out, nil
}
