package stack

import "github.com/ystepanoff/gowmbus/crc16mbus"

// Frame Format A block-layout constants (EN 13757-4 §4.3).
const (
	ffaFirstBlockDataLen    = 10
	ffaOtherBlockMaxDataLen = 16
	ffaMinDataLen           = ffaFirstBlockDataLen + 1
	ffaMaxDataLen           = 256
	ffaMaxBlockCount        = 17

	// FFAFrameMax is the largest possible FFA frame, in raw (non-3oo6)
	// bytes: 256 data bytes plus up to 17 blocks' worth of CRC overhead.
	FFAFrameMax = ffaMaxDataLen + 2*ffaMaxBlockCount
)

// ffaFrameLengthFromDataLength implements the block-accounting formula: a
// fixed 10-byte first block, then as many full 16-byte blocks as fit, then
// one partial remainder block (if any), each block carrying 2 CRC bytes.
func ffaFrameLengthFromDataLength(dataLength int) (int, error) {
	if dataLength < ffaMinDataLen {
		return 0, ErrInvalidLength
	}

	rem := dataLength - ffaFirstBlockDataLen
	full := rem / ffaOtherBlockMaxDataLen
	last := rem - full*ffaOtherBlockMaxDataLen

	lastFrame := 0
	if last > 0 {
		lastFrame = last + 2
	}

	return ffaFirstBlockDataLen + 2 + full*(ffaOtherBlockMaxDataLen+2) + lastFrame, nil
}

// ffaGetFrameLength derives the total on-wire frame length (CRCs included)
// from the L byte at buf[0].
func ffaGetFrameLength(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrIncomplete
	}
	dataLength := 1 + int(buf[0])
	return ffaFrameLengthFromDataLength(dataLength)
}

// ffaTrimCRC validates every block's CRC and returns the concatenated data
// portions (L, C, address, [ELL], APL) with all CRC bytes removed.
func ffaTrimCRC(buf []byte) ([]byte, error) {
	frameLength, err := ffaGetFrameLength(buf)
	if err != nil {
		return nil, err
	}
	if len(buf) < frameLength {
		return nil, ErrIncomplete
	}

	first := buf[:ffaFirstBlockDataLen+2]
	if !crc16mbus.IsValid(first) {
		return nil, &CRCError{Block: 0}
	}
	data := append([]byte{}, first[:len(first)-2]...)

	rest := buf[ffaFirstBlockDataLen+2 : frameLength]
	blockIndex := 1
	for len(rest) > 0 {
		blockLen := ffaOtherBlockMaxDataLen + 2
		if blockLen > len(rest) {
			blockLen = len(rest)
		}
		block := rest[:blockLen]
		if !crc16mbus.IsValid(block) {
			return nil, &CRCError{Block: blockIndex}
		}
		data = append(data, block[:len(block)-2]...)
		rest = rest[blockLen:]
		blockIndex++
	}

	return data, nil
}

// ffaWrite is the encode-side mirror of ffaTrimCRC. body is the content
// that follows L (C + address [+ ELL] + APL); ffaWrite prepends the L byte
// it computes from body's length, chunks the result into the same block
// boundaries ffaTrimCRC expects, and appends a CRC-16 after each.
func ffaWrite(body []byte) ([]byte, error) {
	dataLength := 1 + len(body)
	if dataLength > ffaMaxDataLen {
		return nil, ErrCapacity
	}
	frameLength, err := ffaFrameLengthFromDataLength(dataLength)
	if err != nil {
		return nil, err
	}
	if frameLength > FFAFrameMax {
		return nil, ErrCapacity
	}

	content := make([]byte, dataLength)
	content[0] = byte(dataLength - 1)
	copy(content[1:], body)

	out := make([]byte, 0, frameLength)

	first := content[:ffaFirstBlockDataLen]
	out = append(out, first...)
	out = crc16mbus.Append(out, first)

	rest := content[ffaFirstBlockDataLen:]
	for len(rest) > 0 {
		chunkLen := ffaOtherBlockMaxDataLen
		if chunkLen > len(rest) {
			chunkLen = len(rest)
		}
		chunk := rest[:chunkLen]
		out = append(out, chunk...)
		out = crc16mbus.Append(out, chunk)
		rest = rest[chunkLen:]
	}

	return out, nil
}
