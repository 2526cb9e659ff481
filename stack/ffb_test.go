package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// s2FFBFrame is the no-presync fixture: C=0x44, manufacturer KAM, serial
// 12345678, version 0x01, device Repeater, APL [A0 00 01 02 03 04 05 06].
var s2FFBFrame = []byte{
	0x13, 0x44, 0x2D, 0x2C, 0x78, 0x56, 0x34, 0x12, 0x01, 0x32,
	0xA0, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xC3, 0xC0,
}

func TestFfbGetFrameLength_S2Fixture(t *testing.T) {
	length, err := ffbGetFrameLength(s2FFBFrame)
	require.NoError(t, err)
	assert.Equal(t, 20, length)
}

func TestFfbTrimCRC_S2Fixture(t *testing.T) {
	data, err := ffbTrimCRC(s2FFBFrame)
	require.NoError(t, err)
	assert.Equal(t, byte(0x44), data[1])
}

func TestFfbTrimCRC_CorruptedBlock(t *testing.T) {
	corrupt := append([]byte{}, s2FFBFrame...)
	corrupt[5] ^= 0xFF
	_, err := ffbTrimCRC(corrupt)
	var crcErr *CRCError
	require.ErrorAs(t, err, &crcErr)
}

func TestFfbWrite_SingleBlock_RoundTrip(t *testing.T) {
	body := make([]byte, 40)
	for i := range body {
		body[i] = byte(i + 1)
	}

	frame, err := ffbWrite(body)
	require.NoError(t, err)

	data, err := ffbTrimCRC(frame)
	require.NoError(t, err)
	assert.Equal(t, body, data[1:])
}

func TestFfbWrite_OverflowBlock_RoundTrip(t *testing.T) {
	body := make([]byte, 200)
	for i := range body {
		body[i] = byte(i)
	}

	frame, err := ffbWrite(body)
	require.NoError(t, err)

	data, err := ffbTrimCRC(frame)
	require.NoError(t, err)
	assert.Equal(t, body, data[1:])
}

func TestFfbWrite_OverflowThreshold(t *testing.T) {
	// length = 1(L) + len(body); single-block boundary is length <= 126.
	atBoundary := make([]byte, ffbSingleBlockDataMax-1)
	frame, err := ffbWrite(atBoundary)
	require.NoError(t, err)
	length, err := ffbGetFrameLength(frame)
	require.NoError(t, err)
	assert.Equal(t, len(frame), length)

	overBoundary := make([]byte, ffbSingleBlockDataMax)
	frame2, err := ffbWrite(overBoundary)
	require.NoError(t, err)
	_, err = ffbTrimCRC(frame2)
	require.NoError(t, err)
}

func TestFfbGetFrameLength_TooShort(t *testing.T) {
	_, err := ffbGetFrameLength([]byte{5})
	assert.ErrorIs(t, err, ErrInvalidLength)
}
