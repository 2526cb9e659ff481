package threeofsix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleData = []byte{
	0x2F, 0x44, 0x68, 0x50, 0x27, 0x21, 0x45, 0x30, 0x50, 0x62, 0xBD, 0xCC, 0xA2, 0x06,
	0x9F, 0x1B, 0x11, 0x06, 0xC0, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x55, 0xA3, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF,
}

var sampleEncoded = []byte{
	0x3a, 0x97, 0x1c, 0x6a, 0xc6, 0x56, 0x39, 0x33, 0x8d, 0x71, 0x92, 0xd6, 0x65, 0x66,
	0x8e, 0x8f, 0x1d, 0x34, 0x98, 0xe5, 0x9a, 0x96, 0x93, 0x63, 0x34, 0xd5, 0x9a, 0xd1,
	0x63, 0x56, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96,
	0x65, 0x99, 0x8b, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65,
	0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0xa6,
	0x9a, 0x69, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0x59, 0x65, 0x96, 0xa6, 0x9a, 0x69,
}

func TestEncode_MatchesKnownVector(t *testing.T) {
	buf := make([]byte, 100)
	bits, err := Encode(buf, sampleData)
	require.NoError(t, err)
	assert.Equal(t, len(sampleData)*12, bits)
	assert.Equal(t, sampleEncoded, buf[:len(sampleEncoded)])
}

func TestEncode_SingleByteTerminates(t *testing.T) {
	buf := make([]byte, 2)
	bits, err := Encode(buf, []byte{0x12})
	require.NoError(t, err)
	assert.Equal(t, 12, bits)
	// 0x1 -> 13 (0b001101), 0x2 -> 14 (0b001110)
	assert.Equal(t, byte(0b00110100), buf[0])
	assert.Equal(t, byte(0b11100000), buf[1]&0b11110000)
}

func TestEncode_CapacityError(t *testing.T) {
	buf := make([]byte, 1)
	_, err := Encode(buf, []byte{0x12, 0x34})
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestDecode_RoundTrip(t *testing.T) {
	buf := make([]byte, 100)
	bits, err := Encode(buf, sampleData)
	require.NoError(t, err)

	decoded := make([]byte, len(sampleData))
	n, err := Decode(decoded, buf, bits)
	require.NoError(t, err)
	assert.Equal(t, len(sampleData), n)
	assert.Equal(t, sampleData, decoded)
}

func TestDecode_InvalidSymbol(t *testing.T) {
	// An all-zero symbol is never a valid 3oo6 codeword (popcount 0).
	buf := make([]byte, 2)
	decoded := make([]byte, 1)
	_, err := Decode(decoded, buf, 12)
	var symErr *SymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, 0, symErr.Index)
}

func TestDecode_OddSymbolCountRejected(t *testing.T) {
	buf := make([]byte, 1)
	decoded := make([]byte, 1)
	_, err := Decode(decoded, buf, 6)
	assert.ErrorIs(t, err, ErrInputLength)
}

func TestDecode_NonMultipleOfSixRejected(t *testing.T) {
	buf := make([]byte, 2)
	decoded := make([]byte, 1)
	_, err := Decode(decoded, buf, 10)
	assert.ErrorIs(t, err, ErrInputLength)
}
