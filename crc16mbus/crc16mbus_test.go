package crc16mbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendThenIsValid(t *testing.T) {
	data := []byte{0x44, 0x2D, 0x2C, 0x78, 0x56, 0x34, 0x12, 0x01, 0x32, 0xA0, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	block := Append(append([]byte{}, data...), data)
	assert.True(t, IsValid(block))
}

func TestIsValid_KnownBlock(t *testing.T) {
	// From the S2 FFB fixture: data bytes 0x13..0x06 CRC 0xC3C0.
	block := []byte{
		0x13, 0x44, 0x2D, 0x2C, 0x78, 0x56, 0x34, 0x12, 0x01, 0x32,
		0xA0, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xC3, 0xC0,
	}
	assert.True(t, IsValid(block))
}

func TestIsValid_CorruptedBlock(t *testing.T) {
	block := []byte{
		0x13, 0x44, 0x2D, 0x2C, 0x78, 0x56, 0x34, 0x12, 0x01, 0x32,
		0xA0, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x07, 0xC3, 0xC0,
	}
	assert.False(t, IsValid(block))
}

func TestIsValid_TooShort(t *testing.T) {
	assert.False(t, IsValid([]byte{0x01}))
}
