package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromBytes_Default(t *testing.T) {
	addr, err := AddressFromBytes([8]byte{0x2D, 0x2C, 0x78, 0x56, 0x34, 0x12, 0x01, 0x32})
	require.NoError(t, err)
	assert.Equal(t, KAM, addr.Manufacturer)
	assert.Equal(t, uint32(12345678), addr.SerialNumber)
	assert.Equal(t, byte(0x01), addr.Version)
	assert.Equal(t, DeviceRepeater, addr.DeviceType)
}

func TestAddressFromBytes_HydrometerDefaultLayout(t *testing.T) {
	cases := []struct {
		bytes  [8]byte
		serial uint32
		dev    DeviceType
	}{
		{[8]byte{0x24, 0x23, 0x95, 0x27, 0x80, 0x49, 0x20, 0x0C}, 49802795, DeviceHeatInlet},
		{[8]byte{0x24, 0x23, 0x59, 0x91, 0x95, 0x49, 0x20, 0x04}, 49959159, DeviceHeat},
		{[8]byte{0x24, 0x23, 0x06, 0x34, 0x27, 0x51, 0x20, 0x04}, 51273406, DeviceHeat},
		{[8]byte{0x24, 0x23, 0x02, 0x84, 0x84, 0x51, 0x20, 0x04}, 51848402, DeviceHeat},
		{[8]byte{0x24, 0x23, 0x83, 0x70, 0x29, 0x53, 0x20, 0x04}, 53297083, DeviceHeat},
	}
	for _, c := range cases {
		addr, err := AddressFromBytes(c.bytes)
		require.NoError(t, err)
		assert.Equal(t, HYD, addr.Manufacturer)
		assert.Equal(t, c.serial, addr.SerialNumber)
		assert.Equal(t, byte(0x20), addr.Version)
		assert.Equal(t, c.dev, addr.DeviceType)
	}
}

func TestAddressFromBytes_DiehlLayout(t *testing.T) {
	cases := []struct {
		bytes   [8]byte
		serial  uint32
		version byte
		dev     DeviceType
	}{
		{[8]byte{0x24, 0x23, 0x20, 0x04, 0x69, 0x02, 0x71, 0x47}, 47710269, 0x20, DeviceHeat},
		{[8]byte{0x24, 0x23, 0x20, 0x0C, 0x18, 0x59, 0x78, 0x47}, 47785918, 0x20, DeviceHeatInlet},
		{[8]byte{0x24, 0x23, 0x53, 0x0C, 0x95, 0x26, 0x86, 0x47}, 47862695, 0x53, DeviceHeatInlet},
		{[8]byte{0x24, 0x23, 0x20, 0x0C, 0x61, 0x04, 0x34, 0x48}, 48340461, 0x20, DeviceHeatInlet}, // S6
		{[8]byte{0x24, 0x23, 0x20, 0x04, 0x02, 0x29, 0x27, 0x51}, 51272902, 0x20, DeviceHeat},
	}
	for _, c := range cases {
		addr, err := AddressFromBytes(c.bytes)
		require.NoError(t, err)
		assert.Equal(t, HYD, addr.Manufacturer)
		assert.Equal(t, c.serial, addr.SerialNumber)
		assert.Equal(t, c.version, addr.Version)
		assert.Equal(t, c.dev, addr.DeviceType)
	}
}

func TestAddressFromBytes_InvalidBCD(t *testing.T) {
	_, err := AddressFromBytes([8]byte{0x2D, 0x2C, 0xFA, 0x56, 0x34, 0x12, 0x01, 0x32})
	require.ErrorIs(t, err, ErrSerialNumberBCD)
}

func TestWMBusAddress_Bytes_IsLossyForDiehl(t *testing.T) {
	diehlBytes := [8]byte{0x24, 0x23, 0x20, 0x0C, 0x61, 0x04, 0x34, 0x48}
	addr, err := AddressFromBytes(diehlBytes)
	require.NoError(t, err)

	reencoded := addr.Bytes()
	assert.NotEqual(t, diehlBytes, reencoded, "encode must always emit the default layout")

	roundTripped, err := AddressFromBytes(reencoded)
	require.NoError(t, err)
	assert.Equal(t, addr, roundTripped)
}

func TestWMBusAddress_RoundTrip_DefaultLayout(t *testing.T) {
	addr := WMBusAddress{Manufacturer: KAM, SerialNumber: 12345678, Version: 0x01, DeviceType: DeviceRepeater}
	back, err := AddressFromBytes(addr.Bytes())
	require.NoError(t, err)
	assert.Equal(t, addr, back)
}
