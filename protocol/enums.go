// Package protocol holds the wire-level vocabulary shared by every layer of
// the wM-Bus stack: manufacturer/device enumerations and the address codec.
package protocol

import "fmt"

// ManufacturerCode is the 2-byte manufacturer id carried little-endian on
// the wire, encoded per the flag-letter scheme from EN 13757-3 Annex D.
type ManufacturerCode uint16

// Manufacturer codes observed in the field and exercised by the fixtures in
// this repository. The list is not exhaustive; an address whose code is not
// in this table still decodes fine, it simply has no String() name.
const (
	APT ManufacturerCode = 0x8614
	DME ManufacturerCode = 0x11A5
	GAV ManufacturerCode = 0x1C36
	HYD ManufacturerCode = 0x2324
	KAM ManufacturerCode = 0x2C2D
	LUG ManufacturerCode = 0x32A7
	SON ManufacturerCode = 0x4DEE
	TCH ManufacturerCode = 0x5068
)

var manufacturerNames = map[ManufacturerCode]string{
	APT: "APT",
	DME: "DME",
	GAV: "GAV",
	HYD: "HYD",
	KAM: "KAM",
	LUG: "LUG",
	SON: "SON",
	TCH: "TCH",
}

func (m ManufacturerCode) String() string {
	if name, ok := manufacturerNames[m]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(m))
}

// DeviceType is the wM-Bus device/medium byte.
type DeviceType uint8

const (
	DeviceOther        DeviceType = 0x00
	DeviceElectricity  DeviceType = 0x02
	DeviceHeat         DeviceType = 0x04
	DeviceWarmWater    DeviceType = 0x06
	DeviceWater        DeviceType = 0x07
	DeviceCooling      DeviceType = 0x0A
	DeviceCoolingInlet DeviceType = 0x0B
	DeviceHeatInlet    DeviceType = 0x0C
	DeviceHeatCooling  DeviceType = 0x0D
	DeviceUnknown      DeviceType = 0x0F
	DeviceColdWater    DeviceType = 0x16
	DeviceRepeater     DeviceType = 0x32
)

var deviceTypeNames = map[DeviceType]string{
	DeviceOther:        "Other",
	DeviceElectricity:  "Electricity",
	DeviceHeat:         "Heat",
	DeviceWarmWater:    "WarmWater",
	DeviceWater:        "Water",
	DeviceCooling:      "Cooling",
	DeviceCoolingInlet: "CoolingInlet",
	DeviceHeatInlet:    "HeatInlet",
	DeviceHeatCooling:  "HeatCooling",
	DeviceUnknown:      "Unknown",
	DeviceColdWater:    "ColdWater",
	DeviceRepeater:     "Repeater",
}

func (d DeviceType) String() string {
	if name, ok := deviceTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(d))
}
