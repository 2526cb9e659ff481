//go:build tinygo || baremetal

package nrf

import "device/nrf"

// StartHFCLK starts the high-frequency clock required by the radio.
func StartHFCLK() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// maxFrameBytes bounds the nRF peripheral's on-air packet size; it has no
// relationship to wM-Bus's own frame-length fields, which are interpreted
// entirely in software by the stack codec once bytes land in buffer.
const maxFrameBytes = 255

// ConfigureRadio sets up the nRF radio's modulation, power, and addressing
// for the given channel. CRC checking is disabled in hardware (CRCCNF=0):
// wM-Bus frames carry their own per-block CRC-16/EN-13757, verified in
// software by the stack codec, so the peripheral's CRC engine would only
// discard frames it can't itself validate against the wrong polynomial.
func ConfigureRadio(address uint32, prefix byte, channel uint8) error {
	if channel > 125 {
		return errInvalidChannel
	}

	nrf.RADIO.POWER.Set(1)
	nrf.RADIO.MODE.Set(nrf.RADIO_MODE_MODE_Nrf_1Mbit)
	nrf.RADIO.TXPOWER.Set(nrf.RADIO_TXPOWER_TXPOWER_0dBm)
	nrf.RADIO.FREQUENCY.Set(uint32(channel))

	nrf.RADIO.BASE0.Set(address)
	nrf.RADIO.PREFIX0.Set(uint32(prefix))
	nrf.RADIO.TXADDRESS.Set(0)
	nrf.RADIO.RXADDRESSES.Set(1)

	nrf.RADIO.PCNF0.Set(
		(8 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S1LEN_Pos))

	nrf.RADIO.PCNF1.Set(
		(maxFrameBytes << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			(3 << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Little << nrf.RADIO_PCNF1_ENDIAN_Pos))

	nrf.RADIO.CRCCNF.Set(0)

	return nil
}
