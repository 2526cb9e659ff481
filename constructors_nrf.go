//go:build tinygo || baremetal

// This file is built only for embedded targets (using the nRF52 RADIO
// peripheral as a structural Transceiver example; see driver/nrf for the
// hardware caveat).
package gowmbus

import (
	"github.com/ystepanoff/gowmbus/driver/nrf"
)

// NewNRFController wraps an nrf.Driver in a Controller.
func NewNRFController(opts ...ControllerOption) *Controller {
	return NewController(nrf.New(), opts...)
}
