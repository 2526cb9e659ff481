//go:build tinygo || baremetal

package nrf

import "errors"

var errInvalidChannel = errors.New("nrf: channel must be in [0, 125]")

var errFrameTooLarge = errors.New("nrf: frame exceeds the radio's packet buffer")
