package protocol

import "errors"

// ErrInvalidBCD means a nibble in a packed-BCD field was greater than 9.
var ErrInvalidBCD = errors.New("protocol: invalid packed BCD digit")

// decodeBCDBE interprets bytes as big-endian packed BCD (two decimal digits
// per byte, most significant byte first) and returns the decimal value.
func decodeBCDBE(b []byte) (uint32, error) {
	var v uint32
	for _, by := range b {
		hi, lo := by>>4, by&0x0F
		if hi > 9 || lo > 9 {
			return 0, ErrInvalidBCD
		}
		v = v*100 + uint32(hi)*10 + uint32(lo)
	}
	return v, nil
}

// decodeBCDLE reverses a little-endian packed-BCD byte run to big-endian
// digit order before decoding it, mirroring the wire layout of the wM-Bus
// serial number field.
func decodeBCDLE(b []byte) (uint32, error) {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return decodeBCDBE(be)
}

// encodeBCDLE is the inverse of decodeBCDLE: it packs a decimal value into
// n bytes of BCD and reverses them to little-endian byte order.
func encodeBCDLE(value uint32, n int) []byte {
	be := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		digitPair := byte(value % 100)
		value /= 100
		be[i] = (digitPair/10)<<4 | (digitPair % 10)
	}
	le := make([]byte, n)
	for i, v := range be {
		le[n-1-i] = v
	}
	return le
}
