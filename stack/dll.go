package stack

import "github.com/ystepanoff/gowmbus/protocol"

// dllHeaderLength is the fixed L|C|A[0..8] header size, including the L
// byte even though L itself was already consumed by the PHL.
const dllHeaderLength = 10

// dllRead parses the 10-byte DLL header from buffer, which must still begin
// with L (buffer[0]) even though the PHL already derived the frame length
// from it; DLL does not re-interpret L, it only skips past it.
func dllRead(packet *Packet, buffer []byte, withELL bool) error {
	if len(buffer) < dllHeaderLength {
		return ErrIncomplete
	}

	control := buffer[1]
	var addrBytes [8]byte
	copy(addrBytes[:], buffer[2:10])

	address, err := protocol.AddressFromBytes(addrBytes)
	if err != nil {
		return ErrBCDConversion
	}

	packet.DLL = &DllFields{Control: control, Address: address}

	rest := buffer[dllHeaderLength:]
	if withELL {
		return ellRead(packet, rest)
	}
	return aplRead(packet, rest)
}

// dllWrite appends the control byte and address to scratch; it never
// writes L, which is reserved and filled in by the PHL.
func dllWrite(scratch []byte, fields *DllFields) ([]byte, error) {
	if fields == nil {
		return nil, ErrMissingDLL
	}
	scratch = append(scratch, fields.Control)
	addr := fields.Address.Bytes()
	scratch = append(scratch, addr[:]...)
	return scratch, nil
}
