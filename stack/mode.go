package stack

// Mode identifies which wM-Bus radio mode and frame format a byte stream
// was received in, or should be transmitted as.
type Mode int

const (
	// ModeCFFA is Mode C, Frame Format A: many small CRC-guarded blocks.
	ModeCFFA Mode = iota
	// ModeCFFB is Mode C, Frame Format B: at most two larger blocks.
	ModeCFFB
	// ModeTMTO is Mode T: three-of-six line coding layered over FFA.
	ModeTMTO
)

func (m Mode) String() string {
	switch m {
	case ModeCFFA:
		return "ModeCFFA"
	case ModeCFFB:
		return "ModeCFFB"
	case ModeTMTO:
		return "ModeTMTO"
	default:
		return "ModeUnknown"
	}
}
