package pad

// Direction is a set of D-pad direction flags.
type Direction byte

const (
	DirCenter    Direction = 0x00
	DirUp        Direction = 0x01
	DirRight     Direction = 0x02
	DirDown      Direction = 0x04
	DirLeft      Direction = 0x08
	DirUpRight             = DirUp | DirRight
	DirDownRight           = DirDown | DirRight
	DirUpLeft              = DirUp | DirLeft
	DirDownLeft            = DirDown | DirLeft
)

// Hat codes used by the firmware report.
const (
	HatUp        byte = 0x00
	HatUpRight   byte = 0x01
	HatRight     byte = 0x02
	HatDownRight byte = 0x03
	HatDown      byte = 0x04
	HatDownLeft  byte = 0x05
	HatLeft      byte = 0x06
	HatUpLeft    byte = 0x07
	HatCenter    byte = 0x08
)

// EncodeDPad maps direction flags to the firmware hat code. Combinations
// that no physical D-pad can produce (up+down, all four, ...) encode as
// HatCenter.
func EncodeDPad(d Direction) byte {
	switch d {
	case DirUp:
		return HatUp
	case DirUpRight:
		return HatUpRight
	case DirRight:
		return HatRight
	case DirDownRight:
		return HatDownRight
	case DirDown:
		return HatDown
	case DirDownLeft:
		return HatDownLeft
	case DirLeft:
		return HatLeft
	case DirUpLeft:
		return HatUpLeft
	default:
		return HatCenter
	}
}

// State returns the direction positioned inside a controller state.
func (d Direction) State() State {
	return State(d) << dpadShift
}
