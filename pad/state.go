// Package pad models the logical state of the emulated controller and
// encodes it into the report payload understood by the firmware.
//
// A State packs every input into one uint64 so that inputs can be combined
// with a plain bitwise OR:
//
//	bits  0-15: buttons
//	bits 16-23: D-pad direction flags
//	bits 24-31: left stick intensity (0-255)
//	bits 32-43: left stick angle in degrees (12 bit)
//	bits 44-51: right stick intensity
//	bits 52-63: right stick angle
//
// Combining two stick values for the same stick with OR does not produce a
// meaningful position; build stick values with LStick and RStick instead.
package pad

import (
	"github.com/Alia5/padlink/wire"
)

// State is a complete controller input snapshot.
type State uint64

// Neutral releases every input.
const Neutral State = 0

// Buttons.
const (
	ButtonNone    State = 0x0000
	ButtonY       State = 0x0001
	ButtonB       State = 0x0002
	ButtonA       State = 0x0004
	ButtonX       State = 0x0008
	ButtonL       State = 0x0010
	ButtonR       State = 0x0020
	ButtonZL      State = 0x0040
	ButtonZR      State = 0x0080
	ButtonMinus   State = 0x0100
	ButtonPlus    State = 0x0200
	ButtonLClick  State = 0x0400
	ButtonRClick  State = 0x0800
	ButtonHome    State = 0x1000
	ButtonCapture State = 0x2000
)

// D-pad values as they appear inside a State.
const (
	DPadCenter    State = 0
	DPadUp        State = State(DirUp) << dpadShift
	DPadRight     State = State(DirRight) << dpadShift
	DPadDown      State = State(DirDown) << dpadShift
	DPadLeft      State = State(DirLeft) << dpadShift
	DPadUpRight         = DPadUp | DPadRight
	DPadDownRight       = DPadDown | DPadRight
	DPadUpLeft          = DPadUp | DPadLeft
	DPadDownLeft        = DPadDown | DPadLeft
)

// Left stick at full intensity in the eight compass directions.
const (
	LStickCenter    State = 0x0000000000000000
	LStickRight     State = 0x00000000FF000000 //   0
	LStickUpRight   State = 0x0000002DFF000000 //  45
	LStickUp        State = 0x0000005AFF000000 //  90
	LStickUpLeft    State = 0x00000087FF000000 // 135
	LStickLeft      State = 0x000000B4FF000000 // 180
	LStickDownLeft  State = 0x000000E1FF000000 // 225
	LStickDown      State = 0x0000010EFF000000 // 270
	LStickDownRight State = 0x0000013BFF000000 // 315
)

// Right stick at full intensity in the eight compass directions.
const (
	RStickCenter    State = 0x0000000000000000
	RStickRight     State = 0x000FF00000000000 //   0
	RStickUpRight   State = 0x02DFF00000000000 //  45
	RStickUp        State = 0x05AFF00000000000 //  90
	RStickUpLeft    State = 0x087FF00000000000 // 135
	RStickLeft      State = 0x0B4FF00000000000 // 180
	RStickDownLeft  State = 0x0E1FF00000000000 // 225
	RStickDown      State = 0x10EFF00000000000 // 270
	RStickDownRight State = 0x13BFF00000000000 // 315
)

const (
	buttonsMask = 0xFFFF

	dpadShift   = 16
	lstickShift = 24
	rstickShift = 44

	intensityMask = 0xFF
	angleMask     = 0xFFF
	stickMask     = intensityMask | angleMask<<8
)

// Buttons returns the button bitfield.
func (s State) Buttons() uint16 {
	return uint16(s & buttonsMask)
}

// DPad returns the raw D-pad direction flags.
func (s State) DPad() Direction {
	return Direction(s >> dpadShift)
}

// LeftStick returns the packed left stick angle (raw 12-bit degrees) and
// intensity.
func (s State) LeftStick() (angle, intensity int) {
	return unpackStick(uint64(s) >> lstickShift)
}

// RightStick returns the packed right stick angle and intensity.
func (s State) RightStick() (angle, intensity int) {
	return unpackStick(uint64(s) >> rstickShift)
}

// WithLeftStick returns s with the left stick region replaced.
func (s State) WithLeftStick(angle, intensity int) State {
	return s&^(stickMask<<lstickShift) | LStick(angle, intensity)
}

// WithRightStick returns s with the right stick region replaced.
func (s State) WithRightStick(angle, intensity int) State {
	return s&^(stickMask<<rstickShift) | RStick(angle, intensity)
}

// Payload decodes the packed state into the report payload:
// [buttonsHigh, buttonsLow, hat, lx, ly, rx, ry, 0].
func (s State) Payload() wire.Payload {
	v := uint64(s)
	low := byte(v)
	v >>= 8
	high := byte(v)
	v >>= 8
	dpad := Direction(v & 0xFF)
	v >>= 8
	lIntensity := int(v & intensityMask)
	v >>= 8
	lAngle := int(v & angleMask)
	v >>= 12
	rIntensity := int(v & intensityMask)
	v >>= 8
	rAngle := int(v & angleMask)

	lx, ly := PolarToCartesian(lAngle, lIntensity)
	rx, ry := PolarToCartesian(rAngle, rIntensity)

	return wire.Payload{high, low, EncodeDPad(dpad), lx, ly, rx, ry, 0x00}
}

// Packet frames the state's payload with its checksum.
func (s State) Packet() wire.Packet {
	return wire.BuildPacket(s.Payload())
}
