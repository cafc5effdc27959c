package pad

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	stickCenter = 0x80
	stickRange  = 0x7F
	maxByte     = 0xFF
)

// PolarToCartesian converts a stick angle in degrees and an intensity
// (0-255) into the X/Y bytes of the report. Any integer angle is accepted
// and normalized to one turn. Y is inverted: up is 0, down is 255.
func PolarToCartesian(angle, intensity int) (x, y byte) {
	intensity = clamp(intensity, 0, maxByte)
	if intensity == 0 {
		return stickCenter, stickCenter
	}
	rad := float64(normalizeAngle(angle)) * math.Pi / 180
	scale := stickRange * float64(intensity) / maxByte

	fx := int(math.Round(math.Cos(rad)*scale)) + stickCenter
	fy := -int(math.Round(math.Sin(rad)*scale)) + stickCenter
	return byte(clamp(fx, 0, maxByte)), byte(clamp(fy, 0, maxByte))
}

// LStick packs a left stick position. Angles in 0-4095 are stored verbatim
// so sweeps past 360 keep counting; anything else is reduced mod 360.
func LStick(angle, intensity int) State {
	return State(packStick(angle, intensity)) << lstickShift
}

// RStick packs a right stick position.
func RStick(angle, intensity int) State {
	return State(packStick(angle, intensity)) << rstickShift
}

func packStick(angle, intensity int) uint64 {
	if angle < 0 || angle > angleMask {
		angle = normalizeAngle(angle)
	}
	return uint64(clamp(intensity, 0, maxByte)) | uint64(angle)<<8
}

func unpackStick(v uint64) (angle, intensity int) {
	return int(v >> 8 & angleMask), int(v & intensityMask)
}

func normalizeAngle(angle int) int {
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return angle
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
