package pad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/pad"
	"github.com/Alia5/padlink/wire"
)

func TestEncodeDPad(t *testing.T) {
	type testCase struct {
		name string
		dir  pad.Direction
		want byte
	}

	legal := []testCase{
		{name: "center", dir: pad.DirCenter, want: 0x08},
		{name: "up", dir: pad.DirUp, want: 0x00},
		{name: "up right", dir: pad.DirUpRight, want: 0x01},
		{name: "right", dir: pad.DirRight, want: 0x02},
		{name: "down right", dir: pad.DirDownRight, want: 0x03},
		{name: "down", dir: pad.DirDown, want: 0x04},
		{name: "down left", dir: pad.DirDownLeft, want: 0x05},
		{name: "left", dir: pad.DirLeft, want: 0x06},
		{name: "up left", dir: pad.DirUpLeft, want: 0x07},
	}

	seen := map[byte]pad.Direction{}
	for _, tc := range legal {
		t.Run(tc.name, func(t *testing.T) {
			got := pad.EncodeDPad(tc.dir)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, pad.EncodeDPad(tc.dir), "must be deterministic")
		})
		prev, dup := seen[tc.want]
		assert.False(t, dup, "%v and %v share hat code", prev, tc.dir)
		seen[tc.want] = tc.dir
	}

	illegal := []pad.Direction{
		pad.DirUp | pad.DirDown,
		pad.DirLeft | pad.DirRight,
		pad.DirUp | pad.DirDown | pad.DirLeft,
		pad.DirUp | pad.DirDown | pad.DirLeft | pad.DirRight,
		0x10,
		0xFF,
	}
	for _, d := range illegal {
		assert.Equal(t, pad.HatCenter, pad.EncodeDPad(d), "flags 0x%02X", byte(d))
	}
}

func TestPolarToCartesianZeroIntensity(t *testing.T) {
	for _, angle := range []int{0, 90, 180, 270, 361, -45} {
		x, y := pad.PolarToCartesian(angle, 0)
		assert.Equal(t, byte(128), x, "angle %d", angle)
		assert.Equal(t, byte(128), y, "angle %d", angle)
	}
}

func TestPolarToCartesian(t *testing.T) {
	type testCase struct {
		angle, intensity int
		x, y             byte
	}

	cases := []testCase{
		{angle: 0, intensity: 255, x: 255, y: 128},
		{angle: 90, intensity: 255, x: 128, y: 1},
		{angle: 180, intensity: 255, x: 1, y: 128},
		{angle: 270, intensity: 255, x: 128, y: 255},
		{angle: 45, intensity: 255, x: 218, y: 38},
		{angle: 315, intensity: 255, x: 218, y: 218},
		{angle: 45, intensity: 128, x: 173, y: 83},
		{angle: 450, intensity: 255, x: 128, y: 1},
		{angle: -90, intensity: 255, x: 128, y: 255},
		{angle: 0, intensity: 1000, x: 255, y: 128},
		{angle: 0, intensity: -5, x: 128, y: 128},
	}

	for _, tc := range cases {
		x, y := pad.PolarToCartesian(tc.angle, tc.intensity)
		assert.InDelta(t, tc.x, x, 1, "x for angle=%d intensity=%d", tc.angle, tc.intensity)
		assert.InDelta(t, tc.y, y, 1, "y for angle=%d intensity=%d", tc.angle, tc.intensity)
	}
}

func TestStickPacking(t *testing.T) {
	assert.Equal(t, pad.LStickUp, pad.LStick(90, 0xFF))
	assert.Equal(t, pad.LStickDownRight, pad.LStick(315, 0xFF))
	assert.Equal(t, pad.RStickUp, pad.RStick(90, 0xFF))
	assert.Equal(t, pad.RStickDown, pad.RStick(270, 0xFF))

	// Sweeps past one turn keep the raw angle.
	a, i := pad.LStick(811, 0x80).LeftStick()
	assert.Equal(t, 811, a)
	assert.Equal(t, 0x80, i)

	a, i = pad.RStick(-45, 0xFF).RightStick()
	assert.Equal(t, 315, a)
	assert.Equal(t, 0xFF, i)

	// Zero intensity keeps its angle.
	a, i = pad.LStick(123, 0).LeftStick()
	assert.Equal(t, 123, a)
	assert.Equal(t, 0, i)

	s := (pad.ButtonA | pad.LStickUp).WithLeftStick(180, 0x40)
	assert.Equal(t, pad.ButtonA|pad.LStick(180, 0x40), s)
	s = (pad.RStickLeft | pad.LStickUp).WithRightStick(0, 0)
	assert.Equal(t, pad.LStickUp|pad.RStick(0, 0), s)
}

func TestPayload(t *testing.T) {
	type testCase struct {
		name    string
		state   pad.State
		payload wire.Payload
	}

	cases := []testCase{
		{
			name:    "neutral",
			state:   pad.Neutral,
			payload: wire.NeutralPayload,
		},
		{
			name:    "button A",
			state:   pad.ButtonA,
			payload: wire.Payload{0x00, 0x04, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00},
		},
		{
			name:    "home and A",
			state:   pad.ButtonHome | pad.ButtonA,
			payload: wire.Payload{0x10, 0x04, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00},
		},
		{
			name:    "dpad up right",
			state:   pad.DPadUpRight,
			payload: wire.Payload{0x00, 0x00, 0x01, 0x80, 0x80, 0x80, 0x80, 0x00},
		},
		{
			name:    "conflicting dpad",
			state:   pad.DPadUp | pad.DPadDown,
			payload: wire.NeutralPayload,
		},
		{
			name:    "left stick up",
			state:   pad.LStickUp,
			payload: wire.Payload{0x00, 0x00, 0x08, 0x80, 0x01, 0x80, 0x80, 0x00},
		},
		{
			name:    "right stick down right with ZR",
			state:   pad.RStickDownRight | pad.ButtonZR,
			payload: wire.Payload{0x00, 0x80, 0x08, 0x80, 0x80, 0xDA, 0xDA, 0x00},
		},
		{
			name:    "both sticks",
			state:   pad.LStickLeft | pad.RStickRight,
			payload: wire.Payload{0x00, 0x00, 0x08, 0x01, 0x80, 0xFF, 0x80, 0x00},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.payload, tc.state.Payload())
			assert.True(t, tc.state.Packet().Valid())
		})
	}
}

func TestNeutralPacketReference(t *testing.T) {
	pkt := pad.Neutral.Packet()
	assert.Equal(t, []byte{0x00, 0x00, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00, 0x54}, pkt.Bytes())
}

func TestAccessors(t *testing.T) {
	s := pad.ButtonB | pad.ButtonCapture | pad.DPadDownLeft
	assert.Equal(t, uint16(0x2002), s.Buttons())
	assert.Equal(t, pad.DirDownLeft, s.DPad())
	assert.Equal(t, pad.DPadDownLeft, pad.DirDownLeft.State())
}

func TestParseInputs(t *testing.T) {
	s, err := pad.ParseInput("a")
	require.NoError(t, err)
	assert.Equal(t, pad.ButtonA, s)

	s, err = pad.ParseInputs([]string{"ZL", "dpad-u-r", " LSTICK_D "})
	require.NoError(t, err)
	assert.Equal(t, pad.ButtonZL|pad.DPadUpRight|pad.LStickDown, s)

	_, err = pad.ParseInput("turbo")
	assert.ErrorContains(t, err, "turbo")

	assert.Contains(t, pad.InputNames(), "RSTICK_U_L")
}

func TestString(t *testing.T) {
	assert.Equal(t, "NONE", pad.Neutral.String())
	assert.Equal(t, "A+HOME", (pad.ButtonA | pad.ButtonHome).String())
	assert.Equal(t, "DPAD:UR", pad.DPadUpRight.String())
	assert.Equal(t, "LSTICK:90@255", pad.LStickUp.String())
	assert.Equal(t, "B+RSTICK:180@255", (pad.ButtonB | pad.RStickLeft).String())
}
