package pad

import (
	"fmt"
	"sort"
	"strings"
)

var inputNames = map[string]State{
	"NONE":    Neutral,
	"Y":       ButtonY,
	"B":       ButtonB,
	"A":       ButtonA,
	"X":       ButtonX,
	"L":       ButtonL,
	"R":       ButtonR,
	"ZL":      ButtonZL,
	"ZR":      ButtonZR,
	"MINUS":   ButtonMinus,
	"PLUS":    ButtonPlus,
	"LCLICK":  ButtonLClick,
	"L3":      ButtonLClick,
	"RCLICK":  ButtonRClick,
	"R3":      ButtonRClick,
	"HOME":    ButtonHome,
	"CAPTURE": ButtonCapture,

	"DPAD_CENTER": DPadCenter,
	"DPAD_U":      DPadUp,
	"DPAD_R":      DPadRight,
	"DPAD_D":      DPadDown,
	"DPAD_L":      DPadLeft,
	"DPAD_U_R":    DPadUpRight,
	"DPAD_D_R":    DPadDownRight,
	"DPAD_U_L":    DPadUpLeft,
	"DPAD_D_L":    DPadDownLeft,

	"LSTICK_CENTER": LStickCenter,
	"LSTICK_R":      LStickRight,
	"LSTICK_U_R":    LStickUpRight,
	"LSTICK_U":      LStickUp,
	"LSTICK_U_L":    LStickUpLeft,
	"LSTICK_L":      LStickLeft,
	"LSTICK_D_L":    LStickDownLeft,
	"LSTICK_D":      LStickDown,
	"LSTICK_D_R":    LStickDownRight,

	"RSTICK_CENTER": RStickCenter,
	"RSTICK_R":      RStickRight,
	"RSTICK_U_R":    RStickUpRight,
	"RSTICK_U":      RStickUp,
	"RSTICK_U_L":    RStickUpLeft,
	"RSTICK_L":      RStickLeft,
	"RSTICK_D_L":    RStickDownLeft,
	"RSTICK_D":      RStickDown,
	"RSTICK_D_R":    RStickDownRight,
}

var buttonNames = []struct {
	name string
	b    State
}{
	{"Y", ButtonY}, {"B", ButtonB}, {"A", ButtonA}, {"X", ButtonX},
	{"L", ButtonL}, {"R", ButtonR}, {"ZL", ButtonZL}, {"ZR", ButtonZR},
	{"MINUS", ButtonMinus}, {"PLUS", ButtonPlus},
	{"LCLICK", ButtonLClick}, {"RCLICK", ButtonRClick},
	{"HOME", ButtonHome}, {"CAPTURE", ButtonCapture},
}

// ParseInput resolves a single input name such as "A", "dpad_u_r" or
// "LSTICK_D". Names are case-insensitive and '-' may be used for '_'.
func ParseInput(name string) (State, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	s, ok := inputNames[key]
	if !ok {
		return Neutral, fmt.Errorf("unknown input %q", name)
	}
	return s, nil
}

// ParseInputs ORs together every named input.
func ParseInputs(names []string) (State, error) {
	var out State
	for _, n := range names {
		s, err := ParseInput(n)
		if err != nil {
			return Neutral, err
		}
		out |= s
	}
	return out, nil
}

// InputNames lists every name accepted by ParseInput.
func InputNames() []string {
	names := make([]string, 0, len(inputNames))
	for n := range inputNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s State) String() string {
	if s == Neutral {
		return "NONE"
	}
	var parts []string
	for _, bn := range buttonNames {
		if s&bn.b != 0 {
			parts = append(parts, bn.name)
		}
	}
	if d := s.DPad(); d != DirCenter {
		parts = append(parts, "DPAD:"+d.String())
	}
	if a, i := s.LeftStick(); i != 0 {
		parts = append(parts, fmt.Sprintf("LSTICK:%d@%d", a, i))
	}
	if a, i := s.RightStick(); i != 0 {
		parts = append(parts, fmt.Sprintf("RSTICK:%d@%d", a, i))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0x%016X", uint64(s))
	}
	return strings.Join(parts, "+")
}

func (d Direction) String() string {
	var b strings.Builder
	for _, f := range []struct {
		flag Direction
		c    byte
	}{{DirUp, 'U'}, {DirDown, 'D'}, {DirLeft, 'L'}, {DirRight, 'R'}} {
		if d&f.flag != 0 {
			b.WriteByte(f.c)
		}
	}
	if b.Len() == 0 {
		return "C"
	}
	return b.String()
}
