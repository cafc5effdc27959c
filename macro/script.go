package macro

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/Alia5/padlink/pad"
)

// Script is a user-defined macro loaded from YAML or TOML.
type Script struct {
	Name        string   `yaml:"name" toml:"name"`
	Description string   `yaml:"description" toml:"description"`
	Assumptions []string `yaml:"assumptions" toml:"assumptions"`
	Iterations  int      `yaml:"iterations" toml:"iterations"`
	Steps       []Step   `yaml:"steps" toml:"steps"`
}

// Step is one action of a script. Exactly one of Press, Tap or Release may
// be set; a step with only Wait is a pause. Sticks without Press or Tap are
// pressed.
type Step struct {
	Press      []string       `yaml:"press" toml:"press"`
	Tap        []string       `yaml:"tap" toml:"tap"`
	LeftStick  *StickPosition `yaml:"left_stick" toml:"left_stick"`
	RightStick *StickPosition `yaml:"right_stick" toml:"right_stick"`
	// Hold releases a pressed state after the given duration.
	Hold    string `yaml:"hold" toml:"hold"`
	Wait    string `yaml:"wait" toml:"wait"`
	Release bool   `yaml:"release" toml:"release"`
	Repeat  int    `yaml:"repeat" toml:"repeat"`
}

// StickPosition positions a stick in degrees and 0-255 intensity.
type StickPosition struct {
	Angle     int `yaml:"angle" toml:"angle"`
	Intensity int `yaml:"intensity" toml:"intensity"`
}

type stepKind int

const (
	stepPause stepKind = iota
	stepPress
	stepTap
	stepRelease
)

type compiledStep struct {
	kind   stepKind
	state  pad.State
	hold   time.Duration
	wait   time.Duration
	repeat int
}

var ErrUnsupportedFormat = errors.New("unsupported script format")

// ParseScript decodes data as YAML or TOML depending on ext (".yaml",
// ".yml", ".toml") and validates it.
func ParseScript(data []byte, ext string) (*Script, error) {
	var s Script
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if _, err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads and parses a script file. A script without a name is
// named after the file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := filepath.Ext(path)
	s, err := ParseScript(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return s, nil
}

// Macro converts the script into a runnable macro.
func (s *Script) Macro() (*Macro, error) {
	steps, err := s.compile()
	if err != nil {
		return nil, err
	}
	desc := s.Description
	if desc == "" {
		desc = "Script macro"
	}
	return &Macro{
		Name:              s.Name,
		Description:       desc,
		Assumptions:       s.Assumptions,
		DefaultIterations: max(s.Iterations, 1),
		Run: func(ctx context.Context, env *Env) error {
			return runSteps(ctx, env, steps)
		},
	}, nil
}

func (s *Script) compile() ([]compiledStep, error) {
	if s.Iterations < 0 {
		return nil, fmt.Errorf("iterations must not be negative")
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	out := make([]compiledStep, 0, len(s.Steps))
	for i, st := range s.Steps {
		c, err := st.compile()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (st Step) compile() (compiledStep, error) {
	c := compiledStep{repeat: 1}
	if st.Repeat < 0 {
		return c, fmt.Errorf("repeat must not be negative")
	}
	if st.Repeat > 0 {
		c.repeat = st.Repeat
	}

	var err error
	if c.hold, err = parseDuration("hold", st.Hold); err != nil {
		return c, err
	}
	if c.wait, err = parseDuration("wait", st.Wait); err != nil {
		return c, err
	}

	hasSticks := st.LeftStick != nil || st.RightStick != nil
	switch {
	case st.Release && (len(st.Press) > 0 || len(st.Tap) > 0 || hasSticks):
		return c, fmt.Errorf("release cannot be combined with inputs")
	case len(st.Press) > 0 && len(st.Tap) > 0:
		return c, fmt.Errorf("press and tap are mutually exclusive")
	case st.Release:
		c.kind = stepRelease
	case len(st.Tap) > 0:
		c.kind = stepTap
	case len(st.Press) > 0 || hasSticks:
		c.kind = stepPress
	default:
		c.kind = stepPause
	}
	if c.hold > 0 && c.kind != stepPress {
		return c, fmt.Errorf("hold only applies to press")
	}

	names := st.Press
	if c.kind == stepTap {
		names = st.Tap
	}
	if c.state, err = pad.ParseInputs(names); err != nil {
		return c, err
	}
	if sp := st.LeftStick; sp != nil {
		if err := sp.validate(); err != nil {
			return c, fmt.Errorf("left_stick: %w", err)
		}
		c.state = c.state.WithLeftStick(sp.Angle, sp.Intensity)
	}
	if sp := st.RightStick; sp != nil {
		if err := sp.validate(); err != nil {
			return c, fmt.Errorf("right_stick: %w", err)
		}
		c.state = c.state.WithRightStick(sp.Angle, sp.Intensity)
	}
	return c, nil
}

func (sp *StickPosition) validate() error {
	if sp.Intensity < 0 || sp.Intensity > 0xFF {
		return fmt.Errorf("intensity %d out of range 0-255", sp.Intensity)
	}
	return nil
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

func runSteps(ctx context.Context, env *Env, steps []compiledStep) error {
	for i := range env.Iterations {
		if env.Iterations > 1 {
			env.Printf("Loop #%d of %d\n", i+1, env.Iterations)
		}
		for _, st := range steps {
			for range st.repeat {
				if err := st.run(ctx, env); err != nil {
					return err
				}
			}
		}
	}
	return finish(ctx, env)
}

func (st compiledStep) run(ctx context.Context, env *Env) error {
	switch st.kind {
	case stepPress:
		if st.hold > 0 {
			if err := env.Hold(ctx, st.state, st.hold); err != nil {
				return err
			}
		} else if err := env.Send(ctx, st.state); err != nil {
			return err
		}
	case stepTap:
		return env.Tap(ctx, st.state, st.wait)
	case stepRelease:
		if err := env.Release(ctx); err != nil {
			return err
		}
	}
	return env.Wait(ctx, st.wait)
}

// LoadDir registers every *.yaml, *.yml and *.toml script in dir. A missing
// dir is not an error. Scripts may not replace already registered macros.
func LoadDir(dir string) ([]*Macro, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var loaded []*Macro
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".toml":
		default:
			continue
		}
		m, err := RegisterScript(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, m)
	}
	return loaded, nil
}

// RegisterScript loads the script at path and registers it.
func RegisterScript(path string) (*Macro, error) {
	s, err := LoadScript(path)
	if err != nil {
		return nil, err
	}
	m, err := s.Macro()
	if err != nil {
		return nil, err
	}
	if err := Register(m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
