package stimulus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/dfesim/engine"
)

// Program describes a stimulus run: the mode presented to the engine
// and one pattern per stream.
type Program struct {
	Mode    string       `yaml:"mode"`
	Streams []StreamSpec `yaml:"streams"`
}

// StreamSpec describes the readings of one 96-reading stream.
type StreamSpec struct {
	// Pattern is one of "constant", "ramp", or "random".
	Pattern string `yaml:"pattern"`
	// Value is the constant value, or the ramp start.
	Value uint64 `yaml:"value,omitempty"`
	// Step is the ramp increment.
	Step uint64 `yaml:"step,omitempty"`
	// Seed selects the random sequence.
	Seed int64 `yaml:"seed,omitempty"`
	// Levels and Width shape the steps pattern.
	Levels []uint64 `yaml:"levels,omitempty"`
	Width  int      `yaml:"width,omitempty"`
}

// Default returns a single-stream ramp program in max mode.
func Default() *Program {
	return &Program{
		Mode: engine.ModeMax.String(),
		Streams: []StreamSpec{
			{Pattern: "ramp", Value: 0, Step: 1},
		},
	}
}

// Load reads a program from a YAML file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the program to a YAML file.
func (p *Program) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing program: %w", err)
	}
	return nil
}

// Validate checks the mode and every stream pattern.
func (p *Program) Validate() error {
	if _, err := engine.ParseMode(p.Mode); err != nil {
		return err
	}
	if len(p.Streams) == 0 {
		return fmt.Errorf("program has no streams")
	}
	for i, s := range p.Streams {
		switch s.Pattern {
		case "constant", "ramp", "random":
		case "steps":
			if len(s.Levels) == 0 {
				return fmt.Errorf("stream %d: steps pattern needs levels", i)
			}
		default:
			return fmt.Errorf("stream %d: unknown pattern %q", i, s.Pattern)
		}
	}
	return nil
}

// EngineMode returns the latched mode the program requests.
func (p *Program) EngineMode() (engine.Mode, error) {
	return engine.ParseMode(p.Mode)
}

// Readings expands one stream spec to a full stream of readings.
func (s StreamSpec) Readings() []engine.Uint128 {
	switch s.Pattern {
	case "ramp":
		return Ramp(s.Value, s.Step, engine.ReadingsPerStream)
	case "random":
		return Random(s.Seed, engine.ReadingsPerStream)
	case "steps":
		return Steps(s.Levels, s.Width, engine.ReadingsPerStream)
	default:
		return Constant(engine.U128(0, s.Value), engine.ReadingsPerStream)
	}
}

// Expand produces the reading sequence of every stream in order.
func (p *Program) Expand() [][]engine.Uint128 {
	streams := make([][]engine.Uint128, len(p.Streams))
	for i, s := range p.Streams {
		streams[i] = s.Readings()
	}
	return streams
}
