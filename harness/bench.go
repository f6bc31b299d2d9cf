// Package harness drives the filter engine from an event-scheduled
// clock: a driver presents one stimulus byte per cycle and observes
// busy, a capture sink records every emission with its cycle number.
// The clock is an Akita serial engine scheduling one tick event per
// cycle, so benches compose with other Akita-based models.
package harness

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/dfesim/engine"
	"github.com/sarchlab/dfesim/stimulus"
)

// Capture is one observed emission.
type Capture struct {
	// Cycle is the 1-based clock cycle of the emission.
	Cycle uint64
	// Time is the simulated time of the emission.
	Time sim.VTimeInSec
	// Value is the emitted reading.
	Value engine.Uint128
}

// Bench couples an engine with a stimulus source under a simulated
// clock.
type Bench struct {
	engine *engine.Engine
	source stimulus.Source
	mode   engine.Mode
	config *Config

	simEngine sim.Engine
	freq      sim.Freq

	cycle    uint64
	holdByte bool
	captures []Capture
}

// NewBench builds a bench. The mode is presented on the mode-select
// input every cycle; the engine latches it at each stream start.
func NewBench(e *engine.Engine, src stimulus.Source, mode engine.Mode, config *Config) *Bench {
	if config == nil {
		config = DefaultConfig()
	}
	return &Bench{
		engine:    e,
		source:    src,
		mode:      mode,
		config:    config,
		simEngine: sim.NewSerialEngine(),
		freq:      sim.Freq(config.ClockGHz) * sim.GHz,
	}
}

// tickEvent is one clock cycle.
type tickEvent struct {
	*sim.EventBase
}

// Run clocks the engine until the stimulus is exhausted (or MaxCycles
// is reached) and returns the captured emissions in order.
func (b *Bench) Run() ([]Capture, error) {
	b.scheduleTick(b.freq.NextTick(0))
	if err := b.simEngine.Run(); err != nil {
		return nil, err
	}
	return b.captures, nil
}

// Handle advances the bench by one clock cycle.
func (b *Bench) Handle(evt sim.Event) error {
	b.cycle++
	if b.config.MaxCycles > 0 && b.cycle > b.config.MaxCycles {
		return nil
	}

	// While the engine reports busy the driver pauses instead of
	// letting a byte be dropped.
	in := engine.Input{ModeSelect: b.mode}
	if !b.holdByte {
		byteVal, ok := b.source.Next()
		if !ok {
			return nil
		}
		in.Enable = true
		in.Byte = byteVal
	}

	out := b.engine.Step(in)
	if out.OutputValid {
		b.captures = append(b.captures, Capture{
			Cycle: b.cycle,
			Time:  evt.Time(),
			Value: out.OutputValue,
		})
	}
	b.holdByte = out.Busy

	b.scheduleTick(b.freq.NextTick(evt.Time()))
	return nil
}

func (b *Bench) scheduleTick(t sim.VTimeInSec) {
	b.simEngine.Schedule(tickEvent{sim.NewEventBase(t, b)})
}

// Cycles returns the number of clock cycles run so far.
func (b *Bench) Cycles() uint64 {
	return b.cycle
}

// Captures returns the emissions observed so far.
func (b *Bench) Captures() []Capture {
	return b.captures
}

// Engine exposes the engine under test.
func (b *Bench) Engine() *engine.Engine {
	return b.engine
}
