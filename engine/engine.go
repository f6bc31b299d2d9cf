// Package engine implements a cycle-accurate streaming data-filter
// engine. The engine ingests one byte per tick, assembles fixed-width
// readings, and emits derived or filtered readings in lockstep with
// the input clock according to a mode latched at stream start.
//
// Three stages cooperate on every tick:
//
//   - the assembler accumulates bytes into readings and tracks the
//     stream, group, and byte counters;
//   - the mode processor updates the running accumulator on every
//     "reading complete" tick;
//   - the output stage decides, on the same tick, whether a result is
//     emitted.
//
// The mode processor and the output stage both read the previous
// tick's registers: Step snapshots the whole state, computes every
// next-state value from the snapshot, and commits at the end, so the
// one-cycle look-behind between "reading assembled" and "result
// available" holds by construction.
package engine

// Input carries the per-tick stimulus presented to the engine.
type Input struct {
	// Reset reinitializes all state this tick, pre-empting every
	// other field.
	Reset bool

	// Enable gates byte acceptance. When false, no state advances.
	Enable bool

	// Byte is the next stimulus byte.
	Byte uint8

	// ModeSelect is the externally requested mode. It is sampled
	// only when the second byte of a stream's first reading is
	// accepted; changes at any other time are ignored for the
	// remainder of the stream.
	ModeSelect Mode
}

// Output carries the per-tick results.
type Output struct {
	// Busy is true once the stream capacity is reached. A byte
	// presented while busy is dropped, not buffered.
	Busy bool

	// OutputValid is asserted for at most one tick per completed
	// reading. OutputValue is meaningful only while it is true.
	OutputValid bool
	OutputValue Uint128
}

// TraceEvent describes one completed reading, for capture sinks.
type TraceEvent struct {
	Tick      uint64
	StreamPos int
	GroupPos  int
	GroupIdx  int
	Reading   Uint128
	Emitted   bool
	Value     Uint128
}

// Statistics holds diagnostic counters. They never influence engine
// behavior.
type Statistics struct {
	// Ticks is the total number of Step calls, including resets.
	Ticks uint64
	// BytesAccepted is the number of bytes shifted into readings.
	BytesAccepted uint64
	// BytesDroppedBusy counts bytes presented while busy.
	BytesDroppedBusy uint64
	// ReadingsAssembled counts completed readings.
	ReadingsAssembled uint64
	// OutputsEmitted counts ticks with OutputValid asserted.
	OutputsEmitted uint64
	// StreamsCompleted counts full 96-reading streams.
	StreamsCompleted uint64
	// Resets counts reset ticks.
	Resets uint64
}

// EmitRate returns emitted outputs per assembled reading.
func (s Statistics) EmitRate() float64 {
	if s.ReadingsAssembled == 0 {
		return 0
	}
	return float64(s.OutputsEmitted) / float64(s.ReadingsAssembled)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTracer installs a callback invoked once per completed reading,
// after the tick's state has been committed.
func WithTracer(fn func(TraceEvent)) Option {
	return func(e *Engine) {
		e.tracer = fn
	}
}

// Engine is the filter engine. It owns its state exclusively; Step is
// the only transition and is not safe for concurrent use.
type Engine struct {
	st     state
	stats  Statistics
	tracer func(TraceEvent)
}

// New creates an engine in the reset state.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step advances the engine by one tick. Exactly one byte may be
// admitted per call; all outputs reflect the state as committed at the
// end of this tick.
func (e *Engine) Step(in Input) Output {
	e.stats.Ticks++

	if in.Reset {
		e.st = state{}
		e.stats.Resets++
		return Output{}
	}

	// Snapshot. Every next-state value below derives from cur so the
	// mode processor and output stage observe a consistent previous
	// tick, never each other's current-tick results.
	cur := e.st
	next := cur

	// Busy window: the stream capacity was reached last tick. Any
	// byte presented now is dropped, and the counters rewind so the
	// next tick starts a fresh stream.
	if cur.streamPos >= ReadingsPerStream {
		if in.Enable {
			e.stats.BytesDroppedBusy++
		}
		next.streamPos = 0
		e.st = next
		return Output{Busy: true}
	}

	if !in.Enable {
		return Output{}
	}

	// Mode latch: second byte of the stream's first reading. A
	// mode-select change between the first and second byte is
	// honored; later changes are not.
	if cur.streamPos == 0 && cur.bytePos == 1 {
		next.mode = in.ModeSelect
	}

	next.buf = cur.buf.ShiftInByte(in.Byte)
	next.bytePos = cur.bytePos + 1
	e.stats.BytesAccepted++

	if next.bytePos < BytesPerReading {
		e.st = next
		return Output{}
	}

	// Reading complete.
	reading := next.buf
	next.buf = Uint128{}
	next.bytePos = 0
	e.stats.ReadingsAssembled++

	res := nextAccumulator(cur, reading)
	next.acc = res.acc
	if res.setKeep {
		next.keep = res.keep
	}

	value, valid := emission(cur, reading)
	if valid {
		e.stats.OutputsEmitted++
	}

	next.streamPos = cur.streamPos + 1
	next.groupPos = cur.groupPos + 1
	if next.groupPos == ReadingsPerGroup {
		next.groupPos = 0
		next.groupIdx = cur.groupIdx + 1
		if next.groupIdx == GroupsPerStream {
			next.groupIdx = 0
		}
	}
	if next.streamPos == ReadingsPerStream {
		e.stats.StreamsCompleted++
	}

	e.st = next

	if e.tracer != nil {
		e.tracer(TraceEvent{
			Tick:      e.stats.Ticks,
			StreamPos: cur.streamPos,
			GroupPos:  cur.groupPos,
			GroupIdx:  cur.groupIdx,
			Reading:   reading,
			Emitted:   valid,
			Value:     value,
		})
	}

	return Output{
		Busy:        next.streamPos >= ReadingsPerStream,
		OutputValid: valid,
		OutputValue: value,
	}
}

// Reset clears all engine state and statistics, equivalent to a Step
// with Reset asserted except that the counters restart too.
func (e *Engine) Reset() {
	e.st = state{}
	e.stats = Statistics{}
}

// Mode returns the mode latched for the current stream.
func (e *Engine) Mode() Mode {
	return e.st.mode
}

// Busy reports whether the engine is in its busy window.
func (e *Engine) Busy() bool {
	return e.st.streamPos >= ReadingsPerStream
}

// Stats returns a copy of the diagnostic counters.
func (e *Engine) Stats() Statistics {
	return e.stats
}
