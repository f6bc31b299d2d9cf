package engine

// Stream geometry. These values are fixed by the engine's external
// contract; changing any of them changes the observable byte-level
// behavior.
const (
	// BytesPerReading is the number of input bytes assembled into one
	// reading, most significant byte first.
	BytesPerReading = 16

	// ReadingsPerGroup is the aggregation window for the grouped
	// modes (max, min, average, peak).
	ReadingsPerGroup = 8

	// ReadingsPerStream is the stream capacity. Once this many
	// readings have completed the engine reports busy and restarts
	// the stream counters.
	ReadingsPerStream = 96

	// GroupsPerStream is the number of groups in one stream.
	GroupsPerStream = ReadingsPerStream / ReadingsPerGroup
)

// state is the engine's mutable runtime data: pure values, copied
// wholesale at the start of every tick so that the mode processor and
// the output stage both observe the previous tick's registers.
type state struct {
	// mode is the function latched for the current stream. It is
	// captured when the second byte of the stream's first reading is
	// accepted and held until the stream counters wrap.
	mode Mode

	// buf holds the reading under assembly. The newest byte sits at
	// the low end; after BytesPerReading insertions the first byte
	// received is the most significant.
	buf     Uint128
	bytePos int

	// streamPos is the index of the reading under assembly within
	// the stream. It holds ReadingsPerStream for exactly one tick
	// after the final reading completes (the busy window) before
	// wrapping to zero.
	streamPos int
	groupPos  int
	groupIdx  int

	// acc is the running accumulator, reseeded from the first
	// reading of every group.
	acc accum

	// keep is the peak-tracking memory for the peak modes: the best
	// value confirmed across all prior groups of the current stream.
	// Reseeded from the first reading of every stream.
	keep Uint128
}
