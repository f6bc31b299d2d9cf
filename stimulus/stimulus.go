// Package stimulus generates, encodes, and transports the byte
// stimulus consumed by the filter engine: deterministic reading
// patterns for tests and benches, raw byte files, and live serial
// sources.
package stimulus

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/sarchlab/dfesim/engine"
)

// Constant returns n copies of v.
func Constant(v engine.Uint128, n int) []engine.Uint128 {
	readings := make([]engine.Uint128, n)
	for i := range readings {
		readings[i] = v
	}
	return readings
}

// Ramp returns n readings starting at start and advancing by step.
// The ramp runs in the low 64 bits; overflow wraps.
func Ramp(start, step uint64, n int) []engine.Uint128 {
	readings := make([]engine.Uint128, n)
	v := start
	for i := range readings {
		readings[i] = engine.U128(0, v)
		v += step
	}
	return readings
}

// Steps returns n readings stepping through levels, holding each
// level for width readings and cycling back to the first.
func Steps(levels []uint64, width, n int) []engine.Uint128 {
	if width <= 0 {
		width = 1
	}
	readings := make([]engine.Uint128, n)
	if len(levels) == 0 {
		return readings
	}
	for i := range readings {
		readings[i] = engine.U128(0, levels[(i/width)%len(levels)])
	}
	return readings
}

// Random returns n deterministic full-range readings for the seed.
func Random(seed int64, n int) []engine.Uint128 {
	rng := rand.New(rand.NewSource(seed))
	readings := make([]engine.Uint128, n)
	for i := range readings {
		readings[i] = engine.U128(rng.Uint64(), rng.Uint64())
	}
	return readings
}

// Encode serializes readings into the engine's wire order: 16 bytes
// per reading, most significant byte first.
func Encode(readings []engine.Uint128) []byte {
	data := make([]byte, 0, len(readings)*engine.BytesPerReading)
	for _, r := range readings {
		b := r.Bytes()
		data = append(data, b[:]...)
	}
	return data
}

// Decode parses wire-order bytes back into readings.
func Decode(data []byte) ([]engine.Uint128, error) {
	if len(data)%engine.BytesPerReading != 0 {
		return nil, fmt.Errorf("stimulus length %d is not a multiple of %d bytes",
			len(data), engine.BytesPerReading)
	}
	readings := make([]engine.Uint128, 0, len(data)/engine.BytesPerReading)
	for i := 0; i < len(data); i += engine.BytesPerReading {
		var r engine.Uint128
		for _, b := range data[i : i+engine.BytesPerReading] {
			r = r.ShiftInByte(b)
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// WriteFile stores readings as a raw wire-order byte file.
func WriteFile(path string, readings []engine.Uint128) error {
	if err := os.WriteFile(path, Encode(readings), 0o644); err != nil {
		return fmt.Errorf("writing stimulus: %w", err)
	}
	return nil
}

// ReadFile loads a raw wire-order byte file.
func ReadFile(path string) ([]engine.Uint128, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stimulus: %w", err)
	}
	return Decode(data)
}
