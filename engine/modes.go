package engine

import "fmt"

// Mode selects the filter function applied to a stream. The mode is
// sampled from the external mode-select input once per stream, when
// the second byte of the stream's first reading arrives.
type Mode uint8

const (
	// ModeNone means no function has been latched yet; completed
	// readings advance the counters but produce no output.
	ModeNone Mode = iota

	// ModeMax emits the maximum of each 8-reading group.
	ModeMax

	// ModeMin emits the minimum of each 8-reading group.
	ModeMin

	// ModeAvg emits the truncated average of each 8-reading group.
	ModeAvg

	// ModeExtract emits every reading inside the extract range.
	ModeExtract

	// ModeExclude emits every reading outside the exclude range.
	ModeExclude

	// ModePeakMax emits a group's maximum only when it beats the
	// best maximum seen in all prior groups of the stream.
	ModePeakMax

	// ModePeakMin is the mirror of ModePeakMax for minima.
	ModePeakMin
)

// Valid reports whether m names one of the seven filter functions.
func (m Mode) Valid() bool {
	return m >= ModeMax && m <= ModePeakMin
}

func (m Mode) String() string {
	switch m {
	case ModeMax:
		return "max"
	case ModeMin:
		return "min"
	case ModeAvg:
		return "avg"
	case ModeExtract:
		return "extract"
	case ModeExclude:
		return "exclude"
	case ModePeakMax:
		return "peak-max"
	case ModePeakMin:
		return "peak-min"
	}
	return "none"
}

// ParseMode resolves a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	for m := ModeMax; m <= ModePeakMin; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("unknown mode %q", s)
}

// Range bounds for the extract and exclude modes. Both ranges are
// inclusive at the low bound and exclusive at the high bound; the
// exclude test is the complement of its own range, not of the extract
// range.
var (
	ExtractLow  = U128(0x6FFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)
	ExtractHigh = U128(0xAFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)
	ExcludeLow  = U128(0x7FFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)
	ExcludeHigh = U128(0xBFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)
)

// inRange reports low <= r < high.
func inRange(r, low, high Uint128) bool {
	return r.Cmp(low) >= 0 && r.Cmp(high) < 0
}

// modeResult is the mode processor's register update for one completed
// reading.
type modeResult struct {
	acc     accum
	keep    Uint128
	setKeep bool
}

// nextAccumulator computes the accumulator (and, for the peak modes,
// the keep memory) that will be committed at the end of a completion
// tick. Everything is derived from the pre-tick snapshot: cur.acc and
// cur.keep are the previous tick's registers.
//
// The accumulator reseeds from the reading itself at the start of each
// group. The keep memory reseeds from the first reading of the stream
// and thereafter only improves, by strict comparison, on the last
// reading of each group.
func nextAccumulator(cur state, reading Uint128) modeResult {
	first := cur.groupPos == 0
	last := cur.groupPos == ReadingsPerGroup-1
	streamFirst := cur.streamPos == 0

	res := modeResult{acc: cur.acc, keep: cur.keep}

	switch cur.mode {
	case ModeMax:
		v := reading
		if !first {
			v = Max128(cur.acc.Val, reading)
		}
		res.acc = accum{Val: v}

	case ModeMin:
		v := reading
		if !first {
			v = Min128(cur.acc.Val, reading)
		}
		res.acc = accum{Val: v}

	case ModeAvg:
		sum := accum{Val: reading}
		if !first {
			sum = cur.acc.add(reading)
		}
		if last {
			sum = accum{Val: sum.shr3()}
		}
		res.acc = sum

	case ModeExtract, ModeExclude:
		// Pass-through: the range test consults the reading alone.
		res.acc = accum{Val: reading}

	case ModePeakMax:
		v := reading
		if !first {
			v = Max128(cur.acc.Val, reading)
		}
		res.acc = accum{Val: v}
		if streamFirst {
			res.keep, res.setKeep = reading, true
		}
		if last && cur.keep.Less(v) {
			res.keep, res.setKeep = v, true
		}

	case ModePeakMin:
		v := reading
		if !first {
			v = Min128(cur.acc.Val, reading)
		}
		res.acc = accum{Val: v}
		if streamFirst {
			res.keep, res.setKeep = reading, true
		}
		if last && v.Less(cur.keep) {
			res.keep, res.setKeep = v, true
		}
	}

	return res
}
