package engine

// emission decides whether a completed reading produces an output this
// tick, and what value is emitted. Like the mode processor it reads
// only the pre-tick snapshot: the accumulator and keep memory here are
// one step behind, so the emitted value is the previous running state
// combined with the new reading, never the post-update accumulator.
func emission(cur state, reading Uint128) (Uint128, bool) {
	last := cur.groupPos == ReadingsPerGroup-1
	first := cur.groupPos == 0

	switch cur.mode {
	case ModeMax:
		if last {
			return Max128(cur.acc.Val, reading), true
		}

	case ModeMin:
		if last {
			return Min128(cur.acc.Val, reading), true
		}

	case ModeAvg:
		if last {
			return cur.acc.add(reading).shr3(), true
		}

	case ModeExtract:
		if inRange(reading, ExtractLow, ExtractHigh) {
			return reading, true
		}

	case ModeExclude:
		if !inRange(reading, ExcludeLow, ExcludeHigh) {
			return reading, true
		}

	case ModePeakMax:
		if last {
			v := reading
			if !first {
				v = Max128(cur.acc.Val, reading)
			}
			if cur.keep.Less(v) {
				return v, true
			}
		}

	case ModePeakMin:
		if last {
			v := reading
			if !first {
				v = Min128(cur.acc.Val, reading)
			}
			if v.Less(cur.keep) {
				return v, true
			}
		}
	}

	return Uint128{}, false
}
