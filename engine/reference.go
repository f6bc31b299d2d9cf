package engine

// Reference reduces a reading sequence the way one full stream pass
// would, without modeling per-byte timing. It is the functional model
// the cycle-accurate engine is validated against: for any sequence of
// complete readings, feeding their bytes through Step must emit
// exactly the values Reference returns, in order.
//
// The sequence is treated as a single stream: the peak memory seeds
// from the first reading. Trailing readings that do not complete a
// group produce no output, matching the engine.
func Reference(mode Mode, readings []Uint128) []Uint128 {
	var out []Uint128

	switch mode {
	case ModeExtract:
		for _, r := range readings {
			if inRange(r, ExtractLow, ExtractHigh) {
				out = append(out, r)
			}
		}
		return out

	case ModeExclude:
		for _, r := range readings {
			if !inRange(r, ExcludeLow, ExcludeHigh) {
				out = append(out, r)
			}
		}
		return out
	}

	var keep Uint128
	if len(readings) > 0 {
		keep = readings[0]
	}

	for i := 0; i+ReadingsPerGroup <= len(readings); i += ReadingsPerGroup {
		group := readings[i : i+ReadingsPerGroup]

		switch mode {
		case ModeMax:
			out = append(out, groupMax(group))

		case ModeMin:
			out = append(out, groupMin(group))

		case ModeAvg:
			var sum accum
			for _, r := range group {
				sum = sum.add(r)
			}
			out = append(out, sum.shr3())

		case ModePeakMax:
			if m := groupMax(group); keep.Less(m) {
				keep = m
				out = append(out, m)
			}

		case ModePeakMin:
			if m := groupMin(group); m.Less(keep) {
				keep = m
				out = append(out, m)
			}
		}
	}

	return out
}

func groupMax(group []Uint128) Uint128 {
	m := group[0]
	for _, r := range group[1:] {
		m = Max128(m, r)
	}
	return m
}

func groupMin(group []Uint128) Uint128 {
	m := group[0]
	for _, r := range group[1:] {
		m = Min128(m, r)
	}
	return m
}
