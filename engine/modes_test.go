package engine_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfesim/engine"
)

// randomReadings produces a deterministic full-range reading sequence.
func randomReadings(seed int64, n int) []engine.Uint128 {
	rng := rand.New(rand.NewSource(seed))
	readings := make([]engine.Uint128, n)
	for i := range readings {
		readings[i] = engine.U128(rng.Uint64(), rng.Uint64())
	}
	return readings
}

var _ = Describe("Modes", func() {
	var e *engine.Engine

	BeforeEach(func() {
		e = engine.New()
	})

	group := func(values ...uint64) []engine.Uint128 {
		readings := make([]engine.Uint128, len(values))
		for i, v := range values {
			readings[i] = u(v)
		}
		return readings
	}

	Describe("max (F1)", func() {
		It("should emit the group maximum on the 8th reading", func() {
			emitted := feedStream(e, engine.ModeMax, group(1, 5, 3, 9, 2, 7, 4, 6))
			Expect(emitted).To(Equal([]engine.Uint128{u(9)}))
		})

		It("should emit the value itself for a constant group", func() {
			emitted := feedStream(e, engine.ModeMax, group(10, 10, 10, 10, 10, 10, 10, 10))
			Expect(emitted).To(Equal([]engine.Uint128{u(10)}))
		})

		It("should emit exactly once per group across a full stream", func() {
			readings := randomReadings(1, engine.ReadingsPerStream)
			emitted := feedStream(e, engine.ModeMax, readings)
			Expect(emitted).To(HaveLen(engine.GroupsPerStream))
			Expect(emitted).To(Equal(engine.Reference(engine.ModeMax, readings)))
		})
	})

	Describe("min (F2)", func() {
		It("should emit the group minimum on the 8th reading", func() {
			emitted := feedStream(e, engine.ModeMin, group(8, 5, 3, 9, 2, 7, 4, 6))
			Expect(emitted).To(Equal([]engine.Uint128{u(2)}))
		})

		It("should match the reference over a full stream", func() {
			readings := randomReadings(2, engine.ReadingsPerStream)
			emitted := feedStream(e, engine.ModeMin, readings)
			Expect(emitted).To(Equal(engine.Reference(engine.ModeMin, readings)))
		})
	})

	Describe("avg (F3)", func() {
		It("should emit the constant for a constant group", func() {
			emitted := feedStream(e, engine.ModeAvg, group(8, 8, 8, 8, 8, 8, 8, 8))
			Expect(emitted).To(Equal([]engine.Uint128{u(8)}))
		})

		It("should truncate the division by 8", func() {
			// Sum 15 >> 3 == 1.
			emitted := feedStream(e, engine.ModeAvg, group(1, 1, 1, 1, 1, 1, 1, 8))
			Expect(emitted).To(Equal([]engine.Uint128{u(1)}))
		})

		It("should not overflow on full-scale readings", func() {
			full := engine.U128(^uint64(0), ^uint64(0))
			readings := make([]engine.Uint128, engine.ReadingsPerGroup)
			for i := range readings {
				readings[i] = full
			}
			emitted := feedStream(e, engine.ModeAvg, readings)
			Expect(emitted).To(Equal([]engine.Uint128{full}))
		})

		It("should match the reference over a full stream", func() {
			readings := randomReadings(3, engine.ReadingsPerStream)
			emitted := feedStream(e, engine.ModeAvg, readings)
			Expect(emitted).To(Equal(engine.Reference(engine.ModeAvg, readings)))
		})
	})

	Describe("extract (F4)", func() {
		It("should pass readings inside the range, inclusive at the low bound", func() {
			inside := engine.U128(0x7000000000000000, 0)
			below := engine.U128(0x6000000000000000, 0)
			atLow := engine.ExtractLow
			atHigh := engine.ExtractHigh

			emitted := feedStream(e, engine.ModeExtract,
				[]engine.Uint128{inside, below, atLow, atHigh})
			Expect(emitted).To(Equal([]engine.Uint128{inside, atLow}))
		})

		It("should pass each reading on its own completion tick", func() {
			inside := engine.U128(0x8000000000000000, 0x1234)
			outs := feedReading(e, engine.ModeExtract, inside)
			for _, out := range outs[:15] {
				Expect(out.OutputValid).To(BeFalse())
			}
			Expect(outs[15].OutputValid).To(BeTrue())
			Expect(outs[15].OutputValue).To(Equal(inside))
		})
	})

	Describe("exclude (F5)", func() {
		It("should pass only readings outside the range", func() {
			inside := engine.U128(0x9000000000000000, 0)
			below := engine.U128(0x7000000000000000, 0)
			above := engine.U128(0xC000000000000000, 0)
			atLow := engine.ExcludeLow

			emitted := feedStream(e, engine.ModeExclude,
				[]engine.Uint128{inside, below, above, atLow})
			Expect(emitted).To(Equal([]engine.Uint128{below, above}))
		})

		It("should be evaluated against its own bounds, not the extract bounds", func() {
			// Inside the extract range but below the exclude range:
			// extract passes it and exclude passes it too.
			r := engine.U128(0x7000000000000000, 0)
			Expect(feedStream(e, engine.ModeExtract, []engine.Uint128{r})).
				To(Equal([]engine.Uint128{r}))

			e2 := engine.New()
			Expect(feedStream(e2, engine.ModeExclude, []engine.Uint128{r})).
				To(Equal([]engine.Uint128{r}))
		})
	})

	Describe("peak-max (F6)", func() {
		It("should emit only groups that beat the running peak", func() {
			readings := make([]engine.Uint128, 0, 3*engine.ReadingsPerGroup)
			readings = append(readings, group(1, 2, 3, 4, 5, 6, 7, 9)...) // max 9 > seed 1
			readings = append(readings, group(1, 2, 3, 4, 5, 6, 7, 8)...) // max 8, no emit
			readings = append(readings, group(1, 2, 3, 4, 5, 6, 7, 12)...) // max 12
			emitted := feedStream(e, engine.ModePeakMax, readings)
			Expect(emitted).To(Equal([]engine.Uint128{u(9), u(12)}))
		})

		It("should not emit when the first reading is already the stream peak", func() {
			// The peak memory seeds from the first reading; a group
			// maximum equal to it is not a strict improvement.
			emitted := feedStream(e, engine.ModePeakMax, group(9, 2, 3, 4, 5, 6, 7, 8))
			Expect(emitted).To(BeEmpty())
		})

		It("should emit a non-decreasing sequence over a full stream", func() {
			readings := randomReadings(4, engine.ReadingsPerStream)
			emitted := feedStream(e, engine.ModePeakMax, readings)
			for i := 1; i < len(emitted); i++ {
				Expect(emitted[i-1].Less(emitted[i])).To(BeTrue())
			}
			Expect(emitted).To(Equal(engine.Reference(engine.ModePeakMax, readings)))
		})

		It("should reseed the peak memory at the start of a new stream", func() {
			high := make([]engine.Uint128, engine.ReadingsPerStream)
			for i := range high {
				high[i] = u(1000)
			}
			feedStream(e, engine.ModePeakMax, high)
			e.Step(engine.Input{Enable: true, Byte: 0}) // busy drop tick

			// A much lower second stream must still emit: its peak
			// memory starts from its own first reading.
			low := make([]engine.Uint128, 0, 2*engine.ReadingsPerGroup)
			low = append(low, group(1, 2, 3, 4, 5, 6, 7, 9)...)
			low = append(low, group(1, 1, 1, 1, 1, 1, 1, 1)...)
			emitted := feedStream(e, engine.ModePeakMax, low)
			Expect(emitted).To(Equal([]engine.Uint128{u(9)}))
		})
	})

	Describe("peak-min (F7)", func() {
		It("should emit only groups that undercut the running peak", func() {
			readings := make([]engine.Uint128, 0, 3*engine.ReadingsPerGroup)
			readings = append(readings, group(9, 8, 7, 6, 5, 6, 7, 8)...) // min 5 < seed 9
			readings = append(readings, group(9, 8, 7, 6, 5, 6, 7, 8)...) // min 5, no emit
			readings = append(readings, group(9, 8, 7, 6, 2, 6, 7, 8)...) // min 2
			emitted := feedStream(e, engine.ModePeakMin, readings)
			Expect(emitted).To(Equal([]engine.Uint128{u(5), u(2)}))
		})

		It("should emit a strictly decreasing sequence over a full stream", func() {
			readings := randomReadings(5, engine.ReadingsPerStream)
			emitted := feedStream(e, engine.ModePeakMin, readings)
			for i := 1; i < len(emitted); i++ {
				Expect(emitted[i].Less(emitted[i-1])).To(BeTrue())
			}
			Expect(emitted).To(Equal(engine.Reference(engine.ModePeakMin, readings)))
		})

		It("should reseed the peak memory at the start of a new stream", func() {
			low := make([]engine.Uint128, engine.ReadingsPerStream)
			for i := range low {
				low[i] = u(1)
			}
			feedStream(e, engine.ModePeakMin, low)
			e.Step(engine.Input{Enable: true, Byte: 0}) // busy drop tick

			// A much higher second stream must still emit: its peak
			// memory starts from its own first reading.
			high := make([]engine.Uint128, 0, 2*engine.ReadingsPerGroup)
			high = append(high, group(9, 8, 7, 6, 5, 6, 7, 8)...)
			high = append(high, group(9, 9, 9, 9, 9, 9, 9, 9)...)
			emitted := feedStream(e, engine.ModePeakMin, high)
			Expect(emitted).To(Equal([]engine.Uint128{u(5)}))
		})
	})

	Describe("cross-check against the reference model", func() {
		modes := []engine.Mode{
			engine.ModeMax, engine.ModeMin, engine.ModeAvg,
			engine.ModeExtract, engine.ModeExclude,
			engine.ModePeakMax, engine.ModePeakMin,
		}

		It("should match the reference for every mode over several seeds", func() {
			for _, mode := range modes {
				for seed := int64(10); seed < 15; seed++ {
					fresh := engine.New()
					readings := randomReadings(seed, engine.ReadingsPerStream)
					emitted := feedStream(fresh, mode, readings)
					want := engine.Reference(mode, readings)
					if want == nil {
						Expect(emitted).To(BeEmpty())
					} else {
						Expect(emitted).To(Equal(want),
							"mode %v seed %d", mode, seed)
					}
				}
			}
		})
	})
})
