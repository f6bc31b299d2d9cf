package engine

import (
	"fmt"
	"math/bits"
)

// Uint128 is a 128-bit unsigned integer, the width of one reading.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// U128 builds a Uint128 from its two 64-bit halves.
func U128(hi, lo uint64) Uint128 {
	return Uint128{Hi: hi, Lo: lo}
}

// Cmp returns -1, 0, or 1 depending on whether u is less than, equal
// to, or greater than v.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Less reports whether u < v.
func (u Uint128) Less(v Uint128) bool {
	return u.Cmp(v) < 0
}

// IsZero reports whether u is zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// ShiftInByte shifts u left by 8 bits and inserts b at the low end.
// The oldest byte falls off the high end; the assembler never shifts
// more than 16 bytes into one reading, so nothing is lost in practice.
func (u Uint128) ShiftInByte(b uint8) Uint128 {
	return Uint128{
		Hi: u.Hi<<8 | u.Lo>>56,
		Lo: u.Lo<<8 | uint64(b),
	}
}

// Bytes returns the big-endian byte representation of u. The first
// byte is the most significant, matching the wire order the assembler
// consumes.
func (u Uint128) Bytes() [16]byte {
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(u.Hi >> (56 - 8*i))
		b[8+i] = byte(u.Lo >> (56 - 8*i))
	}
	return b
}

// String formats u as a 0x-prefixed 32-digit hex literal.
func (u Uint128) String() string {
	return fmt.Sprintf("0x%016X%016X", u.Hi, u.Lo)
}

// Max128 returns the larger of a and b.
func Max128(a, b Uint128) Uint128 {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min128 returns the smaller of a and b.
func Min128(a, b Uint128) Uint128 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// accum is the running accumulator: a reading-width value plus a 3-bit
// extension so a sum of 8 full-scale readings cannot overflow.
type accum struct {
	Ext uint8
	Val Uint128
}

// add returns a plus one reading, carrying into the extension word.
func (a accum) add(r Uint128) accum {
	lo, c := bits.Add64(a.Val.Lo, r.Lo, 0)
	hi, c := bits.Add64(a.Val.Hi, r.Hi, c)
	return accum{Ext: a.Ext + uint8(c), Val: Uint128{Hi: hi, Lo: lo}}
}

// shr3 divides the 131-bit accumulator by 8, truncating. The result
// of averaging 8 readings always fits back into a reading.
func (a accum) shr3() Uint128 {
	return Uint128{
		Hi: a.Val.Hi>>3 | uint64(a.Ext)<<61,
		Lo: a.Val.Lo>>3 | a.Val.Hi<<61,
	}
}
