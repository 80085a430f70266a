package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// EncodeInt returns the n-bit two's complement encoding of v.
func EncodeInt(v int64, n uint8) uint64 {
	return Truncate(uint64(v), n)
}

// EncodeFloat rounds f to an n-bit IEEE-754 value and returns its bits.
// n must be 16, 32 or 64.
func EncodeFloat(f float64, n uint8) uint64 {
	switch n {
	case 16:
		return uint64(float16.Fromfloat32(float32(f)).Bits())
	case 32:
		return uint64(math.Float32bits(float32(f)))
	case 64:
		return math.Float64bits(f)
	}
	panic("types: invalid float bit size")
}

// DecodeFloat interprets the low n bits of bits as an IEEE-754 value.
func DecodeFloat(bits uint64, n uint8) float64 {
	switch n {
	case 16:
		return float64(float16.Frombits(uint16(bits)).Float32())
	case 32:
		return float64(math.Float32frombits(uint32(bits)))
	case 64:
		return math.Float64frombits(bits)
	}
	panic("types: invalid float bit size")
}

// RoundFloat rounds f to the precision of an n-bit float.
func RoundFloat(f float64, n uint8) float64 {
	return DecodeFloat(EncodeFloat(f, n), n)
}

// EncodeBool encodes b at n bits: a single bit at size 1, all ones otherwise.
func EncodeBool(b bool, n uint8) uint64 {
	if !b {
		return 0
	}
	if n == 1 {
		return 1
	}
	return Mask(n)
}

// DecodeBool reports whether the low n bits of bits are non-zero.
func DecodeBool(bits uint64, n uint8) bool {
	return Truncate(bits, n) != 0
}

// Encode re-encodes a literal stored in its canonical form (int64 for
// integers, binary64 for floats, 0/1 for bools) as an n-bit value of class c.
func Encode(c Class, canonical uint64, n uint8) uint64 {
	switch c {
	case Float:
		return EncodeFloat(math.Float64frombits(canonical), n)
	case Bool:
		return EncodeBool(canonical != 0, n)
	default:
		return EncodeInt(int64(canonical), n)
	}
}

// Format renders n-bit bits as a literal of class c.
func Format(c Class, bits uint64, n uint8) string {
	switch c {
	case Float:
		if IsFloatSize(n) {
			return formatFloat(DecodeFloat(bits, n))
		}
	case Bool:
		if DecodeBool(bits, n) {
			return "true"
		}
		return "false"
	case Uint:
		return formatUint(Truncate(bits, n))
	}
	return formatInt(SignExtend(bits, n))
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatUint(v uint64) string {
	if v < 1<<16 {
		return strconv.FormatUint(v, 10)
	}
	return "0x" + strconv.FormatUint(v, 16)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
