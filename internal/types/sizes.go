package types

// BitSizes lists the bit sizes an IR value may have, smallest first.
var BitSizes = []uint8{1, 8, 16, 32, 64}

// FloatSizes lists the bit sizes at which float values exist.
var FloatSizes = []uint8{16, 32, 64}

// MaxComps is the widest vector a value may have.
const MaxComps = 4

// IsValidBitSize reports whether n is one of BitSizes.
func IsValidBitSize(n uint8) bool {
	switch n {
	case 1, 8, 16, 32, 64:
		return true
	}
	return false
}

// IsFloatSize reports whether a float can be represented at n bits.
func IsFloatSize(n uint8) bool {
	return n == 16 || n == 32 || n == 64
}

// Mask returns a mask covering the low n bits.
func Mask(n uint8) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}

// Truncate keeps the low n bits of x.
func Truncate(x uint64, n uint8) uint64 {
	return x & Mask(n)
}

// SignExtend interprets the low n bits of x as a signed integer.
func SignExtend(x uint64, n uint8) int64 {
	if n >= 64 {
		return int64(x)
	}
	shift := 64 - n
	return int64(x<<shift) >> shift
}

// MinInt returns the smallest signed value representable in n bits.
func MinInt(n uint8) int64 {
	return SignExtend(1<<(n-1), n)
}

// MaxInt returns the largest signed value representable in n bits.
func MaxInt(n uint8) int64 {
	return int64(Mask(n) >> 1)
}

// MaxUint returns the largest unsigned value representable in n bits.
func MaxUint(n uint8) uint64 {
	return Mask(n)
}

// FitsInt reports whether v can be stored in n bits as either a signed or
// an unsigned integer.
func FitsInt(v int64, n uint8) bool {
	if v < 0 {
		return v >= MinInt(n)
	}
	return uint64(v) <= MaxUint(n)
}
