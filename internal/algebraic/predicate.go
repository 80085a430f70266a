package algebraic

import (
	"math"
	"math/bits"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// Predicate is a side condition on a matched value.
type Predicate uint8

const (
	PredNone Predicate = iota

	IsConstant
	IsNotConstant
	IsUsedOnce
	IsUsedMoreThanOnce
	IsNotUsedByIf

	// Constant-valued predicates are false for non-constants.
	IsPosPowerOfTwo
	IsNegPowerOfTwo
	IsNotConstZero
	IsZeroToOne
	IsFinite
	IsIntegral

	predCount
)

var predNames = [predCount]string{
	PredNone:           "",
	IsConstant:         "is_constant",
	IsNotConstant:      "is_not_constant",
	IsUsedOnce:         "is_used_once",
	IsUsedMoreThanOnce: "is_used_more_than_once",
	IsNotUsedByIf:      "is_not_used_by_if",
	IsPosPowerOfTwo:    "is_pos_pow2",
	IsNegPowerOfTwo:    "is_neg_pow2",
	IsNotConstZero:     "is_not_const_zero",
	IsZeroToOne:        "is_zero_to_one",
	IsFinite:           "is_finite",
	IsIntegral:         "is_integral",
}

func (p Predicate) String() string {
	if p < predCount {
		return predNames[p]
	}
	return "unknown"
}

// LookupPredicate returns the predicate with the given name.
func LookupPredicate(name string) (Predicate, bool) {
	for p := PredNone + 1; p < predCount; p++ {
		if predNames[p] == name {
			return p, true
		}
	}
	return PredNone, false
}

// Eval evaluates p on v, whose bits are read as class c.
func (p Predicate) Eval(v *ssa.Value, c types.Class) bool {
	switch p {
	case PredNone:
		return true
	case IsConstant:
		return v.IsConst()
	case IsNotConstant:
		return !v.IsConst()
	case IsUsedOnce:
		return v.Uses == 1
	case IsUsedMoreThanOnce:
		return v.Uses > 1
	case IsNotUsedByIf:
		return !v.UsedByIf()
	}

	if !v.IsConst() {
		return false
	}
	raw := v.ConstBits()
	n := v.BitSize

	if c == types.Float {
		if !types.IsFloatSize(n) {
			return false
		}
		f := types.DecodeFloat(raw, n)
		switch p {
		case IsNotConstZero:
			return f != 0
		case IsZeroToOne:
			return f >= 0 && f <= 1
		case IsFinite:
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		case IsIntegral:
			return f == math.Trunc(f)
		}
		return false
	}

	switch p {
	case IsPosPowerOfTwo:
		if c == types.Int && types.SignExtend(raw, n) < 0 {
			return false
		}
		return raw != 0 && bits.OnesCount64(raw) == 1
	case IsNegPowerOfTwo:
		x := types.SignExtend(raw, n)
		return c != types.Uint && x < 0 && bits.OnesCount64(uint64(-x)) == 1
	case IsNotConstZero:
		return raw != 0
	case IsIntegral, IsFinite:
		return c.IsInteger()
	}
	return false
}
