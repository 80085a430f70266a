// Package rules holds the rule tables of the algebraic passes.
//
// Algebraic runs first and simplifies. BeforeFFMA moves negations so
// that multiplies feed adds directly. Late fuses and lowers for the
// target; it runs once the other sets have reached a fixed point and
// its rules are not undone by them.
package rules

import (
	"github.com/you-not-fish/algopt/internal/algebraic"
)

var (
	Algebraic  = algebraic.MustCompile("algebraic", algebraicRules)
	BeforeFFMA = algebraic.MustCompile("before_ffma", beforeFFMARules)
	Late       = algebraic.MustCompile("late", lateRules)
)

// All returns the rule sets in pipeline order.
func All() []*algebraic.RuleSet {
	return []*algebraic.RuleSet{Algebraic, BeforeFFMA, Late}
}

// Lookup returns the rule set with the given name, or nil.
func Lookup(name string) *algebraic.RuleSet {
	for _, rs := range All() {
		if rs.Name == name {
			return rs
		}
	}
	return nil
}

const algebraicRules = `
// integer add and subtract
(iadd a 0) -> a
(iadd a (ineg b)) -> (isub a b) if !lower_sub
(iadd (ineg a) (ineg b)) -> (ineg (iadd a b))
(iadd (imul a b) (imul a c)) -> (imul a (iadd b c))
(iadd (iadd a{is_not_constant} #b) #c) -> (iadd a (iadd b c))
(isub a 0) -> a
(isub a a) -> 0
(isub 0 a) -> (ineg a) if !lower_ineg
(isub a (ineg b)) -> (iadd a b)
(ineg (ineg a)) -> a
(ineg (isub a b)) -> (isub b a)
(iabs (iabs a)) -> (iabs a)
(iabs (ineg a)) -> (iabs a)

// integer multiply and divide
(imul a 0) -> 0
(imul a 1) -> a
(imul a -1) -> (ineg a)
(imul a #b{is_pos_pow2}) -> (ishl a (find_lsb b))
(imul a #b{is_neg_pow2}) -> (ineg (ishl a (find_lsb (ineg b))))
(imul (imul a{is_not_constant} #b) #c) -> (imul a (imul b c))
(imul (ineg a) (ineg b)) -> (imul a b)
(imul (ineg a) b) -> (ineg (imul a b))
(idiv a 1) -> a
(idiv a -1) -> (ineg a)
(udiv a 1) -> a
(udiv a #b{is_pos_pow2}) -> (ushr a (find_lsb b)) if lower_idiv
(umod a 1) -> 0
(umod a #b{is_pos_pow2}) -> (iand a (isub b 1)) if lower_idiv

// shifts
(ishl a 0) -> a
(ishr a 0) -> a
(ushr a 0) -> a
(ishl 0 a) -> 0
(ishr 0 a) -> 0
(ushr 0 a) -> 0
(ishr -1 a) -> -1

// bitwise
(iand a a) -> a
(iand a 0) -> 0
(iand a -1) -> a
(iand a (inot a)) -> 0
(iand (ior a b) a) -> a
(ior a a) -> a
(ior a 0) -> a
(ior a -1) -> -1
(ior a (inot a)) -> -1
(ior (iand a b) a) -> a
(ixor a a) -> 0
(ixor a 0) -> a
(ixor a -1) -> (inot a)
(inot (inot a)) -> a
(iand (inot a) (inot b)) -> (inot (ior a b))
(ior (inot a) (inot b)) -> (inot (iand a b))

// bitfield extraction
(iand (ushr a b) 0xff) -> (ubfe a b 8) if has_bfe
(iand (ushr a b) 0xffff) -> (ubfe a b 16) if has_bfe
(ushr@32 (ishl a 24) 24) -> (ubfe a 0 8) if has_bfe
(ushr@32 (ishl a 16) 16) -> (ubfe a 0 16) if has_bfe
(ishr@32 (ishl a 24) 24) -> (ibfe a 0 8) if has_bfe
(ishr@32 (ishl a 16) 16) -> (ibfe a 0 16) if has_bfe

// comparisons
(ieq a a) -> true
(ine a a) -> false
(ilt a a) -> false
(ige a a) -> true
(ult a a) -> false
(uge a a) -> true
(flt a a) -> false
(ult a 0) -> false
(uge a 0) -> true
(inot (ieq a b)) -> (ine a b)
(inot (ine a b)) -> (ieq a b)
(inot (ilt a b)) -> (ige a b)
(inot (ige a b)) -> (ilt a b)
(inot (ult a b)) -> (uge a b)
(inot (uge a b)) -> (ult a b)
(ieq (ineg a) (ineg b)) -> (ieq a b)
(ine (ineg a) (ineg b)) -> (ine a b)
(feq (fneg a) (fneg b)) -> (feq a b)
(flt (fneg a) (fneg b)) -> (flt b a)
(flt (fabs a) 0.0) -> false

// booleans
(ieq (b2i a) 0) -> (inot a)
(ine (b2i a) 0) -> a
(ieq (b2i a) (b2i b)) -> (inot (ixor a b))
(ine (b2i a) (b2i b)) -> (ixor a b)
(i2b (b2i a)) -> a
(f2b (b2f a)) -> a
(f2b (fneg a)) -> (f2b a)
(f2b (fabs a)) -> (f2b a)
(bcsel true a b) -> a
(bcsel false a b) -> b
(bcsel a b b) -> b
(bcsel (inot a) b c) -> (bcsel a c b)
(bcsel a (bcsel a b c) d) -> (bcsel a b d)
(bcsel a b (bcsel a c d)) -> (bcsel a b d)

// min and max
(imin a a) -> a
(imax a a) -> a
(umin a a) -> a
(umax a a) -> a
(fmin a a) -> a
(fmax a a) -> a
(umin a 0) -> 0
(umax a 0) -> a
(umin a -1) -> a
(umax a -1) -> -1
(imin (imax a b) a) -> a
(imax (imin a b) a) -> a
(fmin (fneg a) (fneg b)) -> (fneg (fmax a b))
(fmax (fneg a) (fneg b)) -> (fneg (fmin a b))
(fmax (fmin a 1.0) 0.0) -> (fsat a) if !lower_fsat
(fmin (fmax a 0.0) 1.0) -> (fsat a) if !lower_fsat
(fsat (fsat a)) -> (fsat a)
(fsat (b2f a)) -> (b2f a)

// conversions
(i2i a) -> a
(u2u a) -> a
(f2f a) -> a
(u2f (b2i a)) -> (b2f a)
(i2f (b2i@32 a)) -> (b2f a)
(f2u (b2f a)) -> (b2i a)

// float arithmetic
(fadd a 0.0) -> a if !preserve_signed_zero
(fadd a -0.0) -> a
(fadd a (fneg b)) -> (fsub a b) if !lower_sub
(fsub a 0.0) -> a if !preserve_signed_zero
(fsub a (fneg b)) -> (fadd a b)
(fneg (fneg a)) -> a
(fneg (fsub a b)) -> (fsub b a) if !preserve_signed_zero
(fabs (fneg a)) -> (fabs a)
(fabs (fabs a)) -> (fabs a)
(fmul a 1.0) -> a
(fmul a -1.0) -> (fneg a)
(fmul (fneg a) (fneg b)) -> (fmul a b)
(fmul (fneg a) b) -> (fneg (fmul a b))
(fdiv a 1.0) -> a
(fdiv a -1.0) -> (fneg a)
(fdiv 1.0 a) -> (frcp a)
~(frcp (frcp a)) -> a
(fpow a 1.0) -> a
(fpow a 0.0) -> 1.0
~(fpow a 2.0) -> (fmul a a)
`

const beforeFFMARules = `
(fadd (fneg (fmul{is_used_once} a b)) c) -> (fadd (fmul (fneg a) b) c)
(fsub (fmul{is_used_once} a b) c) -> (fadd (fmul a b) (fneg c))
(fsub a (fmul{is_used_once} b c)) -> (fadd a (fmul (fneg b) c))
(fneg (fneg a)) -> a
(fmul (fneg a) (fneg b)) -> (fmul a b)
`

const lateRules = `
// multiply-add
~(fadd@16 (fmul{is_used_once} a b) c) -> (ffma a b c) if fuse_ffma16
~(fadd@32 (fmul{is_used_once} a b) c) -> (ffma a b c) if fuse_ffma32
~(fadd@64 (fmul{is_used_once} a b) c) -> (ffma a b c) if fuse_ffma64
~(ffma@16 a b c) -> (fadd (fmul a b) c) if lower_ffma16
~(ffma@32 a b c) -> (fadd (fmul a b) c) if lower_ffma32
~(ffma@64 a b c) -> (fadd (fmul a b) c) if lower_ffma64

// lowerings
(fsat a) -> (fmin (fmax a 0.0) 1.0) if lower_fsat
(isub a b) -> (iadd a (ineg b)) if lower_sub
(fsub a b) -> (fadd a (fneg b)) if lower_sub
(ineg a) -> (isub 0 a) if lower_ineg
(fneg a) -> (fsub -0.0 a) if lower_ineg
(flrp@16 a b c) -> (fadd (fmul a (fsub 1.0 c)) (fmul b c)) if lower_flrp16
(flrp@32 a b c) -> (fadd (fmul a (fsub 1.0 c)) (fmul b c)) if lower_flrp32
(flrp@64 a b c) -> (fadd (fmul a (fsub 1.0 c)) (fmul b c)) if lower_flrp64
~(fpow a b) -> (fexp2 (fmul (flog2 a) b)) if lower_fpow
(ubfe a b 8) -> (iand (ushr a b) 0xff) if lower_bfe
(ubfe a b 16) -> (iand (ushr a b) 0xffff) if lower_bfe
(ibfe@32 a 0 8) -> (ishr (ishl a 24) 24) if lower_bfe
(ibfe@32 a 0 16) -> (ishr (ishl a 16) 16) if lower_bfe
`
