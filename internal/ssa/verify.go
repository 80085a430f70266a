package ssa

import (
	"fmt"
	"strings"

	"github.com/nikandfor/errors"

	"github.com/you-not-fish/algopt/internal/types"
)

// Verify checks the structural integrity of an SSA function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no entry block", f.Name)
		return combineErrors(errs)
	}
	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	valueSet := make(map[*Value]bool)
	for _, b := range f.Blocks {
		blockSet[b] = true
		for _, v := range b.Values {
			valueSet[v] = true
		}
	}

	uses := make(map[*Value]int32)

	for _, b := range f.Blocks {
		if b.Kind == BlockInvalid {
			add("func %s, %s: block has invalid kind", f.Name, b)
		}
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		for _, v := range b.Values {
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}
			for i, arg := range v.Args {
				switch {
				case arg == nil:
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				case !valueSet[arg]:
					add("func %s, %s, %s: arg[%d] (%s) not found in function", f.Name, b, v, i, arg)
				default:
					uses[arg]++
				}
			}
			for _, msg := range checkValue(v) {
				add("func %s, %s, %s (%s): %s", f.Name, b, v, v.Op, msg)
			}
		}

		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: plain block has %d succs, want 1", f.Name, b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 || b.Controls[0] == nil {
				add("func %s, %s: if block needs one control", f.Name, b)
			} else if c := b.Controls[0]; c.BitSize != 1 || c.Comps != 1 {
				add("func %s, %s: branch condition %s is <%s>, want <1>", f.Name, b, c, c.Type())
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2", f.Name, b, len(b.Succs))
			}
		case BlockReturn, BlockExit:
			if len(b.Succs) != 0 {
				add("func %s, %s: %s block has %d succs, want 0", f.Name, b, b.Kind, len(b.Succs))
			}
		}

		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
			} else if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor", f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
			} else if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor", f.Name, b, pred, b)
			}
		}

		for i, c := range b.Controls {
			switch {
			case c == nil:
				add("func %s, %s: control[%d] is nil", f.Name, b, i)
			case !valueSet[c]:
				add("func %s, %s: control[%d] (%s) not found in function", f.Name, b, i, c)
			default:
				uses[c]++
			}
		}
	}

	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Uses != uses[v] {
				add("func %s, %s, %s: Uses is %d, counted %d", f.Name, b, v, v.Uses, uses[v])
			}
		}
	}

	return combineErrors(errs)
}

// checkValue checks v against its op's operand count and size rules.
func checkValue(v *Value) []string {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if v.Op <= OpInvalid || v.Op >= opCount {
		add("invalid op")
		return errs
	}
	info := v.Op.Info()

	if info.ArgLen >= 0 && len(v.Args) != info.ArgLen {
		add("has %d args, want %d", len(v.Args), info.ArgLen)
		return errs
	}
	if v.Comps < 1 || v.Comps > types.MaxComps {
		add("has %d components", v.Comps)
	}
	if info.IsVoid {
		return errs
	}
	if !types.IsValidBitSize(v.BitSize) {
		add("invalid bit size %d", v.BitSize)
		return errs
	}
	if info.Out == types.Float && !types.IsFloatSize(v.BitSize) {
		add("float result cannot be %d-bit", v.BitSize)
	}
	if info.OutSize != 0 && v.BitSize != info.OutSize {
		add("result is %d-bit, want %d", v.BitSize, info.OutSize)
	}
	if v.Op == OpConst && uint64(v.AuxInt)&^types.Mask(v.BitSize) != 0 {
		add("constant %#x does not fit in %d bits", uint64(v.AuxInt), v.BitSize)
	}

	if v.Op == OpPhi {
		if v.Block != nil && len(v.Args) != len(v.Block.Preds) {
			add("phi has %d args but block has %d preds", len(v.Args), len(v.Block.Preds))
		}
		for i, arg := range v.Args {
			if arg != nil && (arg.BitSize != v.BitSize || arg.Comps != v.Comps) {
				add("phi arg[%d] %s is <%s>, want <%s>", i, arg, arg.Type(), v.Type())
			}
		}
		return errs
	}

	var free uint8
	for i, arg := range v.Args {
		if arg == nil {
			continue
		}
		want := v.Op.FixedArgSize(i)
		switch {
		case want != 0:
		case v.Op.ArgFollowsResult():
			want = v.BitSize
		case free == 0:
			free = arg.BitSize
			want = free
		default:
			want = free
		}
		if arg.BitSize != want {
			add("arg[%d] %s is %d-bit, want %d", i, arg, arg.BitSize, want)
		}
		if v.Op.ArgClass(i) == types.Float && !types.IsFloatSize(arg.BitSize) {
			add("float arg[%d] %s cannot be %d-bit", i, arg, arg.BitSize)
		}
		if arg.Comps != v.Comps && arg.Comps != 1 {
			add("arg[%d] %s has %d components, want %d or 1", i, arg, arg.Comps, v.Comps)
		}
	}
	return errs
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom checks dominance properties of an SSA function.
// It calls Verify and ComputeDom first.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}
	if !f.DomValid() {
		ComputeDom(f)
	}

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	reachable := make(map[*Block]bool)
	for _, b := range ReversePostOrder(f) {
		reachable[b] = true
	}

	valIdx := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			valIdx[v] = i
		}
	}

	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if v.Op == OpPhi {
					if i < len(b.Preds) && !Dominates(arg.Block, b.Preds[i]) {
						add("func %s, %s, %s: phi arg[%d] %s defined in %s which does not dominate pred %s",
							f.Name, b, v, i, arg, arg.Block, b.Preds[i])
					}
					continue
				}
				if arg.Block == b {
					if valIdx[arg] >= valIdx[v] {
						add("func %s, %s, %s: arg[%d] %s defined at index %d, used at index %d",
							f.Name, b, v, i, arg, valIdx[arg], valIdx[v])
					}
				} else if !Dominates(arg.Block, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, v, i, arg, arg.Block, b)
				}
			}
		}
		for i, c := range b.Controls {
			if c.Block != b && !Dominates(c.Block, b) {
				add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
