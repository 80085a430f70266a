package ssa

// ReversePostOrder returns the blocks of f in reverse post-order,
// starting from f.Entry. Unreachable blocks are excluded.
func ReversePostOrder(f *Func) []*Block {
	visited := make([]bool, f.nextBlockID)
	order := make([]*Block, 0, len(f.Blocks))

	var dfs func(b *Block)
	dfs = func(b *Block) {
		visited[b.ID] = true
		for _, s := range b.Succs {
			if !visited[s.ID] {
				dfs(s)
			}
		}
		order = append(order, b)
	}
	dfs(f.Entry)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ComputeDom computes the immediate dominator tree for f using
// Cooper, Harvey, and Kennedy's "A Simple, Fast Dominance Algorithm".
// It populates Block.Idom and Block.Dominees for all reachable blocks
// and marks the result valid until the next InvalidateAnalyses.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	rpo := ReversePostOrder(f)

	// Postorder numbers; -1 marks unreachable blocks.
	num := make([]int, f.nextBlockID)
	for i := range num {
		num[i] = -1
	}
	for i, b := range rpo {
		num[b.ID] = len(rpo) - 1 - i
	}

	idom := make([]*Block, f.nextBlockID)
	entry := rpo[0]
	idom[entry.ID] = entry

	intersect := func(b1, b2 *Block) *Block {
		for b1 != b2 {
			for num[b1.ID] < num[b2.ID] {
				b1 = idom[b1.ID]
			}
			for num[b2.ID] < num[b1.ID] {
				b2 = idom[b2.ID]
			}
		}
		return b1
	}

	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var d *Block
			for _, p := range b.Preds {
				if num[p.ID] < 0 || idom[p.ID] == nil {
					continue
				}
				if d == nil {
					d = p
				} else {
					d = intersect(p, d)
				}
			}
			if d != nil && idom[b.ID] != d {
				idom[b.ID] = d
				changed = true
			}
		}
	}

	for _, b := range rpo[1:] {
		b.Idom = idom[b.ID]
		if b.Idom != nil {
			b.Idom.Dominees = append(b.Idom.Dominees, b)
		}
	}
	f.domValid = true
}

// Dominates reports whether a dominates b. ComputeDom must have been
// called since the last change to the CFG.
func Dominates(a, b *Block) bool {
	for b != nil {
		if b == a {
			return true
		}
		b = b.Idom
	}
	return false
}
