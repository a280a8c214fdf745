package glob

import "github.com/koblas/goglob/glob/pattern"

// flattenOptions rewrites a Sequence possibly containing nested Options
// nodes into a flat slice of Options-free Sequences — the Cartesian
// product of every Options node's alternatives with its Sequence siblings,
// per spec.md §4.4. Ranges are left untouched; they are never expanded.
//
// Grounded on minimatch's braceExpand/BraceExpansion, which performs the
// equivalent distribution over raw pattern text before any parsing
// happens; here the same idea operates on the already-parsed tree, which
// is spec.md's required component ordering (parse, then flatten).
func flattenOptions(root *pattern.Node) []*pattern.Node {
	return distribute(root.Children, root.CaseSensitive)
}

// distribute returns every way of picking one Sequence's worth of
// expansion from a list of pattern.Node children where some children may
// themselves be Options nodes.
func distribute(children []*pattern.Node, caseSensitive bool) []*pattern.Node {
	alternatives := [][]*pattern.Node{{}}

	for _, child := range children {
		var expansions [][]*pattern.Node
		switch child.Kind {
		case pattern.Options:
			for _, opt := range child.Children {
				// opt is itself a Sequence (Options invariant); its own
				// children may recursively contain Options.
				for _, sub := range distribute(opt.Children, caseSensitive) {
					expansions = append(expansions, flattenToChildren(sub))
				}
			}
		default:
			expansions = [][]*pattern.Node{{child}}
		}

		next := make([][]*pattern.Node, 0, len(alternatives)*len(expansions))
		for _, prefix := range alternatives {
			for _, exp := range expansions {
				combined := make([]*pattern.Node, 0, len(prefix)+len(exp))
				combined = append(combined, prefix...)
				combined = append(combined, exp...)
				next = append(next, combined)
			}
		}
		alternatives = next
	}

	out := make([]*pattern.Node, len(alternatives))
	for i, children := range alternatives {
		out[i] = pattern.NewSequence(children, caseSensitive)
	}
	return out
}

// flattenToChildren flattens a single already-Options-free Sequence node
// (from distribute's recursive call) back into its child list, since
// distribute always re-wraps with NewSequence at its own level.
func flattenToChildren(seq *pattern.Node) []*pattern.Node {
	if seq.Kind == pattern.Sequence {
		return seq.Children
	}
	return []*pattern.Node{seq}
}
