// Package listtree builds and walks the directory-descent plan a Glob uses
// to answer List/ListSync (spec.md §4.5/§4.6): rather than enumerating a
// whole subtree and filtering every path against the full pattern, the
// planner folds a flattened pattern's alternatives into a tree keyed by
// path component, so each directory is visited the minimum number of times
// its alternatives actually require.
package listtree

import (
	"github.com/koblas/goglob/glob/pattern"
	"github.com/koblas/goglob/pathstyle"
)

// Child is one statically-known path component a ListTreeNode descends
// into: the segment pattern that must match a directory entry's basename
// to qualify, and the subtree reached after matching it.
type Child struct {
	Segment   *pattern.Node // a Sequence of one path component's atoms (no DoubleStar)
	Literal   string        // the concatenated literal text, iff Segment is pure-literal
	IsLiteral bool
	Node      *Node
}

// Node is one point in the descent plan. Per spec.md §4.5:
//
//   - IsRecursive: Children is nil; the walker lists this directory's
//     entire subtree once and filters every resulting path against
//     Validator (a possibly multi-segment, relative-to-this-node pattern).
//   - !IsRecursive, Terminal == nil, IsIntermediate: every Child is
//     pure-literal, so the walker descends directly into each named child
//     without listing the directory at all.
//   - !IsRecursive and (Terminal != nil or some Child is non-literal): a
//     "general" node — the walker lists the directory once, testing each
//     entry's basename against Terminal (a direct match, no further
//     descent) and against every Child's Segment (recursing into matches).
//
// MatchSelf makes the walker emit this node's own directory path.
// planSegments sets it only when handed an empty segment list, which Plan
// never does: SplitOnSeparators yields at least one (possibly empty)
// segment for every alternative, so a plan built by Plan has MatchSelf
// false on every node.
type Node struct {
	Children       map[string]*Child
	Terminal       *pattern.Node // Options of single-segment Sequences, or nil
	Validator      *pattern.Node // Options of (possibly multi-segment) Sequences, or nil
	MatchSelf      bool
	IsRecursive    bool
	IsIntermediate bool
	CanOverlap     bool
}

// Tree maps a recognized root prefix ("/", "C:/", "http://host/", ...) or
// "." (relative to the walk's starting directory) to the plan for paths
// under that root.
type Tree map[string]*Node

// Plan builds the descent plan for a flattened, Options-free set of
// pattern alternatives (the output of glob/flatten.go), per spec.md §4.5.
func Plan(alternatives []*pattern.Node, style pathstyle.Style) Tree {
	adapter := pathstyle.For(style)
	tree := Tree{}

	for _, alt := range alternatives {
		root, rest := pattern.ExtractRoot(alt.Children, adapter)
		key := "."
		if root != "" {
			key = root
		}
		node := tree[key]
		if node == nil {
			node = &Node{Children: map[string]*Child{}}
			tree[key] = node
		}
		segs := pattern.SplitOnSeparators(rest)
		planSegments(node, segs, alt.CaseSensitive)
	}

	for _, node := range tree {
		deriveIntermediate(node)
	}
	overlapRoots := hasOverlappingRoots(tree)
	for _, node := range tree {
		deriveOverlap(node, overlapRoots)
	}
	return tree
}

// planSegments folds one alternative's remaining path components (after
// root extraction) into node. A node already forced recursive by a
// sibling alternative absorbs every further contribution into Validator
// (checked before the terminal/descend decision below), since its
// recursive subtree listing already covers every depth a Terminal or
// Child entry could otherwise target.
func planSegments(node *Node, segs [][]*pattern.Node, caseSensitive bool) {
	if len(segs) == 0 {
		node.MatchSelf = true
		return
	}

	seg := segs[0]
	if len(seg) == 1 && seg[0].Kind == pattern.DoubleStar {
		node.IsRecursive = true
		node.Children = nil
		appendOption(&node.Validator, joinSegments(segs, caseSensitive), caseSensitive)
		return
	}

	if node.IsRecursive {
		appendOption(&node.Validator, joinSegments(segs, caseSensitive), caseSensitive)
		return
	}

	if len(segs) == 1 {
		appendOption(&node.Terminal, pattern.NewSequence(seg, caseSensitive), caseSensitive)
		return
	}

	segSeq := pattern.NewSequence(seg, caseSensitive)
	key := segSeq.String()
	child, ok := node.Children[key]
	if !ok {
		lit, isLit := pattern.IsPureLiteral(seg)
		child = &Child{
			Segment:   segSeq,
			Literal:   lit,
			IsLiteral: isLit,
			Node:      &Node{Children: map[string]*Child{}},
		}
		node.Children[key] = child
	}
	planSegments(child.Node, segs[1:], caseSensitive)
}

// joinSegments rebuilds a single Sequence from a run of segment groups,
// reinserting the "/" separators SplitOnSeparators dropped. Used to fold
// a DoubleStar and everything after it into one validator alternative
// (spec.md §4.5: "a recursive node's validator matches the full remaining
// pattern against the path relative to that node").
func joinSegments(segs [][]*pattern.Node, caseSensitive bool) *pattern.Node {
	var children []*pattern.Node
	for i, seg := range segs {
		if i > 0 {
			children = append(children, pattern.NewLiteral("/", true))
		}
		children = append(children, seg...)
	}
	return pattern.NewSequence(children, caseSensitive)
}

// appendOption appends seq as one more alternative of *field, creating the
// Options wrapper on first use. Shared by Validator and Terminal, both of
// which are "an unordered set of alternative Sequences tested against
// some string" at heart.
func appendOption(field **pattern.Node, seq *pattern.Node, caseSensitive bool) {
	if *field == nil {
		*field = pattern.NewOptions([]*pattern.Node{seq}, caseSensitive)
		return
	}
	(*field).Children = append((*field).Children, seq)
}

// deriveIntermediate classifies a node "intermediate" (spec.md Glossary:
// "an intermediate node whose children are keyed by pure-literal text can
// be descended into directly, without listing the directory") when it has
// no Terminal patterns requiring enumeration, at least one child, and
// every child is pure-literal. Recurses into children first so the flag
// is correct bottom-up, though the flag itself only depends on this
// node's immediate children.
func deriveIntermediate(node *Node) {
	if node.IsRecursive {
		return
	}
	for _, c := range node.Children {
		deriveIntermediate(c.Node)
	}
	if node.Terminal != nil || len(node.Children) == 0 {
		return
	}
	allLiteral := true
	for _, c := range node.Children {
		if !c.IsLiteral {
			allLiteral = false
			break
		}
	}
	node.IsIntermediate = allLiteral
}

// hasOverlappingRoots reports whether the tree has both a "." (relative)
// root and at least one recognized-absolute root, which alone forces
// dedup: an absolute-context walk may re-derive a path already produced
// by the relative walk (spec.md §4.5).
func hasOverlappingRoots(tree Tree) bool {
	if len(tree) < 2 {
		return false
	}
	_, hasDot := tree["."]
	return hasDot
}

// deriveOverlap computes whether listing through node can produce
// duplicate paths, per spec.md §4.5: a recursive node never overlaps (one
// subtree walk, one validator filter, so every path is visited exactly
// once); a node with more than one child can overlap if the matching is
// case-insensitive (two differently-cased children could both match the
// same on-disk entry), if any child segment is non-literal (two
// wildcarded children could both match the same entry), or if any child
// subtree itself can overlap. forcedByRoots seeds every node's result
// because an absolute/relative root collision can surface a duplicate
// anywhere beneath it, not only at the top.
func deriveOverlap(node *Node, forcedByRoots bool) bool {
	if node.IsRecursive {
		node.CanOverlap = forcedByRoots
		return node.CanOverlap
	}
	childOverlap := false
	nonLiteralChild := false
	caseInsensitive := false
	for _, c := range node.Children {
		if deriveOverlap(c.Node, forcedByRoots) {
			childOverlap = true
		}
		if !c.IsLiteral {
			nonLiteralChild = true
		}
		if !c.Segment.CaseSensitive {
			caseInsensitive = true
		}
	}
	node.CanOverlap = forcedByRoots || childOverlap ||
		(len(node.Children) > 1 && (caseInsensitive || nonLiteralChild))
	return node.CanOverlap
}
