package pattern

import (
	"strings"

	"github.com/koblas/goglob/pathstyle"
)

// SplitPath splits an already-POSIX-normalized path string into segment
// strings for MatchSegments, mirroring the convention SplitOnSeparators
// uses on the pattern side: "" splits to zero segments, and a leading or
// trailing "/" produces a leading or trailing empty segment.
func SplitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// SplitOnSeparators splits a Sequence's children on Literal("/") nodes,
// dropping the separators themselves. A leading or trailing separator
// produces an empty segment. Shared by the matcher (glob package) and the
// list-tree planner (listtree package), both of which need to reason about
// a compiled pattern one path component at a time.
func SplitOnSeparators(children []*Node) [][]*Node {
	var groups [][]*Node
	var cur []*Node
	for _, c := range children {
		if c.IsSeparatorLiteral() {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, c)
	}
	groups = append(groups, cur)
	return groups
}

// IsPureLiteral reports whether every atom in a segment is a Literal node,
// and if so returns their concatenated text. Used by the planner to
// classify a ListTreeNode as "intermediate" (spec.md §4.5/Glossary) and by
// root-prefix detection below.
func IsPureLiteral(atoms []*Node) (string, bool) {
	text := ""
	for _, a := range atoms {
		if a.Kind != Literal {
			return "", false
		}
		text += a.Text
	}
	return text, true
}

// ExtractRoot recognizes an absolute-root prefix at the start of a
// Sequence's children (spec.md §4.3's "leading /, a C:/-style drive, a
// //host/share UNC, or an http:// scheme forms a recognized root prefix
// consumed as a single Literal at pattern compile time"), and splits it
// off. Returns ("", children) unchanged when no root prefix is present,
// meaning the alternative is relative (root key "." in the planner).
//
// The scan accumulates every leading Literal-kind node (which includes the
// Literal("/") separator nodes — "/" carries no special kind, just special
// text) until it reaches a non-Literal node, then asks the path-style
// adapter how much of that accumulated text is a genuine root. The result
// is mapped back onto node boundaries, splitting the final consumed
// Literal node's text if the root prefix ends strictly inside it (the
// Windows drive-relative "C:foo" case, where RootPrefix returns 2 but the
// lexer already merged "C:foo" into one literal run).
func ExtractRoot(children []*Node, adapter pathstyle.Adapter) (string, []*Node) {
	i := 0
	for i < len(children) && children[i].Kind == Literal {
		i++
	}
	if i == 0 {
		return "", children
	}
	prefixText := ""
	for _, c := range children[:i] {
		prefixText += c.Text
	}

	n := adapter.RootPrefix(prefixText)
	if n <= 0 {
		return "", children
	}
	if n >= len(prefixText) {
		return prefixText, children[i:]
	}

	cum := 0
	for j := 0; j < i; j++ {
		l := len(children[j].Text)
		if cum+l > n {
			splitAt := n - cum
			remPart := children[j].Text[splitAt:]
			root := prefixText[:n]
			var rest []*Node
			if remPart != "" {
				rest = append(rest, NewLiteral(remPart, children[j].CaseSensitive))
			}
			rest = append(rest, children[j+1:]...)
			return root, rest
		}
		cum += l
	}
	// Unreachable given n < len(prefixText) and the loop invariant above.
	return prefixText, children[i:]
}
