package pattern

import (
	"regexp"
	"strings"
)

// CompileSegmentRegexp compiles a single path segment's non-DoubleStar
// atoms into one anchored regexp matching exactly that segment string.
// Shared by the matcher (whole-string matching, glob package) and the
// list-tree planner/walker (listtree package, matching a single directory
// entry's basename against a ListTreeNode's child or validator segment),
// so both apply identical Literal/AnyChar/Star/Range semantics.
func CompileSegmentRegexp(atoms []*Node) (*regexp.Regexp, error) {
	var b strings.Builder
	caseSensitive := true
	for _, a := range atoms {
		caseSensitive = a.CaseSensitive
		writeAtomRegexp(&b, a)
	}
	prefix := "^"
	if !caseSensitive {
		prefix = "(?i)^"
	}
	return regexp.Compile(prefix + b.String() + "$")
}

func writeAtomRegexp(b *strings.Builder, n *Node) {
	switch n.Kind {
	case Literal:
		if n.CaseSensitive {
			b.WriteString(regexp.QuoteMeta(n.Text))
			return
		}
		// (?i) also folds non-ASCII runes, so it is switched off here and
		// ASCII letters are folded by hand.
		b.WriteString("(?-i:")
		for _, r := range n.Text {
			if f := foldASCIIRange(r); f != r {
				b.WriteString("[" + string(r) + string(f) + "]")
			} else {
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		b.WriteString(")")
	case AnyChar:
		b.WriteString(`[^/]`)
	case Star:
		b.WriteString(`[^/]*`)
	case Range:
		// rangeToClass already adds the ASCII case counterparts itself.
		b.WriteString("(?-i:" + rangeToClass(n) + ")")
	default:
		// Unreachable for a segment's non-DoubleStar atoms.
	}
}

func rangeToClass(n *Node) string {
	var b strings.Builder
	b.WriteByte('[')
	if n.Negate {
		b.WriteByte('^')
		b.WriteString("/") // a negated range must still never match a separator
	}
	for _, it := range n.Ranges {
		writeClassRune(&b, it.Lo)
		if it.Hi != it.Lo {
			b.WriteByte('-')
			writeClassRune(&b, it.Hi)
		}
		if !n.CaseSensitive {
			lo2, hi2 := foldASCIIRange(it.Lo), foldASCIIRange(it.Hi)
			if lo2 != it.Lo || hi2 != it.Hi {
				writeClassRune(&b, lo2)
				if hi2 != lo2 {
					b.WriteByte('-')
					writeClassRune(&b, hi2)
				}
			}
		}
	}
	b.WriteByte(']')
	return b.String()
}

func foldASCIIRange(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A')
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	default:
		return r
	}
}

func writeClassRune(b *strings.Builder, r rune) {
	switch r {
	case '\\', ']', '^', '-':
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}
