package pattern

import "regexp"

// CompiledSegment is one "/"-delimited path component of a flattened
// pattern alternative: either a DoubleStar marker, or a single anchored
// regexp matching exactly one path segment string. Exported so both the
// whole-string matcher (glob package) and the list-tree validator
// matching (listtree package) share one compiled representation and one
// matching algorithm instead of growing two copies of it.
//
// Grounded on minimatch.matcher.parse, which compiles one *regexp.Regexp
// per path-part and leaves "**" as the sentinel GLOBSTAR value; we keep
// the same per-segment compilation unit but build it from the pattern
// tree instead of from pre-split pattern text.
type CompiledSegment struct {
	IsDoubleStar bool
	Re           *regexp.Regexp
}

// CompileAlternative turns one Options-free Sequence (as produced by the
// flattener, or assembled directly by the list-tree planner) into a list
// of CompiledSegments, splitting on the explicit Literal("/") child nodes
// the parser inserts between path components.
func CompileAlternative(seq *Node) ([]CompiledSegment, error) {
	groups := SplitOnSeparators(seq.Children)

	segs := make([]CompiledSegment, 0, len(groups))
	for _, g := range groups {
		if len(g) == 1 && g[0].Kind == DoubleStar {
			segs = append(segs, CompiledSegment{IsDoubleStar: true})
			continue
		}
		re, err := CompileSegmentRegexp(g)
		if err != nil {
			return nil, err
		}
		segs = append(segs, CompiledSegment{Re: re})
	}
	return segs, nil
}

// MatchSegments is the per-alternative matching algorithm: a segment-level
// backtracking walk directly descended from minimatch.matchOne's GLOBSTAR
// swallow-and-retry loop, generalized from "[]*regexp.Regexp vs []string"
// to "[]CompiledSegment vs []string", with the dot-dot restriction of
// spec.md §3/§4.3 in place of minimatch's hidden-dotfile restriction (this
// spec has no Dot option).
//
// Memoized on (file index, pattern index) so that adjacent/nested
// DoubleStar segments stay polynomial in len(file)*len(pat) instead of the
// exponential "recursively awful" blowup minimatch's own comments warn
// about for its JS equivalent.
func MatchSegments(file []string, pat []CompiledSegment) bool {
	fl, pl := len(file), len(pat)
	memo := make(map[[2]int]bool, (fl+1)*(pl+1))
	var rec func(fi, pi int) bool
	rec = func(fi, pi int) bool {
		key := [2]int{fi, pi}
		if v, ok := memo[key]; ok {
			return v
		}
		result := matchSegmentsFrom(file, pat, fi, pi, rec)
		memo[key] = result
		return result
	}
	return rec(0, 0)
}

func matchSegmentsFrom(file []string, pat []CompiledSegment, fi, pi int, rec func(int, int) bool) bool {
	fl, pl := len(file), len(pat)

	for fi < fl && pi < pl {
		p := pat[pi]

		if p.IsDoubleStar {
			pr := pi + 1
			if pr == pl {
				// "**" at the end swallows the rest, except it can never
				// swallow an unresolved ".." segment.
				for _, part := range file[fi:] {
					if part == ".." {
						return false
					}
				}
				return true
			}

			for fr := fi; fr <= fl; fr++ {
				if fr > fi && file[fr-1] == ".." {
					// can't swallow a ".." segment; "**" stops here.
					break
				}
				if rec(fr, pr) {
					return true
				}
			}
			return false
		}

		f := file[fi]
		if !p.Re.MatchString(f) {
			return false
		}
		fi++
		pi++
	}

	if fi == fl && pi == pl {
		return true
	}
	if pi == pl {
		// ran out of pattern, file left: only ok for a single trailing
		// empty segment (a path ending in "/").
		return fi == fl-1 && file[fi] == ""
	}
	// ran out of file, pattern left: only ok if every remaining pattern
	// segment is a DoubleStar, which is the only segment kind that may
	// represent the absence of a path component entirely (spec.md's
	// "DoubleStar matches zero segments" edge case). A Star/Literal/Range
	// segment still requires a real, even if empty, path component to be
	// present, so it fails here just as it does in minimatch's non-partial
	// matchOne (which returns `partial`, false for a whole-string match).
	for _, p := range pat[pi:] {
		if !p.IsDoubleStar {
			return false
		}
	}
	return true
}
