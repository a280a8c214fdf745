package glob

import (
	"strings"

	"github.com/koblas/goglob/glob/pattern"
	"github.com/koblas/goglob/pathstyle"
)

// compiledAlternative is one Options-free Sequence reduced to its matching
// form: a recognized root prefix (empty for a relative alternative) plus
// the compiled segments of everything after it.
type compiledAlternative struct {
	root     string
	segments []pattern.CompiledSegment
}

// compileAlternatives compiles every flattened alternative of a Glob
// against its path style, splitting off each alternative's root prefix
// (spec.md §4.3) before handing the remainder to pattern.CompileAlternative.
func compileAlternatives(flat []*pattern.Node, style pathstyle.Style) ([]compiledAlternative, error) {
	adapter := pathstyle.For(style)
	out := make([]compiledAlternative, 0, len(flat))
	for _, alt := range flat {
		root, rest := pattern.ExtractRoot(alt.Children, adapter)
		segs, err := pattern.CompileAlternative(pattern.NewSequence(rest, alt.CaseSensitive))
		if err != nil {
			return nil, err
		}
		out = append(out, compiledAlternative{root: root, segments: segs})
	}
	return out, nil
}

// canMatchAbsolute/canMatchRelative report whether any compiled
// alternative requires an absolute or a relative candidate form,
// respectively (spec.md §4.3 step 1: "determine two candidate forms of
// the path"). A Glob with a mix of both (e.g. Union("/etc/*", "*.go"))
// needs both forms tried against the same input path.
func canMatchAbsolute(alts []compiledAlternative) bool {
	for _, a := range alts {
		if a.root != "" {
			return true
		}
	}
	return false
}

func canMatchRelative(alts []compiledAlternative) bool {
	for _, a := range alts {
		if a.root == "" {
			return true
		}
	}
	return false
}

// matchPath is the whole-string matcher: it builds the absolute and/or
// relative candidate forms of path (as required by alts) and tries every
// compiled alternative against whichever candidate form has a compatible
// root, per spec.md §4.3. context is the base directory used to convert
// between the two forms (Glob.Matches passes the style adapter's current
// directory).
func matchPath(alts []compiledAlternative, path, context string, style pathstyle.Style) bool {
	adapter := pathstyle.For(style)

	var absCandidate, relCandidate string
	haveAbs, haveRel := false, false

	if adapter.IsAbsolute(path) {
		absCandidate = adapter.Normalize(path)
		haveAbs = true
		if canMatchRelative(alts) {
			relCandidate = adapter.Relative(path, context)
			haveRel = true
		}
	} else {
		relCandidate = adapter.Normalize(path)
		haveRel = true
		if canMatchAbsolute(alts) {
			absCandidate = adapter.Normalize(adapter.Absolute(context) + "/" + path)
			haveAbs = true
		}
	}

	for _, alt := range alts {
		if alt.root == "" {
			if !haveRel {
				continue
			}
			if pattern.MatchSegments(pattern.SplitPath(relCandidate), alt.segments) {
				return true
			}
			continue
		}
		if !haveAbs {
			continue
		}
		if !strings.HasPrefix(absCandidate, alt.root) {
			continue
		}
		rest := absCandidate[len(alt.root):]
		if pattern.MatchSegments(pattern.SplitPath(rest), alt.segments) {
			return true
		}
	}
	return false
}
