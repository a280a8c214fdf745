package listtree

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/koblas/goglob/glob/pattern"
	"github.com/koblas/goglob/globfs"
	"github.com/koblas/goglob/pathstyle"
)

// Walk drives fsys over the descent plan built by Plan, returning every
// matched path, per spec.md §4.6. Results are deduplicated when any
// ListTreeNode (or the presence of both an absolute and a "." root)
// requires it, and sorted for deterministic output.
func Walk(ctx context.Context, fsys globfs.Adapter, tree Tree, style pathstyle.Style, followLinks bool) ([]string, error) {
	adapter := pathstyle.For(style)
	seen := map[string]struct{}{}
	var all []string

	for root, node := range tree {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := root
		if start == "." {
			start = adapter.Current()
		}
		res, err := walkNode(ctx, fsys, node, start, followLinks, true)
		if err != nil {
			return nil, err
		}
		for _, p := range res {
			if node.CanOverlap {
				if _, ok := seen[p]; ok {
					continue
				}
				seen[p] = struct{}{}
			}
			all = append(all, p)
		}
	}

	sort.Strings(all)
	return all, nil
}

// WalkAsync runs Walk on a goroutine and streams its results over a
// channel, the same cooperative-single-task shape globfs.OS's async
// methods use: the underlying work is a single synchronous pass, wrapped
// so callers get channel-based cancellation via ctx without the walker
// itself needing a fully streaming tree traversal.
func WalkAsync(ctx context.Context, fsys globfs.Adapter, tree Tree, style pathstyle.Style, followLinks bool) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		results, err := Walk(ctx, fsys, tree, style, followLinks)
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}
		for _, p := range results {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// walkNode lists/descends node rooted at the physical path dirPath,
// returning every matched path below it. strict controls not-found
// handling (spec.md §4.5): reached only through literal/intermediate
// descent, a missing directory is a genuine error and propagates;
// reached through a recursive node's subtree listing or a general node's
// matched entry, it's absorbed silently, since those paths are only
// candidates the validator or the directory listing already produced.
func walkNode(ctx context.Context, fsys globfs.Adapter, node *Node, dirPath string, followLinks, strict bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []string
	if node.MatchSelf {
		results = append(results, dirPath)
	}

	if node.IsRecursive {
		entries, err := fsys.ListDirRecursiveSync(dirPath, followLinks)
		if err != nil {
			if globfs.IsNotFound(err) {
				if strict {
					return nil, err
				}
				return results, nil
			}
			return nil, err
		}
		validators, err := compileOptions(node.Validator)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			rel := relativeTo(dirPath, e.Path)
			if matchOptions(rel, validators) {
				results = append(results, e.Path)
			}
		}
		return results, nil
	}

	if len(node.Children) == 0 && node.Terminal == nil {
		return results, nil
	}

	if node.Terminal == nil && node.IsIntermediate {
		var caseInsensitive []*Child
		for _, c := range node.Children {
			if !c.Segment.CaseSensitive {
				caseInsensitive = append(caseInsensitive, c)
				continue
			}
			childPath := joinRoot(dirPath, c.Literal)
			sub, err := walkNode(ctx, fsys, c.Node, childPath, followLinks, true)
			if err != nil {
				return nil, err
			}
			results = append(results, sub...)
		}

		if len(caseInsensitive) > 0 {
			sub, err := walkCaseInsensitiveChildren(ctx, fsys, caseInsensitive, dirPath, followLinks, strict)
			if err != nil {
				return nil, err
			}
			results = append(results, sub...)
		}
		return results, nil
	}

	entries, err := fsys.ListDirSync(dirPath, followLinks)
	if err != nil {
		if globfs.IsNotFound(err) {
			if strict {
				return nil, err
			}
			return results, nil
		}
		return nil, err
	}

	terminals, err := compileOptions(node.Terminal)
	if err != nil {
		return nil, err
	}
	childRes := make(map[*Child]*regexp.Regexp, len(node.Children))
	for _, c := range node.Children {
		re, err := pattern.CompileSegmentRegexp(c.Segment.Children)
		if err != nil {
			return nil, err
		}
		childRes[c] = re
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := path.Base(e.Path)
		if matchOptions(base, terminals) {
			results = append(results, e.Path)
		}
		for c, re := range childRes {
			if !re.MatchString(base) {
				continue
			}
			sub, err := walkNode(ctx, fsys, c.Node, e.Path, followLinks, false)
			if err != nil {
				return nil, err
			}
			results = append(results, sub...)
		}
	}
	return results, nil
}

// walkCaseInsensitiveChildren handles the intermediate-node children whose
// segment is case-insensitive (spec.md §4.6): a byte-exact joinRoot would
// miss an on-disk entry whose casing differs from the pattern's literal
// text, so the directory is enumerated once and each entry is matched
// against every child's literal with strings.EqualFold. A child with no
// matching entry still gets a literal-join descent, the same forced,
// strict=true shape the case-sensitive branch always uses, so a genuinely
// missing child still surfaces its not-found error.
func walkCaseInsensitiveChildren(ctx context.Context, fsys globfs.Adapter, children []*Child, dirPath string, followLinks, strict bool) ([]string, error) {
	entries, err := fsys.ListDirSync(dirPath, followLinks)
	if err != nil {
		if globfs.IsNotFound(err) {
			if strict {
				return nil, err
			}
			return nil, nil
		}
		return nil, err
	}

	var results []string
	matched := make(map[*Child]bool, len(children))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := path.Base(e.Path)
		for _, c := range children {
			if !strings.EqualFold(base, c.Literal) {
				continue
			}
			matched[c] = true
			sub, err := walkNode(ctx, fsys, c.Node, e.Path, followLinks, false)
			if err != nil {
				return nil, err
			}
			results = append(results, sub...)
		}
	}

	for _, c := range children {
		if matched[c] {
			continue
		}
		childPath := joinRoot(dirPath, c.Literal)
		sub, err := walkNode(ctx, fsys, c.Node, childPath, followLinks, true)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
	}
	return results, nil
}

// compileOptions compiles every alternative of an Options node (Validator
// or Terminal) into its segment form. Terminal alternatives are always
// single-segment, so this is the same shape CompileAlternative already
// produces for a multi-segment Validator pattern — one compiled list per
// alternative, matched independently and ORed together.
func compileOptions(v *pattern.Node) ([][]pattern.CompiledSegment, error) {
	if v == nil {
		return nil, nil
	}
	out := make([][]pattern.CompiledSegment, 0, len(v.Children))
	for _, alt := range v.Children {
		segs, err := pattern.CompileAlternative(alt)
		if err != nil {
			return nil, err
		}
		out = append(out, segs)
	}
	return out, nil
}

func matchOptions(relPath string, alts [][]pattern.CompiledSegment) bool {
	fileSegs := pattern.SplitPath(relPath)
	for _, segs := range alts {
		if pattern.MatchSegments(fileSegs, segs) {
			return true
		}
	}
	return false
}

// relativeTo strips dirPath (as listed by fsys) from a recursively-listed
// entry's full path, leaving a POSIX-form path relative to dirPath.
func relativeTo(dirPath, full string) string {
	if dirPath == "." || dirPath == "" {
		return full
	}
	trimmed := strings.TrimPrefix(full, strings.TrimRight(dirPath, "/"))
	return strings.TrimLeft(trimmed, "/")
}

// joinRoot joins a directory path and a child literal name, treating "."
// as "no prefix" so relative results come back as "foo/bar", not
// "./foo/bar".
func joinRoot(dirPath, name string) string {
	if dirPath == "." {
		return name
	}
	return pathstyle.JoinPOSIX(dirPath, name)
}
