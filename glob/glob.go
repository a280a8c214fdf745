package glob

import (
	"context"
	"sync"

	"github.com/koblas/goglob/glob/pattern"
	"github.com/koblas/goglob/globfs"
	"github.com/koblas/goglob/listtree"
	"github.com/koblas/goglob/pathstyle"
)

// Options configures Glob construction, per spec.md §6/§4.7.
type Options struct {
	// Context selects the path style the pattern and matched paths are
	// interpreted under. Zero value (POSIX) is the system default.
	Context pathstyle.Style
	// Recursive, when true, expands the pattern to match both the literal
	// pattern and everything below it: `{P, P/**}`.
	Recursive bool
	// CaseSensitive overrides the per-style default (true everywhere
	// except Windows, where the default is false). Nil means "use the
	// style default".
	CaseSensitive *bool
}

// ListOptions configures a List/ListSync call, per spec.md §4.7/§6.
type ListOptions struct {
	// FollowLinks controls whether symbolic links are followed during
	// enumeration. The zero value (false) does not follow links;
	// DefaultListOptions sets it to true.
	FollowLinks bool
	// Root is the starting directory for relative patterns; defaults to
	// the style adapter's current directory.
	Root string
}

// DefaultListOptions returns the spec's defaults: FollowLinks true, Root
// the adapter's current directory.
func DefaultListOptions() ListOptions {
	return ListOptions{FollowLinks: true, Root: "."}
}

// ContextMismatchError is returned when List/ListSync is invoked on a Glob
// whose Context disagrees with the running platform's path style.
type ContextMismatchError struct {
	Want pathstyle.Style
	Got  pathstyle.Style
}

func (e *ContextMismatchError) Error() string {
	return "glob: context mismatch: glob built for " + e.Want.String() + " but running under " + e.Got.String()
}

// IncompatibleUnionError is returned by Union when the two Globs disagree
// on context or case-sensitivity.
type IncompatibleUnionError struct {
	Reason string
}

func (e *IncompatibleUnionError) Error() string { return "glob: incompatible union: " + e.Reason }

// FilesystemError wraps an error surfaced from the filesystem adapter
// during List/ListSync, per spec.md §7.
type FilesystemError struct {
	Op       string
	Path     string
	NotFound bool
	Err      error
}

func (e *FilesystemError) Error() string {
	return "glob: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// InvariantViolation reports an internal assertion failure: a pattern
// tree reached an illegal state. Always a bug, never a user input error.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "glob: invariant violation: " + e.Msg }

// Glob is the compiled, immutable public value described by spec.md §3/§4.7:
// a pattern string plus context and case-sensitivity, compiled once into a
// pattern tree and lazily, once, into a list-tree.
type Glob struct {
	raw           string
	style         pathstyle.Style
	caseSensitive bool
	recursive     bool

	tree *pattern.Node
	flat []*pattern.Node
	alts []compiledAlternative

	listOnce sync.Once
	listErr  error
	plan     listtree.Tree
}

// New compiles pattern under opts into a Glob, per spec.md §4.7's
// "construct" operation. Defaults: Context = POSIX (the system style),
// Recursive = false, CaseSensitive = true except under Windows, where it
// defaults to false.
func New(raw string, opts Options) (*Glob, error) {
	caseSensitive := opts.Context != pathstyle.Windows
	if opts.CaseSensitive != nil {
		caseSensitive = *opts.CaseSensitive
	}

	tree, err := parsePattern(raw, opts.Context, caseSensitive)
	if err != nil {
		return nil, err
	}

	if opts.Recursive {
		withStars := pattern.NewSequence(
			append(append([]*pattern.Node{}, tree.Children...), pattern.NewLiteral("/", caseSensitive), pattern.NewDoubleStar(caseSensitive)),
			caseSensitive,
		)
		tree = pattern.NewSequence(
			[]*pattern.Node{pattern.NewOptions([]*pattern.Node{tree, withStars}, caseSensitive)},
			caseSensitive,
		)
	}

	flat := flattenOptions(tree)
	alts, err := compileAlternatives(flat, opts.Context)
	if err != nil {
		return nil, err
	}

	return &Glob{
		raw:           raw,
		style:         opts.Context,
		caseSensitive: caseSensitive,
		recursive:     opts.Recursive,
		tree:          tree,
		flat:          flat,
		alts:          alts,
	}, nil
}

// String returns the pattern text the Glob was built from (for a Union,
// "{a,b}" over the two source patterns).
func (g *Glob) String() string { return g.raw }

// Context reports the path style this Glob was compiled against.
func (g *Glob) Context() pathstyle.Style { return g.style }

// CaseSensitive reports whether this Glob matches case-sensitively.
func (g *Glob) CaseSensitive() bool { return g.caseSensitive }

// quoteMetaChars are the characters Quote escapes, per spec.md §4.7: every
// one of `* { [ ? \ } ] , - ( )` prefixed by `\`.
const quoteMetaChars = `*{[?\}],-()`

// Quote escapes every glob metacharacter in s so that Glob(Quote(s)) matches
// s literally and nothing else (spec.md §4.7/§8's quoting round-trip
// property).
func Quote(s string) string {
	out := make([]byte, 0, len(s)+8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if indexByte(quoteMetaChars, c) {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

func indexByte(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

// Union returns a Glob matching any path either a or b matches, per
// spec.md §4.7/§8. Fails when the two Globs' contexts or case-sensitivities
// differ, since a single compiled tree cannot represent mixed semantics.
func Union(a, b *Glob) (*Glob, error) {
	if a.style != b.style {
		return nil, &IncompatibleUnionError{Reason: "differing path contexts"}
	}
	if a.caseSensitive != b.caseSensitive {
		return nil, &IncompatibleUnionError{Reason: "differing case-sensitivity"}
	}

	combined := pattern.NewOptions([]*pattern.Node{a.tree, b.tree}, a.caseSensitive)
	tree := pattern.NewSequence([]*pattern.Node{combined}, a.caseSensitive)
	flat := flattenOptions(tree)
	alts, err := compileAlternatives(flat, a.style)
	if err != nil {
		return nil, err
	}

	return &Glob{
		raw:           "{" + a.raw + "," + b.raw + "}",
		style:         a.style,
		caseSensitive: a.caseSensitive,
		recursive:     a.recursive || b.recursive,
		tree:          tree,
		flat:          flat,
		alts:          alts,
	}, nil
}

// Match describes one successful matchAsPrefix/allMatches result: spec.md
// §4.7 defines only whole-string matching in this core, so a Match always
// covers the entire candidate path starting at position 0.
type Match struct {
	Path string
}

// Matches reports whether path matches the Glob, per spec.md §4.3. A
// malformed input path never errors; it simply yields false (spec.md §7).
func (g *Glob) Matches(path string) bool {
	return matchPath(g.alts, path, pathstyle.For(g.style).Current(), g.style)
}

// MatchAsPrefix reports a match only when start == 0, per spec.md §4.7: this
// core performs whole-string matching only, with no partial/anchored-prefix
// matches beyond position 0 (an explicit Non-goal).
func (g *Glob) MatchAsPrefix(path string, start int) (Match, bool) {
	if start != 0 {
		return Match{}, false
	}
	if g.Matches(path) {
		return Match{Path: path}, true
	}
	return Match{}, false
}

// AllMatches returns a zero- or one-element slice, since matchAsPrefix can
// succeed at most once per spec.md §4.7 ("zero- or one-element sequence").
func (g *Glob) AllMatches(path string, start int) []Match {
	if m, ok := g.MatchAsPrefix(path, start); ok {
		return []Match{m}
	}
	return nil
}

// ensureListTree builds the list-tree once, memoized under sync.Once per
// spec.md §5 ("the lazy list-tree cache is a one-time memoization ...
// preferred: build under a guard").
func (g *Glob) ensureListTree() error {
	g.listOnce.Do(func() {
		g.plan = listtree.Plan(g.flat, g.style)
	})
	return g.listErr
}

func (g *Glob) checkContext() error {
	system := pathstyle.System()
	if g.style != system {
		return &ContextMismatchError{Want: g.style, Got: system}
	}
	return nil
}

// ListSync materializes List's results into a slice, per spec.md §4.7.
func (g *Glob) ListSync(opts ListOptions) ([]string, error) {
	if err := g.checkContext(); err != nil {
		return nil, err
	}
	if err := g.ensureListTree(); err != nil {
		return nil, err
	}

	fsys := globfs.OS{}
	rooted := rootListTree(g.plan, opts.Root, g.style)
	results, err := listtree.Walk(context.Background(), fsys, rooted, g.style, opts.FollowLinks)
	if err != nil {
		return nil, classifyWalkError("list", opts.Root, err)
	}
	return results, nil
}

// List returns a lazy stream of matched paths and an error stream, driven
// by listtree.WalkAsync, per spec.md §4.6/§5's cooperative-single-task
// async model. The caller must drain (or abandon, via ctx cancellation)
// both channels.
func (g *Glob) List(ctx context.Context, opts ListOptions) (<-chan string, <-chan error) {
	if err := g.checkContext(); err != nil {
		errs := make(chan error, 1)
		out := make(chan string)
		errs <- err
		close(errs)
		close(out)
		return out, errs
	}
	if err := g.ensureListTree(); err != nil {
		errs := make(chan error, 1)
		out := make(chan string)
		errs <- err
		close(errs)
		close(out)
		return out, errs
	}

	fsys := globfs.OS{}
	rooted := rootListTree(g.plan, opts.Root, g.style)
	rawOut, rawErrs := listtree.WalkAsync(ctx, fsys, rooted, g.style, opts.FollowLinks)

	out := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for {
			select {
			case p, ok := <-rawOut:
				if !ok {
					rawOut = nil
					if rawErrs == nil {
						return
					}
					continue
				}
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			case e, ok := <-rawErrs:
				if !ok {
					rawErrs = nil
					if rawOut == nil {
						return
					}
					continue
				}
				select {
				case errs <- classifyWalkError("list", opts.Root, e):
				case <-ctx.Done():
				}
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errs
}

// rootListTree rewrites a "." keyed plan entry's effective starting
// directory to opts.Root (spec.md §6's "root (list call only): defaults
// to the adapter's current directory"); absolute-root entries are left
// untouched since they name their own starting directory.
func rootListTree(plan listtree.Tree, root string, style pathstyle.Style) listtree.Tree {
	if root == "" || root == "." {
		return plan
	}
	out := make(listtree.Tree, len(plan))
	for k, v := range plan {
		if k == "." {
			out[root] = v
			continue
		}
		out[k] = v
	}
	return out
}

// classifyWalkError wraps a raw globfs/context error into a FilesystemError,
// per spec.md §7, preserving not-found classification.
func classifyWalkError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Op: op, Path: path, NotFound: globfs.IsNotFound(err), Err: err}
}
