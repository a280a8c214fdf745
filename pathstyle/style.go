// Package pathstyle abstracts over the three path flavors a Glob can be
// compiled against: POSIX, Windows, and URL. It is the "host path library"
// collaborator of the glob package — normalization, join/relative/absolute,
// separator detection, and literal URL-encoding all live here so the
// matcher and planner never need a runtime.GOOS check.
package pathstyle

import (
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Style names the path flavor a Glob is compiled against.
type Style int

const (
	POSIX Style = iota
	Windows
	URLStyle
)

func (s Style) String() string {
	switch s {
	case POSIX:
		return "posix"
	case Windows:
		return "windows"
	case URLStyle:
		return "url"
	default:
		return "unknown"
	}
}

// Adapter is the contract the glob core requires of a host path library.
type Adapter interface {
	Separator() byte
	IsAbsolute(p string) bool
	Normalize(p string) string
	Absolute(p string) string
	Relative(p, base string) string
	Current() string
	ToPOSIX(p string) string
	Style() Style
	// RootPrefix returns the length of a recognized absolute-root prefix
	// at the start of a compiled pattern's literal text, or 0 if none.
	// E.g. "/" on POSIX, "C:/" or "//host/share/" on Windows, "http://host/"
	// on URL style.
	RootPrefix(literal string) int
}

// For returns the default adapter for the given style.
func For(s Style) Adapter {
	switch s {
	case Windows:
		return windowsAdapter{}
	case URLStyle:
		return urlAdapter{}
	default:
		return posixAdapter{}
	}
}

// System returns the style a Glob should default to
// when no Context option is supplied, mirroring the current build's path
// conventions. This module targets POSIX hosts primarily; callers that
// need genuine host detection should pass an explicit Style.
func System() Style {
	return POSIX
}

func collapseDotSegments(segs []string, absolute bool) []string {
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
				continue
			}
			if absolute {
				continue
			}
			out = append(out, "..")
		default:
			out = append(out, seg)
		}
	}
	return out
}

// --- POSIX ---

type posixAdapter struct{}

func (posixAdapter) Separator() byte { return '/' }

func (posixAdapter) IsAbsolute(p string) bool { return strings.HasPrefix(p, "/") }

func (a posixAdapter) Normalize(p string) string {
	absolute := a.IsAbsolute(p)
	segs := collapseDotSegments(strings.Split(p, "/"), absolute)
	joined := strings.Join(segs, "/")
	if absolute {
		return "/" + joined
	}
	return joined
}

func (a posixAdapter) Absolute(p string) string {
	if a.IsAbsolute(p) {
		return a.Normalize(p)
	}
	return a.Normalize(a.Current() + "/" + p)
}

func (a posixAdapter) Relative(p, base string) string {
	pp := strings.Split(strings.Trim(a.Absolute(p), "/"), "/")
	bb := strings.Split(strings.Trim(a.Absolute(base), "/"), "/")
	i := 0
	for i < len(pp) && i < len(bb) && pp[i] == bb[i] {
		i++
	}
	up := len(bb) - i
	rest := pp[i:]
	parts := make([]string, 0, up+len(rest))
	for k := 0; k < up; k++ {
		parts = append(parts, "..")
	}
	parts = append(parts, rest...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func (posixAdapter) Current() string { return "." }

func (posixAdapter) ToPOSIX(p string) string { return p }

func (posixAdapter) Style() Style { return POSIX }

func (posixAdapter) RootPrefix(literal string) int {
	if strings.HasPrefix(literal, "/") {
		return 1
	}
	return 0
}

// --- Windows ---

type windowsAdapter struct{}

func (windowsAdapter) Separator() byte { return '\\' }

func canonicalizeWindows(p string) string {
	// The source this spec was distilled from calls
	// text.replaceAll("/", "\\") without using the result before root
	// detection; the return value discard there is a no-op only because
	// the canonicalization already ran earlier. We do it once, properly,
	// here: absolute-root literal detection always sees forward slashes.
	return strings.ReplaceAll(p, "\\", "/")
}

func (windowsAdapter) IsAbsolute(p string) bool {
	p = canonicalizeWindows(p)
	return windowsAdapter{}.RootPrefix(p) > 0
}

func (a windowsAdapter) Normalize(p string) string {
	p = canonicalizeWindows(p)
	prefixLen := a.RootPrefix(p)
	prefix := p[:prefixLen]
	rest := p[prefixLen:]
	absolute := prefixLen > 0
	segs := collapseDotSegments(strings.Split(rest, "/"), absolute)
	joined := strings.Join(segs, "/")
	if absolute {
		if strings.HasSuffix(prefix, "/") {
			return prefix + joined
		}
		return prefix + "/" + joined
	}
	return joined
}

func (a windowsAdapter) Absolute(p string) string {
	if a.IsAbsolute(p) {
		return a.Normalize(p)
	}
	return a.Normalize(a.Current() + "/" + p)
}

func (a windowsAdapter) Relative(p, base string) string {
	return posixAdapter{}.Relative(a.ToPOSIX(p), a.ToPOSIX(base))
}

func (windowsAdapter) Current() string { return "." }

func (windowsAdapter) ToPOSIX(p string) string { return canonicalizeWindows(p) }

func (windowsAdapter) Style() Style { return Windows }

// RootPrefix recognizes a drive letter ("C:/") or a UNC root ("//host/share/")
// at the start of an already-forward-slash-canonicalized literal.
func (windowsAdapter) RootPrefix(literal string) int {
	if len(literal) >= 2 && isASCIILetter(literal[0]) && literal[1] == ':' {
		if len(literal) >= 3 && literal[2] == '/' {
			return 3
		}
		return 2
	}
	if strings.HasPrefix(literal, "//") {
		rest := literal[2:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return 0
		}
		share := rest[slash+1:]
		shareSlash := strings.IndexByte(share, '/')
		if shareSlash < 0 {
			return len(literal)
		}
		return 2 + slash + 1 + shareSlash + 1
	}
	return 0
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// --- URL ---

type urlAdapter struct{}

func (urlAdapter) Separator() byte { return '/' }

func (a urlAdapter) IsAbsolute(p string) bool { return a.RootPrefix(p) > 0 }

func (a urlAdapter) Normalize(p string) string {
	prefixLen := a.RootPrefix(p)
	prefix := p[:prefixLen]
	rest := p[prefixLen:]
	absolute := prefixLen > 0
	segs := collapseDotSegments(strings.Split(rest, "/"), absolute)
	return prefix + strings.Join(segs, "/")
}

func (a urlAdapter) Absolute(p string) string {
	if a.IsAbsolute(p) {
		return a.Normalize(p)
	}
	return a.Normalize(a.Current() + "/" + p)
}

func (a urlAdapter) Relative(p, base string) string {
	return posixAdapter{}.Relative(p, base)
}

func (urlAdapter) Current() string { return "" }

func (urlAdapter) ToPOSIX(p string) string { return p }

func (urlAdapter) Style() Style { return URLStyle }

// RootPrefix recognizes a "scheme://authority/" prefix.
func (urlAdapter) RootPrefix(literal string) int {
	idx := strings.Index(literal, "://")
	if idx <= 0 {
		return 0
	}
	rest := literal[idx+3:]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return len(literal)
	}
	return idx + 3 + slash + 1
}

// EncodeLiteral percent-encodes a literal path segment. The glob matcher
// does not call it: URL-style patterns and paths are matched as written.
func EncodeLiteral(s string) string {
	u := &url.URL{Path: s}
	return u.EscapedPath()
}

// JoinPOSIX joins path segments using POSIX "/" rules, collapsing any
// duplicate separators produced at the seam.
func JoinPOSIX(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return strings.TrimRight(a, "/") + "/" + strings.TrimLeft(b, "/")
}

// CleanPOSIX normalizes a pure POSIX-form string with path.Clean, mapping
// a relative result of "." to "".
func CleanPOSIX(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

var _ Adapter = posixAdapter{}
var _ Adapter = windowsAdapter{}
var _ Adapter = urlAdapter{}

// ErrUnsupportedStyle is a sentinel for an operation invoked against a
// style the running platform cannot service. glob.ContextMismatchError
// does not wrap it.
var ErrUnsupportedStyle = errors.New("pathstyle: unsupported style for this platform")
