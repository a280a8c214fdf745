package glob_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koblas/goglob/glob"
	"github.com/koblas/goglob/pathstyle"
)

// The scenarios below are the concrete end-to-end cases spec.md §8 lists
// literally, kept as a single table so new cases are cheap to add.
func TestMatchesScenarios(t *testing.T) {
	type scenario struct {
		pattern string
		path    string
		want    bool
	}
	scenarios := []scenario{
		{"foo*", "foobar", true},
		{"foo*", "baz", false},
		{"foo[a<.*]", "foo*", true},
		{"foo[a<.*]", "foob", false},
		{"foo[a<.*]", "foo>", false},
		{"foo[^/]bar", "foo-bar", true},
		{"foo/{bar,baz/bang}", "foo/bar", true},
		{"foo/{bar,baz/bang}", "foo/baz/bang", true},
		{"foo/{bar,baz/bang}", "foo/baz", false},
		{"foo/bar", "foo/./bar", true},
		{"bar", "foo/../bar", true},
		{"**", "../foo", false},
	}

	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.pattern+"~"+sc.path, func(t *testing.T) {
			g, err := glob.New(sc.pattern, glob.Options{})
			require.NoError(t, err)
			assert.Equal(t, sc.want, g.Matches(sc.path))
		})
	}
}

func TestRangeNeverCrossesSeparator(t *testing.T) {
	g, err := glob.New(`foo[\t-~]bar`, glob.Options{})
	require.NoError(t, err)
	assert.False(t, g.Matches("foo/bar"))
}

func TestStarMatchesEmpty(t *testing.T) {
	g, err := glob.New("foo*", glob.Options{})
	require.NoError(t, err)
	assert.True(t, g.Matches("foo"))
}

func TestDoubleStarMatchesZeroSegments(t *testing.T) {
	g, err := glob.New("foo/**", glob.Options{})
	require.NoError(t, err)
	assert.True(t, g.Matches("foo"))
}

func TestAnyCharRequiresExactlyOneRune(t *testing.T) {
	g, err := glob.New("?", glob.Options{})
	require.NoError(t, err)
	assert.True(t, g.Matches("a"))
	assert.False(t, g.Matches(""))
	assert.False(t, g.Matches("ab"))
}

func TestRecursiveOptionMatchesPrefix(t *testing.T) {
	g, err := glob.New("foo/bar", glob.Options{Recursive: true})
	require.NoError(t, err)
	assert.True(t, g.Matches("foo/bar"))
	assert.True(t, g.Matches("foo/bar/baz"))
	assert.False(t, g.Matches("foo/baz"))
}

func TestQuoteRoundTrip(t *testing.T) {
	literal := "a*b{c}[d]?e\\f,g-h(i)"
	quoted := glob.Quote(literal)

	g, err := glob.New(quoted, glob.Options{})
	require.NoError(t, err)
	assert.True(t, g.Matches(literal))
	assert.False(t, g.Matches("a-b-c"))
}

func TestUnionMatchesEither(t *testing.T) {
	a, err := glob.New("*.go", glob.Options{})
	require.NoError(t, err)
	b, err := glob.New("*.md", glob.Options{})
	require.NoError(t, err)

	u, err := glob.Union(a, b)
	require.NoError(t, err)

	assert.True(t, u.Matches("main.go"))
	assert.True(t, u.Matches("README.md"))
	assert.False(t, u.Matches("data.json"))
}

func TestUnionRejectsIncompatibleContexts(t *testing.T) {
	a, err := glob.New("*.go", glob.Options{Context: pathstyle.POSIX})
	require.NoError(t, err)
	b, err := glob.New("*.go", glob.Options{Context: pathstyle.Windows})
	require.NoError(t, err)

	_, err = glob.Union(a, b)
	var incompat *glob.IncompatibleUnionError
	require.ErrorAs(t, err, &incompat)
}

func TestUnionRejectsIncompatibleCaseSensitivity(t *testing.T) {
	sensitive := true
	insensitive := false
	a, err := glob.New("*.go", glob.Options{CaseSensitive: &sensitive})
	require.NoError(t, err)
	b, err := glob.New("*.go", glob.Options{CaseSensitive: &insensitive})
	require.NoError(t, err)

	_, err = glob.Union(a, b)
	var incompat *glob.IncompatibleUnionError
	require.ErrorAs(t, err, &incompat)
}

func TestMatchAsPrefixOnlyAtZero(t *testing.T) {
	g, err := glob.New("foo*", glob.Options{})
	require.NoError(t, err)

	m, ok := g.MatchAsPrefix("foobar", 0)
	assert.True(t, ok)
	assert.Equal(t, "foobar", m.Path)

	_, ok = g.MatchAsPrefix("foobar", 1)
	assert.False(t, ok)
}

func TestAllMatchesIsAtMostOne(t *testing.T) {
	g, err := glob.New("foo*", glob.Options{})
	require.NoError(t, err)

	assert.Len(t, g.AllMatches("foobar", 0), 1)
	assert.Len(t, g.AllMatches("baz", 0), 0)
}

func TestCaseSensitivityDefaults(t *testing.T) {
	posix, err := glob.New("FOO", glob.Options{Context: pathstyle.POSIX})
	require.NoError(t, err)
	assert.False(t, posix.Matches("foo"))

	win, err := glob.New("FOO", glob.Options{Context: pathstyle.Windows})
	require.NoError(t, err)
	assert.True(t, win.Matches("foo"))
}

// Filesystem scenario from spec.md §8 item 6.
func TestListSyncEnumeratesMinimumDirectories(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "foo", "baz"))
	mustWriteFile(t, filepath.Join(root, "foo", "bar"), "x")
	mustWriteFile(t, filepath.Join(root, "foo", "baz", "qux"), "y")
	mustWriteFile(t, filepath.Join(root, "foo", "baz", "bang"), "z")

	g, err := glob.New("foo/**", glob.Options{})
	require.NoError(t, err)

	results, err := g.ListSync(glob.ListOptions{FollowLinks: true, Root: root})
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "foo", "bar"),
		filepath.Join(root, "foo", "baz"),
		filepath.Join(root, "foo", "baz", "bang"),
		filepath.Join(root, "foo", "baz", "qux"),
	}
	sort.Strings(want)
	assert.Equal(t, want, results)
}

func TestListSyncTerminalPattern(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "foo"))
	mustWriteFile(t, filepath.Join(root, "foo", "bar"), "x")
	mustMkdirAll(t, filepath.Join(root, "foo", "baz"))

	g, err := glob.New("foo/ba?", glob.Options{})
	require.NoError(t, err)

	results, err := g.ListSync(glob.ListOptions{FollowLinks: true, Root: root})
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "foo", "bar"),
		filepath.Join(root, "foo", "baz"),
	}
	sort.Strings(want)
	assert.Equal(t, want, results)
}

func TestListSyncNonExistentRootFails(t *testing.T) {
	root := t.TempDir()

	g, err := glob.New("non/existent/**", glob.Options{})
	require.NoError(t, err)

	_, err = g.ListSync(glob.ListOptions{FollowLinks: true, Root: root})
	require.Error(t, err)
	var fsErr *glob.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.True(t, fsErr.NotFound)
}

func TestListDeterminismAsyncMatchesSync(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "foo", "baz"))
	mustWriteFile(t, filepath.Join(root, "foo", "bar"), "x")
	mustWriteFile(t, filepath.Join(root, "foo", "baz", "qux"), "y")

	g, err := glob.New("foo/**", glob.Options{})
	require.NoError(t, err)

	syncResults, err := g.ListSync(glob.ListOptions{FollowLinks: true, Root: root})
	require.NoError(t, err)

	out, errs := g.List(context.Background(), glob.ListOptions{FollowLinks: true, Root: root})
	var asyncResults []string
	for out != nil || errs != nil {
		select {
		case p, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			asyncResults = append(asyncResults, p)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			require.NoError(t, err)
		}
	}
	sort.Strings(asyncResults)
	assert.Equal(t, syncResults, asyncResults)
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
