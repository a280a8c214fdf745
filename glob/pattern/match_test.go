package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koblas/goglob/glob/pattern"
)

func seq(caseSensitive bool, nodes ...*pattern.Node) *pattern.Node {
	return pattern.NewSequence(nodes, caseSensitive)
}

func TestMatchSegmentsLiteral(t *testing.T) {
	alt := seq(true, pattern.NewLiteral("foo", true))
	segs, err := pattern.CompileAlternative(alt)
	require.NoError(t, err)

	assert.True(t, pattern.MatchSegments([]string{"foo"}, segs))
	assert.False(t, pattern.MatchSegments([]string{"bar"}, segs))
	assert.False(t, pattern.MatchSegments([]string{"foo", "bar"}, segs))
}

func TestMatchSegmentsDoubleStarSwallowsAnyDepth(t *testing.T) {
	alt := seq(true,
		pattern.NewLiteral("foo", true),
		pattern.NewLiteral("/", true),
		pattern.NewDoubleStar(true),
	)
	segs, err := pattern.CompileAlternative(alt)
	require.NoError(t, err)

	assert.True(t, pattern.MatchSegments([]string{"foo"}, segs))
	assert.True(t, pattern.MatchSegments([]string{"foo", "bar"}, segs))
	assert.True(t, pattern.MatchSegments([]string{"foo", "bar", "baz"}, segs))
	assert.False(t, pattern.MatchSegments([]string{"other"}, segs))
}

func TestMatchSegmentsDoubleStarBetweenLiterals(t *testing.T) {
	alt := seq(true,
		pattern.NewLiteral("a", true),
		pattern.NewLiteral("/", true),
		pattern.NewDoubleStar(true),
		pattern.NewLiteral("/", true),
		pattern.NewLiteral("z", true),
	)
	segs, err := pattern.CompileAlternative(alt)
	require.NoError(t, err)

	assert.True(t, pattern.MatchSegments([]string{"a", "z"}, segs))
	assert.True(t, pattern.MatchSegments([]string{"a", "b", "z"}, segs))
	assert.True(t, pattern.MatchSegments([]string{"a", "b", "c", "z"}, segs))
	assert.False(t, pattern.MatchSegments([]string{"a", "b"}, segs))
}

func TestSplitOnSeparators(t *testing.T) {
	children := []*pattern.Node{
		pattern.NewLiteral("foo", true),
		pattern.NewLiteral("/", true),
		pattern.NewStar(true),
	}
	groups := pattern.SplitOnSeparators(children)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 1)
}

func TestIsPureLiteral(t *testing.T) {
	text, ok := pattern.IsPureLiteral([]*pattern.Node{pattern.NewLiteral("foo", true), pattern.NewLiteral("bar", true)})
	assert.True(t, ok)
	assert.Equal(t, "foobar", text)

	_, ok = pattern.IsPureLiteral([]*pattern.Node{pattern.NewLiteral("foo", true), pattern.NewStar(true)})
	assert.False(t, ok)
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, pattern.SplitPath(""))
	assert.Equal(t, []string{"foo", "bar"}, pattern.SplitPath("foo/bar"))
	assert.Equal(t, []string{"", "foo"}, pattern.SplitPath("/foo"))
}
