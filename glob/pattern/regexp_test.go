package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koblas/goglob/glob/pattern"
)

func TestCompileSegmentRegexpLiteralAndWildcards(t *testing.T) {
	atoms := []*pattern.Node{
		pattern.NewLiteral("foo", true),
		pattern.NewStar(true),
	}
	re, err := pattern.CompileSegmentRegexp(atoms)
	require.NoError(t, err)

	assert.True(t, re.MatchString("foobar"))
	assert.True(t, re.MatchString("foo"))
	assert.False(t, re.MatchString("foo/bar"))
	assert.False(t, re.MatchString("xfoo"))
}

func TestCompileSegmentRegexpAnyCharExcludesSeparator(t *testing.T) {
	re, err := pattern.CompileSegmentRegexp([]*pattern.Node{pattern.NewAnyChar(true)})
	require.NoError(t, err)

	assert.True(t, re.MatchString("a"))
	assert.False(t, re.MatchString("/"))
	assert.False(t, re.MatchString(""))
}

func TestCompileSegmentRegexpCaseInsensitiveFoldsASCIIOnly(t *testing.T) {
	re, err := pattern.CompileSegmentRegexp([]*pattern.Node{pattern.NewLiteral("Foo", false)})
	require.NoError(t, err)

	assert.True(t, re.MatchString("foo"))
	assert.True(t, re.MatchString("FOO"))
}

func TestCompileSegmentRegexpRangeNegated(t *testing.T) {
	re, err := pattern.CompileSegmentRegexp([]*pattern.Node{
		pattern.NewRange([]pattern.RangeItem{{Lo: 'a', Hi: 'z'}}, true, true),
	})
	require.NoError(t, err)

	assert.False(t, re.MatchString("a"))
	assert.True(t, re.MatchString("A"))
	assert.False(t, re.MatchString("/"))
}
