package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n  \n"))
	assert.NotNil(t, Parse(""), "empty input should yield empty slice, not nil")
}

func TestParse_SingleLink(t *testing.T) {
	got := Parse("(1: 100 200)")
	require.Len(t, got, 1)
	assert.Equal(t, Link{ID: 1, Source: 100, Target: 200}, got[0])
}

func TestParse_MultipleLinks(t *testing.T) {
	out := "(1: 100 200)\n(2: 300 400)\n(3: 0 0)\n"
	got := Parse(out)
	require.Len(t, got, 3)
	assert.Equal(t, Link{ID: 2, Source: 300, Target: 400}, got[1])
	assert.Equal(t, Link{ID: 3, Source: 0, Target: 0}, got[2])
}

func TestParse_ToleratesGarbageAndBlankLines(t *testing.T) {
	out := "\nchanges:\n(7: 42 1000)\n\nnot a triple\n(broken: x y)\n(8: 5 6)\n"
	got := Parse(out)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, int64(8), got[1].ID)
}

func TestParse_ExtraWhitespaceBetweenFields(t *testing.T) {
	got := Parse("(12:   7   9)")
	require.Len(t, got, 1)
	assert.Equal(t, Link{ID: 12, Source: 7, Target: 9}, got[0])
}

func TestParse_SkipsCommaSeparated(t *testing.T) {
	// The backend never emits commas; a comma-separated line is garbage.
	assert.Empty(t, Parse("(1: 100, 200)"))
}

func TestParseFirst_Embedded(t *testing.T) {
	out := "applied 1 change\n  before: none\n  after: (41: 100 200)\n"
	got := ParseFirst(out)
	require.NotNil(t, got)
	assert.Equal(t, Link{ID: 41, Source: 100, Target: 200}, *got)
}

func TestParseFirst_NoMatch(t *testing.T) {
	assert.Nil(t, ParseFirst(""))
	assert.Nil(t, ParseFirst("no triples here"))
}
