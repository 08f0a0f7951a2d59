package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stcherr "github.com/conneroisu/stache/internal/errors"
)

func TestMatchSectionSimple(t *testing.T) {
	src := "body{{/a}}after"

	bodyEnd, next, err := matchSection(src, 0, "a", Start())

	require.Nil(t, err)
	assert.Equal(t, len("body"), bodyEnd)
	assert.Equal(t, len("body{{/a}}"), next)
}

func TestMatchSectionBalancesSameNamedNesting(t *testing.T) {
	src := "{{#a}}x{{/a}}{{/a}}"

	bodyEnd, next, err := matchSection(src, 0, "a", Start())

	require.Nil(t, err)
	assert.Equal(t, len("{{#a}}x{{/a}}"), bodyEnd)
	assert.Equal(t, len(src), next)
}

func TestMatchSectionIgnoresOtherNames(t *testing.T) {
	src := "{{#b}}{{/b}}{{var}}{{>part}}{{! note }}{{/a}}"

	bodyEnd, _, err := matchSection(src, 0, "a", Start())

	require.Nil(t, err)
	assert.Equal(t, len(src)-len("{{/a}}"), bodyEnd)
}

func TestMatchSectionInvertedOpenCountsTowardsDepth(t *testing.T) {
	src := "{{^a}}{{/a}}{{/a}}"

	bodyEnd, _, err := matchSection(src, 0, "a", Start())

	require.Nil(t, err)
	assert.Equal(t, len("{{^a}}{{/a}}"), bodyEnd)
}

func TestMatchSectionNeverClosed(t *testing.T) {
	_, _, err := matchSection("{{#a}}{{/a}}", 0, "outer", Start())

	require.NotNil(t, err)
	assert.Equal(t, stcherr.KindExpectedEndSection, err.Kind)
}

func TestMatchSectionMismatchedCloseName(t *testing.T) {
	// {{/b}} never matches {{#a}}; the scan runs out of input.
	_, _, err := matchSection("{{/b}}", 0, "a", Start())

	require.NotNil(t, err)
	assert.Equal(t, stcherr.KindExpectedEndSection, err.Kind)
}

func TestMatchSectionPropagatesInnerScanErrors(t *testing.T) {
	_, _, err := matchSection("{{bro", 0, "a", Start())

	require.NotNil(t, err)
	assert.Equal(t, stcherr.KindExpectedCloseCurlyBrace, err.Kind)
}

func TestMatchSectionErrorPositionTracksLines(t *testing.T) {
	_, _, err := matchSection("line one\nline two\n", 0, "a", Start())

	require.NotNil(t, err)
	assert.Equal(t, stcherr.KindExpectedEndSection, err.Kind)
	assert.Equal(t, 3, err.Line)
}
