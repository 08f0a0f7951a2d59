package engine

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stcherr "github.com/conneroisu/stache/internal/errors"
	"github.com/conneroisu/stache/internal/value"
)

func record(fields map[string]value.Value) value.Value {
	return value.Record(fields)
}

func TestFetchOrCompileCachesByIdentifier(t *testing.T) {
	eng := New(MapLoader{"page": "hello {{name}}"})

	first, err := eng.FetchOrCompile("page")
	require.NoError(t, err)

	second, err := eng.FetchOrCompile("page")
	require.NoError(t, err)

	// Idempotent compile: one entry, same tree.
	assert.Same(t, first, second)
	assert.Equal(t, 1, eng.Count())
}

func TestFetchOrCompileMissingSource(t *testing.T) {
	eng := New(MapLoader{})

	_, err := eng.FetchOrCompile("ghost")
	require.Error(t, err)
	assert.True(t, stcherr.IsKind(err, stcherr.KindSourceNotFound))
}

func TestFetchOrCompileAttachesTemplateName(t *testing.T) {
	eng := New(MapLoader{"bad": "{{#a}}never closed"})

	_, err := eng.FetchOrCompile("bad")
	require.Error(t, err)

	var serr *stcherr.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "bad", serr.Template)
	assert.Equal(t, stcherr.KindExpectedEndSection, serr.Kind)
}

func TestCompileAllStopsAtFirstError(t *testing.T) {
	eng := New(MapLoader{
		"ok":     "fine",
		"broken": "{{oops",
	})

	err := eng.CompileAll([]string{"ok", "broken", "never-loaded"})
	require.Error(t, err)

	var serr *stcherr.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "broken", serr.Template)

	assert.True(t, eng.Cached("ok"))
	assert.False(t, eng.Cached("never-loaded"))
}

func TestCompileAllValidSet(t *testing.T) {
	eng := New(MapLoader{"a": "x", "b": "{{#s}}y{{/s}}"})

	require.NoError(t, eng.CompileAll([]string{"a", "b"}))
	assert.Equal(t, 2, eng.Count())
}

func TestRenderRequiresRecordContext(t *testing.T) {
	eng := New(MapLoader{"page": "x"})

	err := eng.Render("page", value.Text("scalar"), &strings.Builder{})
	require.Error(t, err)
	assert.True(t, stcherr.IsKind(err, stcherr.KindInvalidBindingShape))
}

func TestRenderEndToEnd(t *testing.T) {
	eng := New(MapLoader{
		"page": "foo\n{{foo}}\n{{#bar}}\n{{thing}}\n{{/bar}}\n{{^not_bar}}\n30\n{{/not_bar}}\n",
	})

	ctx := record(map[string]value.Value{
		"foo":     value.Int(69),
		"bar":     record(map[string]value.Value{"thing": value.Int(10)}),
		"not_bar": value.Bool(false),
	})

	var sb strings.Builder
	require.NoError(t, eng.Render("page", ctx, &sb))
	assert.Equal(t, "foo\n69\n10\n30\n", sb.String())
}

func TestRenderResolvesPartialsThroughCache(t *testing.T) {
	eng := New(MapLoader{
		"page":   "{{>header}}body",
		"header": "== {{title}} ==\n",
	})

	ctx := record(map[string]value.Value{"title": value.Text("T")})

	var sb strings.Builder
	require.NoError(t, eng.Render("page", ctx, &sb))
	assert.Equal(t, "== T ==\nbody", sb.String())

	// The partial landed in the same cache.
	assert.True(t, eng.Cached("header"))
	assert.Equal(t, 2, eng.Count())
}

func TestRenderMissingPartial(t *testing.T) {
	eng := New(MapLoader{"page": "{{>ghost}}"})

	err := eng.Render("page", record(nil), &strings.Builder{})
	require.Error(t, err)
	assert.True(t, stcherr.IsKind(err, stcherr.KindSourceNotFound))
}

func TestNestingLimitOption(t *testing.T) {
	eng := NewWithOptions(
		MapLoader{"deep": "{{#a}}{{#a}}{{#a}}x{{/a}}{{/a}}{{/a}}"},
		Options{MaxNesting: 2},
	)

	_, err := eng.FetchOrCompile("deep")
	require.Error(t, err)
	assert.True(t, stcherr.IsKind(err, stcherr.KindNestingTooDeep))
}

func TestFSLoaderEnforcesSizeCap(t *testing.T) {
	fsys := fstest.MapFS{
		"big.stache":   {Data: []byte(strings.Repeat("x", 100))},
		"small.stache": {Data: []byte("ok")},
	}
	loader := &FSLoader{FS: fsys, Ext: ".stache", MaxBytes: 50}

	_, err := loader.Load("big")
	require.Error(t, err)
	assert.True(t, stcherr.IsKind(err, stcherr.KindOversizedSource))

	src, err := loader.Load("small")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(src))
}

func TestFSLoaderMissing(t *testing.T) {
	loader := &FSLoader{FS: fstest.MapFS{}, Ext: ".stache"}

	_, err := loader.Load("ghost")
	require.Error(t, err)
	assert.True(t, stcherr.IsKind(err, stcherr.KindSourceNotFound))
}

func TestDirLoaderRejectsTraversal(t *testing.T) {
	loader := &DirLoader{Dir: t.TempDir(), Ext: ".stache"}

	for _, name := range []string{"", "../secret", "/etc/passwd"} {
		_, err := loader.Load(name)
		assert.Error(t, err, "identifier %q", name)
	}
}

func TestDirLoaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/page.stache", "hello {{name}}")

	eng := New(&DirLoader{Dir: dir, Ext: ".stache"})

	ctx := record(map[string]value.Value{"name": value.Text("ada")})

	var sb strings.Builder
	require.NoError(t, eng.Render("page", ctx, &sb))
	assert.Equal(t, "hello ada", sb.String())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
