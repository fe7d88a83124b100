package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emredjan/xml-validation/pkg/runner"
)

// makeTree writes each file relative to dir with the given content.
func makeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func abs(dir string, names ...string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, filepath.FromSlash(name))
	}
	return paths
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"doc.xml": "<a/>"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"doc.xml"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "doc.xml"), files)
}

func TestDiscover_ExplicitFilesAlwaysIncluded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"notes.txt": "<a/>"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:        []string{"notes.txt", "missing.xml"},
		WorkingDir:   dir,
		ExcludeGlobs: []string{"*.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "missing.xml", "notes.txt"), files)
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"catalog.xml":      "<a/>",
		"data/orders.XML":  "<a/>",
		"schema/order.xsd": "<xs:schema/>",
		"src/main.go":      "package main\n",
		"notes.txt":        "plain text",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "catalog.xml", "data/orders.XML", "schema/order.xsd"), files)
}

func TestDiscover_DefaultsToCurrentDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"a.xml": "<a/>"})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "a.xml"), files)
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"a.xml":  "<a/>",
		"b.conf": "<b/>",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".conf"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "a.xml", "b.conf"), files, ".xml is still recognized by name")
}

func TestDiscover_DetectContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"feed.data":  `<?xml version="1.0"?><rss/>`,
		"notes.data": "just text",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, DetectContent: true})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "feed.data"), files)
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"a.xml":                "<a/>",
		"vendor/pkg/b.xml":     "<b/>",
		"build/out/c.xml":      "<c/>",
		"docs/generated.xml":   "<d/>",
		"docs/handwritten.xml": "<e/>",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**", "build/**", "generated.xml"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "a.xml", "docs/handwritten.xml"), files)
}

func TestDiscover_IncludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"a.xml":       "<a/>",
		"feeds/b.xml": "<b/>",
		"feeds/c.xml": "<c/>",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		IncludeGlobs: []string{"feeds/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "feeds/b.xml", "feeds/c.xml"), files)
}

func TestDiscover_HiddenFilesAndDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"a.xml":           "<a/>",
		".hidden.xml":     "<b/>",
		".git/config.xml": "<c/>",
		"docs/.draft.xml": "<d/>",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "a.xml"), files)
}

func TestDiscover_DeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"z.xml":     "<a/>",
		"m.xml":     "<a/>",
		"sub/a.xml": "<a/>",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"z.xml", ".", "sub", "m.xml"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "m.xml", "sub/a.xml", "z.xml"), files)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{"real/doc.xml": "<a/>"})

	external := t.TempDir()
	makeTree(t, external, map[string]string{"external.xml": "<b/>"})

	if err := os.Symlink(external, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	opts := runner.Options{WorkingDir: dir}

	files, err := runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "real/doc.xml"), files)

	opts.FollowSymlinks = true
	files, err = runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(external, "external.xml"))
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".xml"}, runner.DefaultExtensions())
}

func TestDiscover_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   t.TempDir(),
		ExcludeGlobs: []string{"[unterminated"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob")
}

func TestDiscover_LeadingDoubleStar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, map[string]string{
		"generated/a.xml":     "<a/>",
		"src/generated/b.xml": "<b/>",
		"src/c.xml":           "<c/>",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"**/generated/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "src/c.xml"), files)
}
