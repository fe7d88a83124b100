package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emredjan/xml-validation/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.xml")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("<a/>\n"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<a/>\n", string(got))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.xml")
		writeFile(t, path, "<old/>")

		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("<new/>"), 0o600))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<new/>", string(got))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, fsutil.WriteAtomic(ctx, filepath.Join(dir, "out.xml"), []byte("<a/>"), 0))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "out.xml")
		require.Error(t, fsutil.WriteAtomic(ctx, path, []byte("<a/>"), 0))
		assert.NoFileExists(t, path)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		path := filepath.Join(t.TempDir(), "out.xml")
		require.ErrorIs(t, fsutil.WriteAtomic(cancelled, path, []byte("<a/>"), 0), context.Canceled)
		assert.NoFileExists(t, path)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.xml")
		written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("<a/>"), 0)
		require.NoError(t, err)
		assert.True(t, written)
	})

	t.Run("skips identical content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.xml")
		writeFile(t, path, "<a/>")

		written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("<a/>"), 0)
		require.NoError(t, err)
		assert.False(t, written)
	})

	t.Run("writes changed content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.xml")
		writeFile(t, path, "<a/>")

		written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("<b/>"), 0)
		require.NoError(t, err)
		assert.True(t, written)
	})
}
