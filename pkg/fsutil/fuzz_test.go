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

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("<a/>"))
	f.Add([]byte("<?xml version=\"1.0\"?>\n<root>\n  <item id=\"1\"/>\n</root>\n"))
	f.Add([]byte("\xef\xbb\xbf<a>\r\n</a>"))
	f.Add([]byte("\x00\x01\x02\x03"))

	f.Fuzz(func(t *testing.T, content []byte) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "doc.xml")

		require.NoError(t, fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode))

		got, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, len(content), len(got))
		assert.Equal(t, string(content), string(got))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})
}

func FuzzBackupRestore(f *testing.F) {
	f.Add([]byte("<a/>"), []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<a/>\n"))
	f.Add([]byte(""), []byte("<b/>"))

	f.Fuzz(func(t *testing.T, original, replacement []byte) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "doc.xml")
		require.NoError(t, os.WriteFile(path, original, 0o644))

		created, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true})
		require.NoError(t, err)
		require.True(t, created)

		require.NoError(t, fsutil.WriteAtomic(ctx, path, replacement, fsutil.DefaultFileMode))

		restored, err := fsutil.RestoreBackup(ctx, path)
		require.NoError(t, err)
		require.True(t, restored)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, string(original), string(got))
	})
}
