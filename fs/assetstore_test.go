package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/water102/siteclone"
	"github.com/water102/siteclone/fs"
)

func TestURLToAssetPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		role siteclone.ResourceRole
		want string
	}{
		{
			name: "preserves directory structure",
			url:  "https://example.com/css/themes/dark.css",
			role: siteclone.RoleStylesheet,
			want: "css/themes/dark.css",
		},
		{
			name: "bare host maps to index",
			url:  "https://example.com",
			role: siteclone.RoleOther,
			want: "index",
		},
		{
			name: "trailing slash maps to index in that directory",
			url:  "https://example.com/blog/",
			role: siteclone.RoleOther,
			want: "blog/index",
		},
		{
			name: "document without extension gets .html",
			url:  "https://example.com/about",
			role: siteclone.RoleDocument,
			want: "about.html",
		},
		{
			name: "document root gets index.html",
			url:  "https://example.com/",
			role: siteclone.RoleDocument,
			want: "index.html",
		},
		{
			name: "dot segments are cleaned",
			url:  "https://example.com/a/../b/app.js",
			role: siteclone.RoleScript,
			want: "b/app.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToAssetPath(tt.url, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("is idempotent for the same URL", func(t *testing.T) {
		t.Parallel()

		first, err := fs.URLToAssetPath("https://example.com/img/logo.png", siteclone.RoleImage)
		require.NoError(t, err)
		second, err := fs.URLToAssetPath("https://example.com/img/logo.png", siteclone.RoleImage)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestAssetStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("writes asset and records the mapping", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		result, err := store.Save("https://example.com/css/main.css", siteclone.RoleStylesheet, []byte("body{}"))
		require.NoError(t, err)

		assert.Equal(t, fs.StatusDownloaded, result.Status)
		assert.Equal(t, filepath.Join("assets", "css", "main.css"), result.RelPath)

		data, err := os.ReadFile(result.LocalPath)
		require.NoError(t, err)
		assert.Equal(t, "body{}", string(data))

		local, ok := store.Resolve("https://example.com/css/main.css")
		require.True(t, ok)
		assert.Equal(t, result.LocalPath, local)
	})

	t.Run("skips existing files but still records the mapping", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		first, err := store.Save("https://example.com/app.js", siteclone.RoleScript, []byte("v1"))
		require.NoError(t, err)
		require.Equal(t, fs.StatusDownloaded, first.Status)

		second, err := store.Save("https://example.com/app.js", siteclone.RoleScript, []byte("v2"))
		require.NoError(t, err)
		assert.Equal(t, fs.StatusSkipped, second.Status)
		assert.Equal(t, "already exists", second.Reason)

		data, err := os.ReadFile(first.LocalPath)
		require.NoError(t, err)
		assert.Equal(t, "v1", string(data), "first write wins")

		_, ok := store.Resolve("https://example.com/app.js")
		assert.True(t, ok)
	})

	t.Run("skips data URLs", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		result, err := store.Save("data:image/png;base64,iVBOR", siteclone.RoleImage, []byte("x"))
		require.NoError(t, err)

		assert.Equal(t, fs.StatusSkipped, result.Status)
		assert.Equal(t, "base64 data URL", result.Reason)
		_, ok := store.Resolve("data:image/png;base64,iVBOR")
		assert.False(t, ok)
	})

	t.Run("skips empty bodies without recording a mapping", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		result, err := store.Save("https://example.com/empty.js", siteclone.RoleScript, nil)
		require.NoError(t, err)

		assert.Equal(t, fs.StatusSkipped, result.Status)
		assert.Equal(t, "empty body", result.Reason)
		_, ok := store.Resolve("https://example.com/empty.js")
		assert.False(t, ok)
	})

	t.Run("mapping returns remote to local pairs", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		_, err := store.Save("https://example.com/a.css", siteclone.RoleStylesheet, []byte("a"))
		require.NoError(t, err)
		_, err = store.Save("https://example.com/b.js", siteclone.RoleScript, []byte("b"))
		require.NoError(t, err)

		mapping := store.Mapping()
		assert.Len(t, mapping, 2)
		assert.Contains(t, mapping, "https://example.com/a.css")
		assert.Contains(t, mapping, "https://example.com/b.js")
	})

	t.Run("annotate attaches a file type to a recorded entry", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		_, err := store.Save("https://example.com/a.css", siteclone.RoleStylesheet, []byte("a"))
		require.NoError(t, err)

		store.Annotate("https://example.com/a.css", "css")
		store.Annotate("https://example.com/unknown.js", "javascript") // no entry: ignored

		recs := store.Records()
		require.Len(t, recs, 1)
		assert.Equal(t, "css", recs[0].FileType)
	})
}

func TestAssetStore_WriteHTML(t *testing.T) {
	t.Parallel()

	t.Run("overwrites an existing document", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		_, _, err := store.WriteHTML("index.html", []byte("<html>old</html>"))
		require.NoError(t, err)

		fullPath, relPath, err := store.WriteHTML("index.html", []byte("<html>new</html>"))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("assets", "index.html"), relPath)
		data, err := os.ReadFile(fullPath)
		require.NoError(t, err)
		assert.Equal(t, "<html>new</html>", string(data))
	})

	t.Run("defaults to index.html", func(t *testing.T) {
		t.Parallel()

		store := fs.NewAssetStore(t.TempDir())
		_, relPath, err := store.WriteHTML("", []byte("<html></html>"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("assets", "index.html"), relPath)
	})
}
