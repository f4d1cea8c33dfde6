package http_test

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	siteclonehttp "github.com/water102/siteclone/http"
)

func TestServer(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*siteclonehttp.Server, string) {
		t.Helper()

		dir := t.TempDir()
		assetDir := filepath.Join(dir, "assets")
		require.NoError(t, os.MkdirAll(filepath.Join(assetDir, "css"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(assetDir, "index.html"), []byte("<html><body>clone</body></html>"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(assetDir, "css", "main.css"), []byte("body{color:red}"), 0o644))

		srv := siteclonehttp.NewServer(dir)
		srv.Addr = "127.0.0.1:0"
		require.NoError(t, srv.Open())
		t.Cleanup(func() { srv.Close() })
		return srv, dir
	}

	t.Run("serves entry document at root", func(t *testing.T) {
		t.Parallel()

		srv, _ := setup(t)

		resp, err := http.Get(srv.URL() + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>clone</body></html>", string(body))
	})

	t.Run("serves nested assets", func(t *testing.T) {
		t.Parallel()

		srv, _ := setup(t)

		resp, err := http.Get(srv.URL() + "/css/main.css")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "body{color:red}", string(body))
	})

	t.Run("returns 404 for missing files", func(t *testing.T) {
		t.Parallel()

		srv, _ := setup(t)

		resp, err := http.Get(srv.URL() + "/missing.js")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("does not escape the asset tree", func(t *testing.T) {
		t.Parallel()

		srv, dir := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("secret"), 0o644))

		req, err := http.NewRequest(http.MethodGet, srv.URL()+"/", nil)
		require.NoError(t, err)
		req.URL.Path = "/../secret.txt"
		req.URL.RawPath = "/../secret.txt"

		resp, err := http.DefaultTransport.RoundTrip(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.NotEqual(t, "secret", string(body))
	})
}
