package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/stitchsync/internal/domain"
)

// testEnv writes a config pointing at a fake Stitch API and returns its path
func testEnv(t *testing.T, listing string) (configPath, outDir string) {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/h.html" {
			io.WriteString(w, "<html>OK</html>")
			return
		}
		io.WriteString(w, strings.ReplaceAll(listing, "{{base}}", srv.URL))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	outDir = filepath.Join(dir, "docs", "stitch_ui")
	configPath = filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
api:
  base_url: %s
  key: test-key
  project_id: p1
output:
  dir: %s
manifest:
  path: %s
logging:
  file: %s
`, srv.URL, outDir, filepath.Join(dir, "manifest.db"), filepath.Join(dir, "stitchsync.log"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath, outDir
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &stdout, &stderr))
	assert.Equal(t, "stitchsync dev\n", stdout.String())
}

func TestRunSyncThenStatus(t *testing.T) {
	configPath, outDir := testEnv(t, `{"screens":[
		{"id":"s1","title":"Home","htmlCode":{"downloadUrl":"{{base}}/h.html"}},
		{"id":"s2"}
	]}`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath}, &stdout, &stderr))

	assert.Equal(t, "Downloading Home (s1)...\nDownloading s2 (s2)...\nNo htmlCode found.\n", stdout.String())
	data, err := os.ReadFile(filepath.Join(outDir, "Home.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>OK</html>", string(data))

	stdout.Reset()
	require.NoError(t, run([]string{"-config", configPath, "status"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "1 written")
	assert.Contains(t, stdout.String(), filepath.Join(outDir, "Home.html"))
}

func TestRunSyncOutFlag(t *testing.T) {
	configPath, _ := testEnv(t, `{"screens":[{"id":"s1","title":"Home","htmlCode":{"downloadUrl":"{{base}}/h.html"}}]}`)
	other := filepath.Join(t.TempDir(), "elsewhere")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath, "sync", "-out", other}, &stdout, &stderr))
	assert.FileExists(t, filepath.Join(other, "Home.html"))
}

func TestRunList(t *testing.T) {
	configPath, outDir := testEnv(t, `{"screens":[
		{"id":"s1","title":"Home","htmlCode":{"downloadUrl":"{{base}}/h.html"}},
		{"id":"s2","title":"Checkout"}
	]}`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath, "list"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Home  s1")
	assert.Contains(t, stdout.String(), "Checkout  s2")
	assert.NoDirExists(t, outDir, "list never downloads")

	stdout.Reset()
	require.NoError(t, run([]string{"-config", configPath, "list", "-match", "chk"}, &stdout, &stderr))
	assert.Equal(t, "- Checkout  s2\n", stdout.String())
}

func TestRunStatusWithoutRuns(t *testing.T) {
	configPath, _ := testEnv(t, `{}`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath, "status"}, &stdout, &stderr))
	assert.Equal(t, "No runs recorded for project p1.\n", stdout.String())
}

func TestRunStatusAll(t *testing.T) {
	configPath, _ := testEnv(t, `{"screens":[{"id":"s1","title":"Home","htmlCode":{"downloadUrl":"{{base}}/h.html"}}]}`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath, "status", "-all"}, &stdout, &stderr))
	assert.Equal(t, "No runs recorded for project p1.\n", stdout.String())

	require.NoError(t, run([]string{"-config", configPath}, &stdout, &stderr))
	require.NoError(t, run([]string{"-config", configPath}, &stdout, &stderr))

	stdout.Reset()
	require.NoError(t, run([]string{"-config", configPath, "status", "-all"}, &stdout, &stderr))
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "1/1 written")
	}
}

func TestRunErrors(t *testing.T) {
	t.Run("unknown command", func(t *testing.T) {
		configPath, _ := testEnv(t, `{}`)
		var stdout, stderr bytes.Buffer
		err := run([]string{"-config", configPath, "frobnicate"}, &stdout, &stderr)
		assert.ErrorContains(t, err, "unknown command")
	})

	t.Run("not configured", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  file: "+filepath.Join(t.TempDir(), "x.log")+"\n"), 0644))
		var stdout, stderr bytes.Buffer
		err := run([]string{"-config", path, "sync"}, &stdout, &stderr)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("invalid listing", func(t *testing.T) {
		configPath, _ := testEnv(t, `not json`)
		var stdout, stderr bytes.Buffer
		err := run([]string{"-config", configPath}, &stdout, &stderr)
		assert.ErrorIs(t, err, domain.ErrInvalidListing)
		assert.Empty(t, stdout.String())
	})
}
