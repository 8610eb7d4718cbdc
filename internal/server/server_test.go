package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniMay/junimay.github.io/internal/content"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func post(front, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + front + "---\n" + body)}
}

func newTestServer(t *testing.T, files fstest.MapFS) (*gin.Engine, string) {
	t.Helper()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("home"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "404.html"), []byte("custom 404"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(out, "posts", "hello"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "posts", "hello", "index.html"), []byte("hello page"), 0o644))

	loader := content.NewLoader(files, content.NewRenderer(content.RenderOptions{}), content.LoaderConfig{})
	handler := NewHandler(content.NewIndex(loader), loader, nil)
	return NewServer(handler, out, nil), out
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListPosts(t *testing.T) {
	r, _ := newTestServer(t, fstest.MapFS{
		"posts/old.md": post("title: Old\ndate: 2022-12-31\n", "x"),
		"posts/new.md": post("title: New\ndate: 2023-06-01\ntags: [go]\n", "x"),
	})

	w := get(r, "/api/posts")
	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0]["id"])
	assert.Equal(t, []any{"go"}, got[0]["tags"])
	assert.Equal(t, "old", got[1]["id"])
	assert.NotContains(t, got[0], "html")
}

func TestListPostsMalformed(t *testing.T) {
	r, _ := newTestServer(t, fstest.MapFS{
		"posts/bad.md": post("title: Bad\n", "x"),
	})

	w := get(r, "/api/posts")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "posts/bad.md")
}

func TestGetPost(t *testing.T) {
	r, _ := newTestServer(t, fstest.MapFS{
		"posts/hello.md": post("title: Hello\ndate: 2023-01-01\n", "# Hi\n\nHello **world**."),
	})

	w := get(r, "/api/posts/hello")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Hello", got["title"])
	assert.Contains(t, got["html"], "<strong>world</strong>")
	assert.NotContains(t, got, "Body")

	w = get(r, "/api/posts/nonexistent-slug")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"post not found"}`, w.Body.String())
}

func TestServeSite(t *testing.T) {
	r, _ := newTestServer(t, fstest.MapFS{})

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "home", w.Body.String())
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))

	w = get(r, "/posts/hello/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello page", w.Body.String())

	w = get(r, "/posts/hello")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/posts/hello/", w.Header().Get("Location"))

	w = get(r, "/posts/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "custom 404", w.Body.String())

	w = get(r, "/../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeSiteWithout404Page(t *testing.T) {
	r, out := newTestServer(t, fstest.MapFS{})
	require.NoError(t, os.Remove(filepath.Join(out, "404.html")))

	w := get(r, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "404 page not found", w.Body.String())
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t, fstest.MapFS{})
	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
