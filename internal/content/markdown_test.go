package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadingIDs(t *testing.T) {
	html, err := NewRenderer(RenderOptions{HeadingIDs: true}).Render([]byte("# Hi\n\nHello **world**."))
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h1 id="hi">Hi</h1>`)
	assert.Contains(t, string(html), "<strong>world</strong>")
}

func TestRenderHardWraps(t *testing.T) {
	html, err := NewRenderer(RenderOptions{HardWraps: true}).Render([]byte("one\ntwo"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<br")

	html, err = NewRenderer(RenderOptions{}).Render([]byte("one\ntwo"))
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<br")
}

func TestRenderBodyIsInert(t *testing.T) {
	src := "<script>alert(1)</script>\n\n" +
		"{{ .Site.Title }}\n\n" +
		"[click](javascript:alert(1))\n\n" +
		"<img src=x onerror=alert(1)>\n"

	html, err := NewRenderer(RenderOptions{}).Render([]byte(src))
	require.NoError(t, err)

	out := string(html)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "{{ .Site.Title }}")
}

func TestRenderGFM(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n"

	html, err := NewRenderer(RenderOptions{}).Render([]byte(src))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<del>gone</del>")
	assert.Contains(t, out, `type="checkbox"`)
}
