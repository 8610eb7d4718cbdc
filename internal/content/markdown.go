package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// RenderOptions tunes the markdown engine.
type RenderOptions struct {
	HardWraps  bool
	HeadingIDs bool
}

// converter is the subset of goldmark.Markdown the renderer depends on.
type converter interface {
	Convert(source []byte, w io.Writer, opts ...parser.ParseOption) error
}

// Renderer turns a markdown body into sanitized HTML. A Renderer holds no
// per-call state and may be shared between goroutines.
type Renderer struct {
	md     converter
	policy *bluemonday.Policy
}

// NewRenderer builds a goldmark engine with the GFM extensions. Raw HTML in
// the source is never passed through.
func NewRenderer(opts RenderOptions) *Renderer {
	var parserOptions []parser.Option
	if opts.HeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md, policy: newPolicy()}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}

// Render converts source to HTML. The same source always yields the same
// bytes. Template directives and script tags in source stay inert.
func (r *Renderer) Render(source []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}
