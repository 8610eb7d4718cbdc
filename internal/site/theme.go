package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/JuniMay/junimay.github.io/internal/model"
)

// Layout names. Each is parsed on top of base.html and the partials.
const (
	LayoutHome     = "home.html"
	LayoutPost     = "post.html"
	LayoutPage     = "page.html"
	LayoutTag      = "tag.html"
	LayoutTags     = "tags.html"
	LayoutNotFound = "404.html"
)

const baseLayout = "base.html"

var pageLayouts = []string{LayoutHome, LayoutPost, LayoutPage, LayoutTag, LayoutTags, LayoutNotFound}

//go:embed layouts
var embeddedLayouts embed.FS

// Theme holds one parsed template set per page layout.
type Theme struct {
	pages map[string]*template.Template
}

// LoadTheme parses the embedded layouts. Files under layoutsDir with the
// same relative path replace the embedded ones; extra partials are added.
func LoadTheme(layoutsDir string) (*Theme, error) {
	fsys, err := layoutFS(layoutsDir)
	if err != nil {
		return nil, err
	}

	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("find partials: %w", err)
	}

	base, err := template.New(baseLayout).ParseFS(fsys, append([]string{baseLayout}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("parse base layout and partials: %w", err)
	}

	theme := &Theme{pages: make(map[string]*template.Template, len(pageLayouts))}
	for _, name := range pageLayouts {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base layout for %s: %w", name, err)
		}
		if set, err = set.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", name, err)
		}
		theme.pages[name] = set
	}
	return theme, nil
}

// Render executes layout with data. Output is buffered so a failing
// template never produces a partial page.
func (t *Theme) Render(w io.Writer, layout string, data model.PageData) error {
	set, ok := t.pages[layout]
	if !ok {
		return fmt.Errorf("layout %q not found", layout)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("execute layout %s: %w", layout, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func layoutFS(dir string) (fs.FS, error) {
	lower, err := fs.Sub(embeddedLayouts, "layouts")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return lower, nil
	}
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return lower, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat layouts directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("layouts path %s is not a directory", dir)
	}
	return overlayFS{upper: os.DirFS(dir), lower: lower}, nil
}

// overlayFS resolves names in upper first and falls back to lower.
// Directory listings are the union of both.
type overlayFS struct {
	upper fs.FS
	lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.lower.Open(name)
}

func (o overlayFS) ReadDir(name string) ([]fs.DirEntry, error) {
	upper, upperErr := fs.ReadDir(o.upper, name)
	lower, lowerErr := fs.ReadDir(o.lower, name)
	if upperErr != nil && lowerErr != nil {
		return nil, upperErr
	}

	seen := make(map[string]bool, len(upper))
	entries := append([]fs.DirEntry(nil), upper...)
	for _, e := range upper {
		seen[e.Name()] = true
	}
	for _, e := range lower {
		if !seen[e.Name()] {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		}
		return 0
	})
	return entries, nil
}
