package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/JuniMay/junimay.github.io/internal/model"
)

const (
	defaultPostsDir = "posts"
	postExt         = ".md"
)

// LoaderConfig configures where posts live inside the content filesystem.
type LoaderConfig struct {
	// PostsDir is the directory holding one markdown file per post,
	// relative to the filesystem root. Defaults to "posts".
	PostsDir string
	Logger   *slog.Logger
}

// Loader reads posts and pages from a content filesystem. It only keeps
// immutable configuration, so every method is safe for concurrent use.
type Loader struct {
	fs       fs.FS
	postsDir string
	renderer *Renderer
	logger   *slog.Logger
}

// NewLoader constructs a Loader over filesystem. The renderer is used by
// LoadPost and LoadPage.
func NewLoader(filesystem fs.FS, renderer *Renderer, cfg LoaderConfig) *Loader {
	postsDir := strings.Trim(path.Clean("/"+cfg.PostsDir), "/")
	if postsDir == "" {
		postsDir = defaultPostsDir
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		fs:       filesystem,
		postsDir: postsDir,
		renderer: renderer,
		logger:   logger,
	}
}

// IDs enumerates the post identifiers in filename order. A missing posts
// directory is an empty store. Hidden files and names LoadPost would
// reject are skipped.
func (l *Loader) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fs, l.postsDir)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("posts directory not found", "dir", l.postsDir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read posts directory %s: %w", l.postsDir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != postExt {
			continue
		}
		id := strings.TrimSuffix(name, postExt)
		if !validName(id) {
			l.logger.Debug("skipping file with unusable name", "file", name)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListSummaries parses the front-matter of every post. The first malformed
// file fails the whole call; no partial list is returned.
func (l *Loader) ListSummaries(ctx context.Context) ([]model.PostSummary, error) {
	ids, err := l.IDs(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.PostSummary, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fm, _, err := l.readPost(id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.PostSummary{
			ID:    id,
			Title: fm.Title,
			Date:  fm.Date,
			Tags:  fm.Tags,
		})
	}

	l.logger.Debug("listed posts", "count", len(summaries))
	return summaries, nil
}

// LoadPost reads a single post and renders its body.
func (l *Loader) LoadPost(ctx context.Context, id string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fm, body, err := l.readPost(id)
	if err != nil {
		return nil, err
	}

	html, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", id, err)
	}

	return &model.Post{
		PostSummary: model.PostSummary{
			ID:    id,
			Title: fm.Title,
			Date:  fm.Date,
			Tags:  fm.Tags,
		},
		Body: body,
		HTML: html,
	}, nil
}

// LoadPage reads a standalone page such as "about" from the content root.
// Pages need a title; the date is optional.
func (l *Loader) LoadPage(ctx context.Context, name string) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validName(name) {
		return nil, fmt.Errorf("page %q: %w", name, ErrNotFound)
	}

	file := name + postExt
	data, err := l.read(file)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", name, err)
	}

	fm, body, err := parseFrontMatter(file, data, false)
	if err != nil {
		return nil, err
	}

	html, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", name, err)
	}
	return &model.Page{Name: name, Title: fm.Title, HTML: html}, nil
}

func (l *Loader) readPost(id string) (frontMatter, []byte, error) {
	if !validName(id) {
		return frontMatter{}, nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	file := path.Join(l.postsDir, id+postExt)
	data, err := l.read(file)
	if err != nil {
		return frontMatter{}, nil, fmt.Errorf("post %q: %w", id, err)
	}
	return parseFrontMatter(file, data, true)
}

func (l *Loader) read(file string) ([]byte, error) {
	data, err := fs.ReadFile(l.fs, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

// validName rejects identifiers that could escape the posts directory or
// name a hidden file.
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return fs.ValidPath(name)
}
