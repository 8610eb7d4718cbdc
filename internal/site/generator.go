package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JuniMay/junimay.github.io/internal/content"
	"github.com/JuniMay/junimay.github.io/internal/model"
)

const aboutPage = "about"

// PostSource is the data-access surface the generator reads posts through.
type PostSource interface {
	IDs(ctx context.Context) ([]string, error)
	LoadPost(ctx context.Context, id string) (*model.Post, error)
	LoadPage(ctx context.Context, name string) (*model.Page, error)
}

// SummaryIndex provides the listing order.
type SummaryIndex interface {
	SortedSummaries(ctx context.Context) ([]model.PostSummary, error)
}

// Options controls where and how the site is written.
type Options struct {
	OutputDir string
	StaticDir string
	Workers   int
	FeedLimit int
	Site      model.SiteData
}

// Report summarizes a finished build.
type Report struct {
	Posts       int
	Tags        int
	StaticFiles int
	About       bool
	Duration    time.Duration
}

// Generator writes the static site in two phases: post identifiers are
// enumerated first, then each post is loaded, rendered and written.
type Generator struct {
	posts  PostSource
	index  SummaryIndex
	theme  *Theme
	opts   Options
	logger *slog.Logger
}

func NewGenerator(posts PostSource, index SummaryIndex, theme *Theme, opts Options, logger *slog.Logger) *Generator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{posts: posts, index: index, theme: theme, opts: opts, logger: logger}
}

// Build regenerates the output directory. The site is written into a
// staging directory next to the output and swapped in only when every page
// succeeded, so a failed build leaves the previous site alone.
func (g *Generator) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	summaries, err := g.index.SortedSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	site := g.opts.Site
	about, err := g.posts.LoadPage(ctx, aboutPage)
	switch {
	case errors.Is(err, content.ErrNotFound):
		g.logger.Warn("about page not found, skipping", "page", aboutPage)
	case err != nil:
		return nil, fmt.Errorf("load about page: %w", err)
	default:
		site.HasAbout = true
		report.About = true
	}

	tags := content.GroupTags(summaries)
	report.Tags = len(tags)
	site.TagSlugs = content.TagSlugs(tags)

	stage, err := g.stageOutput()
	if err != nil {
		return nil, err
	}
	published := false
	defer func() {
		if !published {
			if err := os.RemoveAll(stage); err != nil {
				g.logger.Warn("remove staging directory", "dir", stage, "error", err)
			}
		}
	}()

	if report.StaticFiles, err = copyStatic(g.opts.StaticDir, stage); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	g.logger.Debug("static assets copied", "files", report.StaticFiles, "from", g.opts.StaticDir)

	feed := g.feedSummaries(summaries)
	rendered, err := g.renderPosts(ctx, stage, site, feed)
	if err != nil {
		return nil, err
	}
	report.Posts = rendered.count

	if err := g.writePage(stage, ".", LayoutHome, model.PageData{Site: site, Posts: summaries}); err != nil {
		return nil, err
	}

	if err := g.writePage(stage, "tags", LayoutTags, model.PageData{Site: site, Title: "Tags", Tags: tags}); err != nil {
		return nil, err
	}
	for i := range tags {
		tag := &tags[i]
		data := model.PageData{Site: site, Title: tag.Label, Tag: tag, Posts: tag.Posts}
		if err := g.writePage(stage, filepath.Join("tags", tag.Slug), LayoutTag, data); err != nil {
			return nil, err
		}
	}

	if about != nil {
		if err := g.writePage(stage, aboutPage, LayoutPage, model.PageData{Site: site, Title: about.Title, Page: about}); err != nil {
			return nil, err
		}
	}

	if err := g.writeFile(stage, "404.html", LayoutNotFound, model.PageData{Site: site, Title: "Not found"}); err != nil {
		return nil, err
	}

	if err := g.writeFeed(ctx, stage, site, feed, rendered.html); err != nil {
		return nil, err
	}

	if err := g.publish(stage); err != nil {
		return nil, err
	}
	published = true

	report.Duration = time.Since(start)
	g.logger.Info("site built",
		"posts", report.Posts,
		"tags", report.Tags,
		"static_files", report.StaticFiles,
		"output", g.opts.OutputDir,
		"duration", report.Duration)
	return report, nil
}

// renderedPosts is the result of phase two. html only holds the posts the
// feed needs; every other body is dropped once its page is written.
type renderedPosts struct {
	count int
	html  map[string]template.HTML
}

// renderPosts is phase two: every enumerated post is loaded and written by
// a bounded pool of workers. The first failure cancels the rest.
func (g *Generator) renderPosts(ctx context.Context, root string, site model.SiteData, feed []model.PostSummary) (renderedPosts, error) {
	ids, err := g.posts.IDs(ctx)
	if err != nil {
		return renderedPosts{}, fmt.Errorf("enumerate posts: %w", err)
	}

	keep := make(map[string]bool, len(feed))
	for _, s := range feed {
		keep[s.ID] = true
	}

	var mu sync.Mutex
	html := make(map[string]template.HTML, len(feed))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for _, id := range ids {
		eg.Go(func() error {
			post, err := g.posts.LoadPost(egCtx, id)
			if err != nil {
				return fmt.Errorf("load post %s: %w", id, err)
			}
			data := model.PageData{Site: site, Title: post.Title, Post: post}
			if err := g.writePage(root, filepath.Join("posts", id), LayoutPost, data); err != nil {
				return err
			}
			if keep[id] {
				mu.Lock()
				html[id] = post.HTML
				mu.Unlock()
			}
			g.logger.Debug("post written", "id", id)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return renderedPosts{}, err
	}
	return renderedPosts{count: len(ids), html: html}, nil
}

// feedSummaries returns the newest posts that go into the feed.
func (g *Generator) feedSummaries(summaries []model.PostSummary) []model.PostSummary {
	limit := g.opts.FeedLimit
	if limit <= 0 || limit > len(summaries) {
		limit = len(summaries)
	}
	return summaries[:limit]
}

func (g *Generator) writeFeed(ctx context.Context, root string, site model.SiteData, feed []model.PostSummary, rendered map[string]template.HTML) error {
	items := make([]feedItem, 0, len(feed))
	for _, s := range feed {
		html, ok := rendered[s.ID]
		if !ok {
			// the file appeared between listing and enumeration
			post, err := g.posts.LoadPost(ctx, s.ID)
			if err != nil {
				return fmt.Errorf("load post %s for feed: %w", s.ID, err)
			}
			html = post.HTML
		}
		items = append(items, feedItem{PostSummary: s, HTML: string(html)})
	}

	path := filepath.Join(root, "index.xml")
	if err := os.WriteFile(path, writeFeed(site, items), 0o644); err != nil {
		return fmt.Errorf("write feed %s: %w", path, err)
	}
	return nil
}

// stageOutput creates an empty staging directory beside the output
// directory. Both must live on the same filesystem for publish to rename.
func (g *Generator) stageOutput() (string, error) {
	dir := filepath.Clean(g.opts.OutputDir)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory %s: %w", dir, err)
	}
	if dir == "." || abs == filepath.Dir(abs) {
		return "", fmt.Errorf("refusing to clean output directory %q", g.opts.OutputDir)
	}

	parent := filepath.Dir(abs)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("create parent of output directory %s: %w", parent, err)
	}
	stage, err := os.MkdirTemp(parent, "."+filepath.Base(abs)+"-build-*")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	if err := os.Chmod(stage, 0o755); err != nil {
		os.RemoveAll(stage)
		return "", fmt.Errorf("chmod staging directory %s: %w", stage, err)
	}
	return stage, nil
}

// publish replaces the output directory with stage.
func (g *Generator) publish(stage string) error {
	dir := filepath.Clean(g.opts.OutputDir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove output directory %s: %w", dir, err)
	}
	if err := os.Rename(stage, dir); err != nil {
		return fmt.Errorf("move %s to %s: %w", stage, dir, err)
	}
	return nil
}

// writePage renders layout into <root>/<dir>/index.html.
func (g *Generator) writePage(root, dir, layout string, data model.PageData) error {
	return g.writeFile(root, filepath.Join(dir, "index.html"), layout, data)
}

func (g *Generator) writeFile(root, rel, layout string, data model.PageData) error {
	var buf bytes.Buffer
	if err := g.theme.Render(&buf, layout, data); err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}

	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
