package model

import (
	"html/template"
	"time"
)

// PostSummary is the listing view of a post. It never carries the body so
// listings do not pay for rendering.
type PostSummary struct {
	ID    string    `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Date  time.Time `json:"date" yaml:"date"`
	Tags  []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Post is a single markdown post. HTML is filled in by the loader and lives
// only as long as the page generation that asked for it.
type Post struct {
	PostSummary
	Body []byte        `json:"-" yaml:"-"`
	HTML template.HTML `json:"html" yaml:"-"`
}

// Page is a standalone markdown page such as the about page.
type Page struct {
	Name  string
	Title string
	HTML  template.HTML
}

// Tag groups the posts sharing one tag. Slug is unique within a build.
type Tag struct {
	Name  string
	Label string
	Slug  string
	Posts []PostSummary
}

// Permalink returns the site-relative URL of a post.
func (s PostSummary) Permalink() string {
	return "/posts/" + s.ID + "/"
}

// DateString is the display form used by the layouts and the list command.
func (s PostSummary) DateString() string {
	return s.Date.Format("2006-01-02")
}

// Permalink returns the site-relative URL of a tag page.
func (t Tag) Permalink() string {
	return "/tags/" + t.Slug + "/"
}
