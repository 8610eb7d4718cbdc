package model

import "github.com/JuniMay/junimay.github.io/internal/config"

// SiteData holds the site-wide values every layout can reach.
type SiteData struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
	Links       []config.Link
	HasAbout    bool
	// TagSlugs maps TagKey to the slug the build assigned.
	TagSlugs    map[string]string
}

// NewSiteData copies the presentation settings out of cfg.
func NewSiteData(cfg config.Config) SiteData {
	return SiteData{
		Title:       cfg.SiteTitle,
		Description: cfg.Description,
		Author:      cfg.Author,
		BaseURL:     cfg.BaseURL,
		Links:       append([]config.Link(nil), cfg.Links...),
	}
}

// PageData is the root value handed to every layout.
type PageData struct {
	Site  SiteData
	Title string
	Posts []PostSummary
	Post  *Post
	Page  *Page
	Tag   *Tag
	Tags  []Tag
}
