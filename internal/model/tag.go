package model

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// fallbackTagSlug names tags that have no letters or digits at all.
const fallbackTagSlug = "tag"

// TagKey identifies a tag regardless of case and spacing, so "Go" and
// "go" land on the same page while "C++" and "C#" stay apart.
func TagKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// TagSlug is the preferred URL segment for a tag. It never contains a
// path separator and never starts with a dot. Distinct tags may share a
// slug; GroupTags disambiguates them.
func TagSlug(name string) string {
	if normalized, err := slug.Normalize(name); err == nil && safeSegment(normalized) {
		return normalized
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	if s := strings.TrimSuffix(b.String(), "-"); s != "" {
		return s
	}
	return fallbackTagSlug
}

func safeSegment(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.ContainsAny(s, `/\`)
}

// TagLink is a tag as rendered in a post's tag list.
type TagLink struct {
	Name string
	URL  string
}

// TagURL returns the tag page of name. Slugs assigned by the build win
// over the preferred slug.
func (s SiteData) TagURL(name string) string {
	if assigned, ok := s.TagSlugs[TagKey(name)]; ok {
		return "/tags/" + assigned + "/"
	}
	return "/tags/" + TagSlug(name) + "/"
}

// TagLinks resolves the tag list of one post for the layouts.
func (s SiteData) TagLinks(names []string) []TagLink {
	links := make([]TagLink, 0, len(names))
	for _, name := range names {
		links = append(links, TagLink{Name: name, URL: s.TagURL(name)})
	}
	return links
}
