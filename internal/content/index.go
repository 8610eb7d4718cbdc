package content

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JuniMay/junimay.github.io/internal/model"
)

// SummaryLister is the part of the Loader the Index needs.
type SummaryLister interface {
	ListSummaries(ctx context.Context) ([]model.PostSummary, error)
}

// Index orders posts for listings. It re-reads the source on every call.
type Index struct {
	source SummaryLister
}

func NewIndex(source SummaryLister) *Index {
	return &Index{source: source}
}

// SortedSummaries returns every post, newest first, ties broken by
// identifier ascending.
func (i *Index) SortedSummaries(ctx context.Context) ([]model.PostSummary, error) {
	summaries, err := i.source.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	SortSummaries(summaries)
	return summaries, nil
}

// SortSummaries orders s in place by date descending then ID ascending.
func SortSummaries(s []model.PostSummary) {
	slices.SortStableFunc(s, func(a, b model.PostSummary) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Tags groups the sorted posts by tag. Tags come back ordered by slug and
// each tag's posts keep the index order.
func (i *Index) Tags(ctx context.Context) ([]model.Tag, error) {
	summaries, err := i.SortedSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return GroupTags(summaries), nil
}

// GroupTags builds tag groups from already sorted summaries. Tags are
// merged by model.TagKey. Tags whose preferred slug collides get a numeric
// suffix, assigned in key order so the result does not depend on post dates.
func GroupTags(summaries []model.PostSummary) []model.Tag {
	caser := cases.Title(language.English)
	byKey := map[string]*model.Tag{}

	for _, s := range summaries {
		seen := map[string]bool{}
		for _, name := range s.Tags {
			key := model.TagKey(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true

			tag, ok := byKey[key]
			if !ok {
				tag = &model.Tag{Name: name, Label: tagLabel(caser, name)}
				byKey[key] = tag
			}
			tag.Posts = append(tag.Posts, s)
		}
	}

	keys := slices.Sorted(maps.Keys(byKey))
	used := make(map[string]bool, len(keys))
	tags := make([]model.Tag, 0, len(keys))
	for _, key := range keys {
		tag := byKey[key]
		base := model.TagSlug(tag.Name)
		tag.Slug = base
		for n := 2; used[tag.Slug]; n++ {
			tag.Slug = fmt.Sprintf("%s-%d", base, n)
		}
		used[tag.Slug] = true
		tags = append(tags, *tag)
	}
	slices.SortFunc(tags, func(a, b model.Tag) int {
		return strings.Compare(a.Slug, b.Slug)
	})
	return tags
}

// TagSlugs maps each tag's key to its assigned slug.
func TagSlugs(tags []model.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[model.TagKey(tag.Name)] = tag.Slug
	}
	return m
}

// tagLabel title-cases all lowercase tags and leaves deliberate casing
// such as "LLVM" or "iOS" alone.
func tagLabel(caser cases.Caser, name string) string {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return name
		}
	}
	return caser.String(name)
}
