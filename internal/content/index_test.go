package content

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniMay/junimay.github.io/internal/model"
)

type staticLister struct {
	summaries []model.PostSummary
	err       error
}

func (s staticLister) ListSummaries(context.Context) ([]model.PostSummary, error) {
	return append([]model.PostSummary(nil), s.summaries...), s.err
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ids(summaries []model.PostSummary) []string {
	out := make([]string, len(summaries))
	for i, s := range summaries {
		out[i] = s.ID
	}
	return out
}

func TestSortedSummariesByDate(t *testing.T) {
	loader := newTestLoader(fstest.MapFS{
		"posts/new-year.md": post("title: New Year\ndate: 2023-01-01\n", ""),
		"posts/summer.md":   post("title: Summer\ndate: 2023-06-01\n", ""),
		"posts/year-end.md": post("title: Year End\ndate: 2022-12-31\n", ""),
	})

	summaries, err := NewIndex(loader).SortedSummaries(context.Background())
	require.NoError(t, err)

	var dates []string
	for _, s := range summaries {
		dates = append(dates, s.DateString())
	}
	assert.Equal(t, []string{"2023-06-01", "2023-01-01", "2022-12-31"}, dates)
}

func TestSortedSummariesTieBreak(t *testing.T) {
	index := NewIndex(staticLister{summaries: []model.PostSummary{
		{ID: "zeta", Date: day("2023-01-01")},
		{ID: "alpha", Date: day("2023-01-01")},
		{ID: "newest", Date: day("2024-01-01")},
		{ID: "mid", Date: day("2023-01-01")},
	}})

	first, err := index.SortedSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "alpha", "mid", "zeta"}, ids(first))

	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].Date.After(first[i-1].Date))
	}

	second, err := index.SortedSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSortedSummariesPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewIndex(staticLister{err: boom}).SortedSummaries(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSortedSummariesMissingDate(t *testing.T) {
	loader := newTestLoader(fstest.MapFS{
		"posts/ok.md":      post("title: OK\ndate: 2023-01-01\n", ""),
		"posts/undated.md": post("title: Undated\n", ""),
	})

	_, err := NewIndex(loader).SortedSummaries(context.Background())
	assert.ErrorIs(t, err, ErrMalformedContent)
}

func TestTags(t *testing.T) {
	index := NewIndex(staticLister{summaries: []model.PostSummary{
		{ID: "old", Date: day("2022-01-01"), Tags: []string{"go", "LLVM"}},
		{ID: "new", Date: day("2023-01-01"), Tags: []string{"Go Lang", "go"}},
		{ID: "dup", Date: day("2022-06-01"), Tags: []string{"go", "go"}},
	}})

	tags, err := index.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, "go", tags[0].Slug)
	assert.Equal(t, "Go", tags[0].Label)
	assert.Equal(t, []string{"new", "dup", "old"}, ids(tags[0].Posts))
	assert.Equal(t, "/tags/go/", tags[0].Permalink())

	assert.Equal(t, "go-lang", tags[1].Slug)
	assert.Equal(t, "Go Lang", tags[1].Label)
	assert.Equal(t, []string{"new"}, ids(tags[1].Posts))

	assert.Equal(t, "llvm", tags[2].Slug)
	assert.Equal(t, "LLVM", tags[2].Label)
}

func TestTagsWithCollidingSlugs(t *testing.T) {
	tags := GroupTags([]model.PostSummary{
		{ID: "cpp", Date: day("2023-01-01"), Tags: []string{"C++"}},
		{ID: "csharp", Date: day("2022-01-01"), Tags: []string{"C#"}},
		{ID: "both", Date: day("2021-01-01"), Tags: []string{"c#", "C++"}},
	})
	require.Len(t, tags, 2)

	assert.Equal(t, "c", tags[0].Slug)
	assert.Equal(t, "C#", tags[0].Name)
	assert.Equal(t, []string{"csharp", "both"}, ids(tags[0].Posts))

	assert.Equal(t, "c-2", tags[1].Slug)
	assert.Equal(t, "C++", tags[1].Name)
	assert.Equal(t, []string{"cpp", "both"}, ids(tags[1].Posts))

	assert.Equal(t, map[string]string{"c#": "c", "c++": "c-2"}, TagSlugs(tags))
}

func TestTagsWithoutLetters(t *testing.T) {
	tags := GroupTags([]model.PostSummary{
		{ID: "a", Date: day("2023-01-01"), Tags: []string{".."}},
		{ID: "b", Date: day("2022-01-01"), Tags: []string{"."}},
	})
	require.Len(t, tags, 2)

	for _, tag := range tags {
		assert.NotContains(t, []string{"", ".", ".."}, tag.Slug)
		assert.NotContains(t, tag.Slug, "/")
	}
	assert.NotEqual(t, tags[0].Slug, tags[1].Slug)
}
