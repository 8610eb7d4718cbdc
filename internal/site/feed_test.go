package site

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniMay/junimay.github.io/internal/model"
)

func TestWriteFeedControlCharacters(t *testing.T) {
	site := model.SiteData{Title: "A\x01B", Description: "tabs\tand <tags>", BaseURL: "https://example.com"}
	items := []feedItem{{
		PostSummary: model.PostSummary{
			ID:    "x",
			Title: "Bell\x07 & \"quotes\"",
			Date:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Tags:  []string{"a\x1fb"},
		},
		HTML: "<p>ok\x0b</p>",
	}}

	feed, err := gofeed.NewParser().ParseString(string(writeFeed(site, items)))
	require.NoError(t, err)

	assert.Equal(t, "A\uFFFDB", feed.Title)
	require.Len(t, feed.Items, 1)
	assert.Contains(t, feed.Items[0].Title, "Bell")
	assert.NotContains(t, feed.Items[0].Title, "\x07")
	assert.Equal(t, "https://example.com/posts/x/", feed.Items[0].Link)
}

func TestWriteFeedEmpty(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(string(writeFeed(model.SiteData{Title: "Blog"}, nil)))
	require.NoError(t, err)
	assert.Equal(t, "Blog", feed.Title)
	assert.Empty(t, feed.Items)
}
