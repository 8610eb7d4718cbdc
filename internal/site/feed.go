package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/JuniMay/junimay.github.io/internal/model"
)

// feedItem is a post as it appears in the RSS feed.
type feedItem struct {
	model.PostSummary
	HTML string
}

// writeFeed renders an RSS 2.0 document. lastBuildDate is the newest post
// date so unchanged content produces an identical feed.
func writeFeed(site model.SiteData, items []feedItem) []byte {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	link := absURL(site.BaseURL, "/")
	writeElement(&buf, "title", site.Title, 4)
	writeElement(&buf, "link", link, 4)
	writeElement(&buf, "description", site.Description, 4)
	fmt.Fprintf(&buf, "    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		escape(absURL(site.BaseURL, "/index.xml")))
	if len(items) > 0 {
		writeElement(&buf, "lastBuildDate", items[0].Date.Format(time.RFC1123Z), 4)
	}

	for _, item := range items {
		itemLink := absURL(site.BaseURL, item.Permalink())
		buf.WriteString("    <item>\n")
		writeElement(&buf, "title", item.Title, 6)
		writeElement(&buf, "link", itemLink, 6)
		fmt.Fprintf(&buf, "      <guid isPermaLink=\"true\">%s</guid>\n", escape(itemLink))
		writeElement(&buf, "pubDate", item.Date.Format(time.RFC1123Z), 6)
		for _, tag := range item.Tags {
			writeElement(&buf, "category", tag, 6)
		}
		writeElement(&buf, "description", item.HTML, 6)
		buf.WriteString("    </item>\n")
	}

	buf.WriteString("  </channel>\n</rss>\n")
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, name, value string, indent int) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, "%s<%s>%s</%s>\n", strings.Repeat(" ", indent), name, escape(value), name)
}

// escape makes value safe for XML text and attributes. Characters XML
// does not allow are replaced with U+FFFD.
func escape(value string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}

func absURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
