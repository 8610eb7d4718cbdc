package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// dateLayouts lists the accepted spellings of the front-matter date field.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// rawFrontMatter keeps each field as a node so decode errors can be
// attributed to the field that caused them.
type rawFrontMatter struct {
	Title yaml.Node `yaml:"title"`
	Date  yaml.Node `yaml:"date"`
	Tags  yaml.Node `yaml:"tags"`
}

type frontMatter struct {
	Title string
	Date  time.Time
	Tags  []string
}

// parseFrontMatter splits src into metadata and markdown body. file is only
// used in error messages. Pages pass requireDate=false.
func parseFrontMatter(file string, src []byte, requireDate bool) (frontMatter, []byte, error) {
	var raw rawFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &raw, yamlFormat)
	if err != nil {
		return frontMatter{}, nil, malformed(file, "", fmt.Errorf("parse front-matter: %w", err))
	}

	var (
		fm      frontMatter
		rawDate string
	)
	if err := decodeNode(&raw.Title, &fm.Title); err != nil {
		return frontMatter{}, nil, malformed(file, "title", err)
	}
	if err := decodeNode(&raw.Date, &rawDate); err != nil {
		return frontMatter{}, nil, malformed(file, "date", err)
	}
	if err := decodeNode(&raw.Tags, &fm.Tags); err != nil {
		return frontMatter{}, nil, malformed(file, "tags", err)
	}

	fm.Title = strings.TrimSpace(fm.Title)
	rawDate = strings.TrimSpace(rawDate)

	if err := validation.Validate(fm.Title, validation.Required); err != nil {
		return frontMatter{}, nil, malformed(file, "title", err)
	}

	dateRules := []validation.Rule{validation.By(func(any) error {
		if rawDate == "" {
			return nil
		}
		parsed, err := parseDate(rawDate)
		fm.Date = parsed
		return err
	})}
	if requireDate {
		dateRules = append([]validation.Rule{validation.Required}, dateRules...)
	}
	if err := validation.Validate(rawDate, dateRules...); err != nil {
		return frontMatter{}, nil, malformed(file, "date", err)
	}

	fm.Tags = cleanTags(fm.Tags)
	return fm, body, nil
}

func decodeNode(node *yaml.Node, out any) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	return node.Decode(out)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("expected YYYY-MM-DD or RFC3339")
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
