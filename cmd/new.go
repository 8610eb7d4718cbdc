package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type newPostFrontMatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags,omitempty"`
}

func NewNewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new post with front-matter",
		Long:  `Create '<contentDir>/posts/<slug>.md' where the slug is derived from the title.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			tags, _ := cmd.Flags().GetStringSlice("tags")

			title := strings.TrimSpace(strings.Join(args, " "))
			id, err := slug.Normalize(title)
			if err != nil || id == "" {
				return fmt.Errorf("cannot derive a post id from %q", title)
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			} else if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
			}

			path, err := writeNewPost(filepath.Join(a.cfg.ContentDir, "posts"), id, newPostFrontMatter{
				Title: title,
				Date:  date,
				Tags:  tags,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Publication date (YYYY-MM-DD, default today)")
	cmd.Flags().StringSlice("tags", nil, "Comma separated tags")
	return cmd
}

func writeNewPost(dir, id string, fm newPostFrontMatter) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create posts directory: %w", err)
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal front-matter: %w", err)
	}

	path := filepath.Join(dir, id+".md")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("post %s already exists", path)
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	body := "---\n" + string(header) + "---\n\n"
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
