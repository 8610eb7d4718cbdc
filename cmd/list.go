package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JuniMay/junimay.github.io/internal/content"
	"github.com/JuniMay/junimay.github.io/internal/model"
)

func NewListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			tag, _ := cmd.Flags().GetString("tag")

			summaries, err := content.NewIndex(a.loader()).SortedSummaries(cmd.Context())
			if err != nil {
				return err
			}
			if tag != "" {
				summaries = filterTag(summaries, tag)
			}
			return writeSummaries(cmd.OutOrStdout(), format, summaries)
		},
	}

	cmd.Flags().String("format", "table", "Output format (table|json|yaml)")
	cmd.Flags().String("tag", "", "Only list posts carrying this tag")
	return cmd
}

// filterTag matches tag by name, ignoring case, or by its preferred slug.
func filterTag(summaries []model.PostSummary, tag string) []model.PostSummary {
	key := model.TagKey(tag)
	out := summaries[:0]
	for _, s := range summaries {
		for _, t := range s.Tags {
			if model.TagKey(t) == key || model.TagSlug(t) == tag {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func writeSummaries(w io.Writer, format string, summaries []model.PostSummary) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summaries); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tID\tTITLE\tTAGS")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.DateString(), s.ID, s.Title, strings.Join(s.Tags, ", "))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
