package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Builds the static site from content, layouts, and static assets",
		Long: `The build command reads the posts under '<contentDir>/posts/', validates
their front-matter, renders every post through the layouts (embedded
defaults, overridden by files in '<layoutsDir>/'), copies '<staticDir>/'
and writes the site to the output directory (default './public/').

A post with missing or invalid front-matter aborts the build and leaves
the previous output untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d posts and %d tags into %s in %s\n",
				report.Posts, report.Tags, a.cfg.OutputDir, report.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory (overrides outputDir)")
	return cmd
}
