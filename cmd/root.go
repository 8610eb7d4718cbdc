package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JuniMay/junimay.github.io/internal/config"
	"github.com/JuniMay/junimay.github.io/internal/content"
	"github.com/JuniMay/junimay.github.io/internal/logging"
	"github.com/JuniMay/junimay.github.io/internal/model"
	"github.com/JuniMay/junimay.github.io/internal/site"
)

// flagKeys binds command flags onto config keys so a flag wins over the
// config file and environment.
var flagKeys = map[string]string{
	"output": "outputDir",
	"port":   "server.port",
}

// app carries the loaded configuration into the subcommands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// Execute runs the CLI.
func Execute(ctx context.Context, version string) error {
	return fang.Execute(ctx, NewRootCmd(version))
}

func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "blog",
		Short: "Static generator for a markdown blog",
		Long: `blog turns a directory of markdown posts with front-matter into a
static site: a post list, one page per post, tag pages, an about page
and an RSS feed.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd, cfgFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(
		NewBuildCmd(a),
		NewServeCmd(a),
		NewListCmd(a),
		NewNewCmd(a),
	)
	return rootCmd
}

func (a *app) initialize(cmd *cobra.Command, cfgFile string) error {
	v := viper.New()
	setDefaults(v, config.Defaults())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	configUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config file: %w", err)
		}
	} else {
		configUsed = v.ConfigFileUsed()
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	if configUsed != "" {
		logger.Debug("using config file", "path", configUsed)
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("siteTitle", d.SiteTitle)
	v.SetDefault("description", d.Description)
	v.SetDefault("author", d.Author)
	v.SetDefault("baseURL", d.BaseURL)
	v.SetDefault("links", d.Links)
	v.SetDefault("contentDir", d.ContentDir)
	v.SetDefault("layoutsDir", d.LayoutsDir)
	v.SetDefault("staticDir", d.StaticDir)
	v.SetDefault("outputDir", d.OutputDir)
	v.SetDefault("markdown.hardWraps", d.Markdown.HardWraps)
	v.SetDefault("markdown.headingIDs", d.Markdown.HeadingIDs)
	v.SetDefault("build.workers", d.Build.Workers)
	v.SetDefault("feed.limit", d.Feed.Limit)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.debounce", d.Server.Debounce)
}

// loader opens the content store. Every call gets a fresh loader so
// rebuilds see the current configuration and files.
func (a *app) loader() *content.Loader {
	renderer := content.NewRenderer(content.RenderOptions{
		HardWraps:  a.cfg.Markdown.HardWraps,
		HeadingIDs: a.cfg.Markdown.HeadingIDs,
	})
	return content.NewLoader(os.DirFS(a.cfg.ContentDir), renderer, content.LoaderConfig{
		Logger: a.logger.With("component", "loader"),
	})
}

func (a *app) build(ctx context.Context) (*site.Report, error) {
	if _, err := os.Stat(a.cfg.ContentDir); err != nil {
		return nil, fmt.Errorf("content directory %q: %w", a.cfg.ContentDir, err)
	}

	theme, err := site.LoadTheme(a.cfg.LayoutsDir)
	if err != nil {
		return nil, err
	}

	loader := a.loader()
	gen := site.NewGenerator(loader, content.NewIndex(loader), theme, site.Options{
		OutputDir: a.cfg.OutputDir,
		StaticDir: a.cfg.StaticDir,
		Workers:   a.cfg.Build.Workers,
		FeedLimit: a.cfg.Feed.Limit,
		Site:      model.NewSiteData(a.cfg),
	}, a.logger.With("component", "generator"))
	return gen.Build(ctx)
}
