package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config is the decoded form of config.yaml, BLOG_* env vars and defaults.
type Config struct {
	SiteTitle   string `mapstructure:"siteTitle"`
	Description string `mapstructure:"description"`
	Author      string `mapstructure:"author"`
	BaseURL     string `mapstructure:"baseURL"`
	Links       []Link `mapstructure:"links"`

	ContentDir string `mapstructure:"contentDir"`
	LayoutsDir string `mapstructure:"layoutsDir"`
	StaticDir  string `mapstructure:"staticDir"`
	OutputDir  string `mapstructure:"outputDir"`

	Markdown Markdown `mapstructure:"markdown"`
	Build    Build    `mapstructure:"build"`
	Feed     Feed     `mapstructure:"feed"`
	Log      Log      `mapstructure:"log"`
	Server   Server   `mapstructure:"server"`
}

// Link is an external profile shown in the navigation bar.
type Link struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
	Icon string `mapstructure:"icon" json:"icon,omitempty"`
}

type Markdown struct {
	HardWraps  bool `mapstructure:"hardWraps"`
	HeadingIDs bool `mapstructure:"headingIDs"`
}

type Build struct {
	Workers int `mapstructure:"workers"`
}

type Feed struct {
	Limit int `mapstructure:"limit"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Server struct {
	Port     int           `mapstructure:"port"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults mirrors the values registered with viper so callers that skip
// config loading (tests, embedding) get the same site.
func Defaults() Config {
	return Config{
		SiteTitle:   "My Blog",
		Description: "Just another blog.",
		ContentDir:  "content",
		LayoutsDir:  "layouts",
		StaticDir:   "static",
		OutputDir:   "public",
		Markdown:    Markdown{HeadingIDs: true},
		Build:       Build{Workers: 4},
		Feed:        Feed{Limit: 20},
		Log:         Log{Level: "info", Format: "text"},
		Server:      Server{Port: 1313, Debounce: 500 * time.Millisecond},
	}
}

// Validate checks the fields the build cannot run without. Min and Max
// skip zero values, so numeric fields also need Required.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Build, validation.By(func(value any) error {
			b, _ := value.(Build)
			return validation.Validate(b.Workers, validation.Required, validation.Min(1))
		})),
		validation.Field(&c.Server, validation.By(func(value any) error {
			s, _ := value.(Server)
			return validation.Validate(s.Port, validation.Required, validation.Min(1), validation.Max(65535))
		})),
		validation.Field(&c.Log, validation.By(func(value any) error {
			l, _ := value.(Log)
			return validation.Validate(l.Format, validation.In("text", "json"))
		})),
	)
}
