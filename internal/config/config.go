// Package config loads propmap configuration from defaults, an optional
// YAML file, PROPMAP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/elektrokombinacija/propmap/internal/vis/project"
)

// Config holds all application configuration.
type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Map     MapConfig     `mapstructure:"map"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

type MapConfig struct {
	HitRadius float64 `mapstructure:"hit_radius"`
	Index     string  `mapstructure:"index"`
	Currency  string  `mapstructure:"currency"`
	Locale    string  `mapstructure:"locale"`
}

type FeedConfig struct {
	File        string `mapstructure:"file"`
	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // Empty disables the metrics listener
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"feed":         "feed.file",
	"nats-url":     "feed.nats_url",
	"nats-subject": "feed.nats_subject",
	"index":        "map.index",
	"currency":     "map.currency",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("feed", "", "marker data file (.json, .geojson, .xlsx)")
	fs.String("nats-url", "", "NATS server URL for live marker updates")
	fs.String("nats-subject", "", "NATS subject carrying marker data sets")
	fs.String("index", "", "hit-test index: linear or quadtree")
	fs.String("currency", "", "currency code shown on price labels")
	fs.String("log-level", "", "log level")
	fs.String("log-format", "", "log format: json or console")
	fs.String("http-addr", "", "HTTP API listen address")
	fs.String("metrics-addr", "", "metrics listen address")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.title", "Property map")
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
	v.SetDefault("map.hit_radius", project.DefaultHitRadius)
	v.SetDefault("map.index", project.IndexLinear)
	v.SetDefault("map.currency", "BDT")
	v.SetDefault("map.locale", "en")
	v.SetDefault("feed.file", "")
	v.SetDefault("feed.nats_url", "")
	v.SetDefault("feed.nats_subject", "propmap.markers")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.addr", "")
}

// Load builds the configuration. fs may be nil; only flags the user
// actually set override file and environment values.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Config file: explicit path must exist, the default one is optional
	path := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("propmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: PROPMAP_MAP_INDEX → map.index
	v.SetEnvPrefix("PROPMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	"fatal": true, "panic": true, "disabled": true, "off": true,
}

// Validate checks that configuration values are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Map.HitRadius <= 0 {
		errs = append(errs, fmt.Sprintf("map.hit_radius must be positive, got %v", c.Map.HitRadius))
	}
	if c.Map.Index != project.IndexLinear && c.Map.Index != project.IndexQuadtree {
		errs = append(errs, fmt.Sprintf("map.index must be %q or %q, got %q", project.IndexLinear, project.IndexQuadtree, c.Map.Index))
	}
	if c.Map.Currency == "" {
		errs = append(errs, "map.currency is required")
	}
	if _, err := language.Parse(c.Map.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("map.locale %q: %v", c.Map.Locale, err))
	}
	if c.Feed.NATSURL != "" && c.Feed.NATSSubject == "" {
		errs = append(errs, "feed.nats_subject is required with feed.nats_url")
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level %q is not a known level", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
