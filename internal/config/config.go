// Package config holds conf-events configuration and its loading from file
// and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/conf-events/internal/scraper"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CONFEVENTS_SERVER_ADDR
const EnvPrefix = "CONFEVENTS"

// Config holds all application configuration.
type Config struct {
	Server Server `mapstructure:"server"`
	Crawl  Crawl  `mapstructure:"crawl"`
	SiteA  SiteA  `mapstructure:"site_a"`
	SiteB  SiteB  `mapstructure:"site_b"`
	Log    Log    `mapstructure:"log"`
}

// Server holds HTTP boundary configuration.
type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Crawl holds settings shared by both sources.
type Crawl struct {
	Timeout        time.Duration `mapstructure:"timeout"`         // Whole aggregate run
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Single page fetch
	UserAgent      string        `mapstructure:"user_agent"`
	MaxParallel    int           `mapstructure:"max_parallel"`
	Dedup          bool          `mapstructure:"dedup"`
}

// SiteA holds the yearly listing source.
type SiteA struct {
	BaseURL string `mapstructure:"base_url"`
	Year    int    `mapstructure:"year"`
}

// SiteB holds the calendar listing source.
type SiteB struct {
	BaseURL         string   `mapstructure:"base_url"`
	Country         string   `mapstructure:"country"`
	OrganizerLabels []string `mapstructure:"organizer_labels"`
}

// Log holds logging configuration.
type Log struct {
	Level string `mapstructure:"level"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second, // Must outlast Crawl.Timeout
		},
		Crawl: Crawl{
			Timeout:        60 * time.Second,
			RequestTimeout: scraper.Timeout,
			UserAgent:      scraper.UserAgent,
			MaxParallel:    scraper.DefaultMaxParallel,
		},
		SiteA: SiteA{
			BaseURL: scraper.SiteABaseURL,
			Year:    scraper.DefaultYear,
		},
		SiteB: SiteB{
			BaseURL:         scraper.SiteBBaseURL,
			Country:         scraper.DefaultCountry,
			OrganizerLabels: scraper.DefaultOrganizerLabels,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Crawl.Timeout < 0 || c.Crawl.RequestTimeout < 0 {
		errs = append(errs, errors.New("crawl timeouts must not be negative"))
	}
	if c.Crawl.MaxParallel < 1 {
		errs = append(errs, fmt.Errorf("crawl.max_parallel must be at least 1, got %d", c.Crawl.MaxParallel))
	}
	if c.SiteA.Year < 1 {
		errs = append(errs, fmt.Errorf("site_a.year must be positive, got %d", c.SiteA.Year))
	}
	if err := scraper.ValidateSite(scraper.NewSiteA(c.SiteA.BaseURL, c.SiteA.Year)); err != nil {
		errs = append(errs, err)
	}
	if err := scraper.ValidateSite(scraper.NewSiteB(c.SiteB.BaseURL, c.SiteB.Country, c.SiteB.OrganizerLabels)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Load merges defaults, the config file and CONFEVENTS_* environment
// variables. An empty path searches ./config, /etc/conf-events and the
// working directory for config.yaml; a missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/conf-events")
		v.AddConfigPath(".")
	}

	// CONFEVENTS_SITE_A_BASE_URL -> site_a.base_url
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"server.addr", "server.read_timeout", "server.write_timeout",
		"crawl.timeout", "crawl.request_timeout", "crawl.user_agent", "crawl.max_parallel", "crawl.dedup",
		"site_a.base_url", "site_a.year",
		"site_b.base_url", "site_b.country", "site_b.organizer_labels",
		"log.level",
	} {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
