// Package config holds runtime configuration for both tracker jobs.
//
// All settings have in-source defaults; an optional gls-tracker.yaml file
// and GLS_-prefixed environment variables can override them.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Sources Sources `mapstructure:"sources"`
	Fetch   Fetch   `mapstructure:"fetch"`
	Storage Storage `mapstructure:"storage"`
	Cache   Cache   `mapstructure:"cache"`
	Notify  Notify  `mapstructure:"notify"`
}

// Sources holds the fixed public URLs the jobs pull from.
type Sources struct {
	ListingURL    string `mapstructure:"listing_url"`
	VacantFileURL string `mapstructure:"vacant_file_url"`
}

// Fetch holds HTTP client configuration.
type Fetch struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	Delay      time.Duration `mapstructure:"delay"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Retries    int           `mapstructure:"retries"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// Storage holds on-disk locations for workbooks, downloads, and logs.
type Storage struct {
	DataDir      string `mapstructure:"data_dir"`
	WorkbookPath string `mapstructure:"workbook_path"`
	VacantPath   string `mapstructure:"vacant_path"`
	LogPath      string `mapstructure:"log_path"`
}

// Cache holds detail-page cache configuration.
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Notify holds announcement configuration. Twitter credentials are read
// from the environment, never from config files.
type Notify struct {
	Enabled bool `mapstructure:"enabled"`
	MaxPost int  `mapstructure:"max_post"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Sources: Sources{
			ListingURL:    "https://www.ura.gov.sg/Corporate/Land-Sales/Current-URA-GLS-Sites",
			VacantFileURL: "https://www.ura.gov.sg/-/media/Corporate/Land-Sales/Past-Sales-Sites/ura-vacant-sites.xlsx",
		},
		Fetch: Fetch{
			Timeout:    30 * time.Second,
			Delay:      2 * time.Second,
			RetryDelay: 2 * time.Second,
			Retries:    3,
			UserAgent:  "gls-tracker/1.0 (github.com/jmteo/gls-tracker)",
		},
		Storage: Storage{
			DataDir:      "data",
			WorkbookPath: "data/gls_awarded_sites.xlsx",
			VacantPath:   "data/vacant_sites.xlsx",
			LogPath:      "data/gls-tracker.log",
		},
		Cache: Cache{
			TTL: 30 * 24 * time.Hour,
		},
		Notify: Notify{
			Enabled: false,
			MaxPost: 10,
		},
	}
}

// Load reads configuration from an optional file path on top of defaults.
// Environment variables with the GLS_ prefix override both, e.g.
// GLS_FETCH_DELAY=5s.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Defaults()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("gls-tracker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine; defaults apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("sources.listing_url", cfg.Sources.ListingURL)
	v.SetDefault("sources.vacant_file_url", cfg.Sources.VacantFileURL)
	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.delay", cfg.Fetch.Delay)
	v.SetDefault("fetch.retry_delay", cfg.Fetch.RetryDelay)
	v.SetDefault("fetch.retries", cfg.Fetch.Retries)
	v.SetDefault("fetch.user_agent", cfg.Fetch.UserAgent)
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.workbook_path", cfg.Storage.WorkbookPath)
	v.SetDefault("storage.vacant_path", cfg.Storage.VacantPath)
	v.SetDefault("storage.log_path", cfg.Storage.LogPath)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("notify.enabled", cfg.Notify.Enabled)
	v.SetDefault("notify.max_post", cfg.Notify.MaxPost)
}
