package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "TORBOX"

type Config struct {
	API      API      `mapstructure:"api"`
	Retry    Retry    `mapstructure:"retry"`
	Logging  Logging  `mapstructure:"logging"`
	Debrids  []Debrid `mapstructure:"debrids"`
	Download Download `mapstructure:"download"`

	AllowedExt  []string `mapstructure:"allowed_file_types"`
	MinFileSize string   `mapstructure:"min_file_size"`
	MaxFileSize string   `mapstructure:"max_file_size"`

	minFileSize int64
	maxFileSize int64
}

type API struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIVersion string        `mapstructure:"api_version"`
	APIKey     string        `mapstructure:"api_key"`
	RateLimit  string        `mapstructure:"rate_limit"`
	Proxy      string        `mapstructure:"proxy"`
	UserAgent  string        `mapstructure:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Retry struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

type Logging struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Color   bool   `mapstructure:"color"`
	File    string `mapstructure:"file"`
	MaxSize int    `mapstructure:"max_size"`
	MaxAge  int    `mapstructure:"max_age"`
}

// Debrid is one TorBox account the debrid layer can submit to.
type Debrid struct {
	Name                 string `mapstructure:"name"`
	APIKey               string `mapstructure:"api_key"`
	Folder               string `mapstructure:"folder"`
	RateLimit            string `mapstructure:"rate_limit"`
	Proxy                string `mapstructure:"proxy"`
	DownloadUncached     bool   `mapstructure:"download_uncached"`
	CheckCached          bool   `mapstructure:"check_cached"`
	AddSamples           bool   `mapstructure:"add_samples"`
	AutoExpireLinksAfter string `mapstructure:"auto_expire_links_after"`
}

type Download struct {
	Path            string        `mapstructure:"path"`
	Action          string        `mapstructure:"action"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

var (
	instance   *Config
	once       sync.Once
	configPath string
)

// SetConfigPath sets the file read by Get. "env" skips the file lookup and
// reads the environment only.
func SetConfigPath(path string) {
	configPath = path
}

// Get loads the configuration once. A broken configuration falls back to the
// defaults so library callers always get a usable value.
func Get() *Config {
	once.Do(func() {
		cfg, err := Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			cfg, _ = Load("env")
		}
		instance = cfg
	})

	return instance
}

// Load reads the configuration from path, the standard locations when path
// is empty, and TORBOX_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.api_key", "TORBOX_API_KEY")
	_ = v.BindEnv("api.base_url", "TORBOX_BASE_URL")

	switch path {
	case "env":
	case "":
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".torbox"))
		}
		v.AddConfigPath("/etc/torbox/")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	default:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if len(cfg.Debrids) == 0 && cfg.API.APIKey != "" {
		cfg.Debrids = []Debrid{{
			Name:        "torbox",
			APIKey:      cfg.API.APIKey,
			RateLimit:   cfg.API.RateLimit,
			Proxy:       cfg.API.Proxy,
			CheckCached: true,
		}}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.torbox.app/")
	v.SetDefault("api.api_version", "v1")
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.rate_limit", "250/minute")
	v.SetDefault("api.proxy", "")
	v.SetDefault("api.user_agent", "torbox-go")
	v.SetDefault("api.timeout", "60s")

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff", "500ms")
	v.SetDefault("retry.max_backoff", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_age", 14)

	v.SetDefault("download.path", "downloads")
	v.SetDefault("download.action", "download")
	v.SetDefault("download.max_concurrent", 4)
	v.SetDefault("download.poll_interval", "2s")
	v.SetDefault("download.max_poll_interval", "30s")
	v.SetDefault("download.timeout", "6h")

	v.SetDefault("allowed_file_types", []string{})
	v.SetDefault("min_file_size", "")
	v.SetDefault("max_file_size", "")
}

func (c *Config) validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.APIVersion == "" {
		errs = append(errs, errors.New("api.api_version is required"))
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid logging level: %s", c.Logging.Level))
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid logging format: %s", c.Logging.Format))
	}

	switch c.Download.Action {
	case "download", "none":
	default:
		errs = append(errs, fmt.Errorf("invalid download action: %s", c.Download.Action))
	}

	seen := make(map[string]bool)
	for i, dc := range c.Debrids {
		if dc.Name == "" {
			errs = append(errs, fmt.Errorf("debrids[%d].name is required", i))
		}
		if seen[dc.Name] {
			errs = append(errs, fmt.Errorf("duplicate debrid name: %s", dc.Name))
		}
		seen[dc.Name] = true

		if dc.APIKey == "" {
			errs = append(errs, fmt.Errorf("debrids[%d].api_key is required", i))
		}
		if dc.AutoExpireLinksAfter != "" {
			if _, err := time.ParseDuration(dc.AutoExpireLinksAfter); err != nil {
				errs = append(errs, fmt.Errorf("debrids[%d].auto_expire_links_after: %w", i, err))
			}
		}
	}

	var err error
	if c.minFileSize, err = ParseSize(c.MinFileSize); err != nil {
		errs = append(errs, fmt.Errorf("min_file_size: %w", err))
	}
	if c.maxFileSize, err = ParseSize(c.MaxFileSize); err != nil {
		errs = append(errs, fmt.Errorf("max_file_size: %w", err))
	}

	return errors.Join(errs...)
}

// IsAllowedFile reports whether the file extension passes the allow list.
// An empty list allows everything.
func (c *Config) IsAllowedFile(filename string) bool {
	if len(c.AllowedExt) == 0 {
		return true
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range c.AllowedExt {
		if strings.TrimPrefix(strings.ToLower(allowed), ".") == ext {
			return true
		}
	}

	return false
}

func (c *Config) IsSizeAllowed(size int64) bool {
	if c.minFileSize > 0 && size < c.minFileSize {
		return false
	}
	if c.maxFileSize > 0 && size > c.maxFileSize {
		return false
	}

	return true
}

// ParseSize parses sizes such as "500MB", "1.5GB" or "1024". Empty is zero.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	units := []struct {
		suffix string
		mult   float64
	}{
		{"TB", 1 << 40},
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	}

	mult := 1.0
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	return int64(n * mult), nil
}
