package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/vjudge/internal/xdg"
)

const AppName = "vjudge"

// Config holds all configuration for the client
type Config struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`

	// Username and Password pre-seed the session; the password is only read
	// from the environment.
	Username string `toml:"username"`
	Password string `toml:"-"`

	PollInterval Duration `toml:"poll_interval"`
	// MaxPollWait bounds judge polling. Zero polls until the judge finishes.
	MaxPollWait  Duration `toml:"max_poll_wait"`
	RefreshDelay Duration `toml:"refresh_delay"`

	Captcha CaptchaConfig `toml:"captcha"`
	NATS    NATSConfig    `toml:"nats"`

	CacheDir string `toml:"cache_dir"`
}

// CaptchaConfig holds the captcha endpoint probe list and challenge markers
type CaptchaConfig struct {
	// Endpoints are probed in order. "{base}" expands to BaseURL and "{ts}"
	// to a millisecond timestamp.
	Endpoints []string `toml:"endpoints"`
	// Markers are substrings of a 400 body that identify a captcha challenge.
	Markers []string `toml:"markers"`
}

// NATSConfig holds the optional lifecycle event sink
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

// Duration is a time.Duration written as "200ms", "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var DefaultCaptchaEndpoints = []string{
	"{base}/util/captcha?{ts}",
	"{base}/util/captcha.png?{ts}",
	"{base}/util/captcha.jpg?{ts}",
	"{base}/captcha?{ts}",
}

var DefaultCaptchaMarkers = []string{"卧槽", "captcha", "Captcha"}

func Default() *Config {
	xdgDirs := xdg.NewXDGDirs()
	return &Config{
		BaseURL:      "https://vjudge.net",
		Timeout:      Duration{30 * time.Second},
		PollInterval: Duration{200 * time.Millisecond},
		MaxPollWait:  Duration{0},
		RefreshDelay: Duration{15 * time.Second},
		Captcha: CaptchaConfig{
			Endpoints: append([]string(nil), DefaultCaptchaEndpoints...),
			Markers:   append([]string(nil), DefaultCaptchaMarkers...),
		},
		NATS: NATSConfig{
			Subject: "vjudge.submissions",
		},
		CacheDir: xdgDirs.AppCacheDir(AppName),
	}
}

// DefaultPath is $XDG_CONFIG_HOME/vjudge/config.toml
func DefaultPath() string {
	return xdg.NewXDGDirs().AppConfigDir(AppName) + string(os.PathSeparator) + "config.toml"
}

// Load layers defaults, the TOML file, .env and the environment. An empty
// path means DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("VJUDGE_BASE_URL", c.BaseURL)
	c.Username = getEnv("VJUDGE_USERNAME", c.Username)
	c.Password = getEnv("VJUDGE_PASSWORD", c.Password)
	c.Timeout.Duration = getEnvAsDuration("VJUDGE_TIMEOUT", c.Timeout.Duration)
	c.PollInterval.Duration = getEnvAsDuration("VJUDGE_POLL_INTERVAL", c.PollInterval.Duration)
	c.MaxPollWait.Duration = getEnvAsDuration("VJUDGE_MAX_POLL_WAIT", c.MaxPollWait.Duration)
	c.RefreshDelay.Duration = getEnvAsDuration("VJUDGE_REFRESH_DELAY", c.RefreshDelay.Duration)
	c.CacheDir = getEnv("VJUDGE_CACHE_DIR", c.CacheDir)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.Subject = getEnv("NATS_SUBJECT", c.NATS.Subject)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid base url: %q", c.BaseURL)
	}
	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.MaxPollWait.Duration < 0 {
		return fmt.Errorf("max poll wait must not be negative, got %s", c.MaxPollWait)
	}
	if c.RefreshDelay.Duration < 0 {
		return fmt.Errorf("refresh delay must not be negative, got %s", c.RefreshDelay)
	}
	if len(c.Captcha.Endpoints) == 0 {
		return fmt.Errorf("at least one captcha endpoint is required")
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, e := range c.Captcha.Endpoints {
		if !seen.Add(e) {
			return fmt.Errorf("duplicate captcha endpoint: %s", e)
		}
	}
	if len(c.Captcha.Markers) == 0 {
		return fmt.Errorf("at least one captcha marker is required")
	}
	return nil
}

// CaptchaURLs expands the endpoint templates for one probe round.
func (c *Config) CaptchaURLs(now time.Time) []string {
	ts := fmt.Sprintf("%d", now.UnixMilli())
	base := strings.TrimRight(c.BaseURL, "/")
	urls := make([]string, 0, len(c.Captcha.Endpoints))
	for _, e := range c.Captcha.Endpoints {
		u := strings.ReplaceAll(e, "{base}", base)
		urls = append(urls, strings.ReplaceAll(u, "{ts}", ts))
	}
	return urls
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
