package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/kylescorner/corner/internal/assets"
	"github.com/kylescorner/corner/internal/statecodec"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CORNER_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CORNER_*). A double underscore separates
// nested keys: CORNER_SERVER__PORT sets server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if err := c.CheckOutputDir(c.Resolve(c.OutputDir)); err != nil {
		return err
	}
	if c.RestaurantsCSV == "" {
		return fmt.Errorf("restaurants_csv is required")
	}
	if _, err := assets.NewFilter(c.Include, c.Exclude); err != nil {
		return err
	}

	if err := c.Music.Years.Validate(); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.TimeoutSeconds < 0 {
		return fmt.Errorf("server.timeout_seconds must be non-negative")
	}

	if !statecodec.Policy(c.Share.StalePolicy).Valid() {
		return fmt.Errorf("invalid share.stale_policy %q: must be one of reject, lenient", c.Share.StalePolicy)
	}
	if c.Share.BaseURL != "" {
		u, err := url.Parse(c.Share.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid share.base_url %q", c.Share.BaseURL)
		}
	}

	return nil
}

// Resolve joins a site-relative path onto SiteDir. Absolute paths are
// returned unchanged.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.SiteDir, p)
}

// CheckOutputDir rejects an output directory that resolves to SiteDir, where
// a build would copy assets onto themselves.
func (c *Config) CheckOutputDir(dir string) error {
	out, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving output dir %s: %w", dir, err)
	}
	src, err := filepath.Abs(c.SiteDir)
	if err != nil {
		return fmt.Errorf("resolving site_dir %s: %w", c.SiteDir, err)
	}
	if out == src {
		return fmt.Errorf("output dir %s is the site directory", dir)
	}
	return nil
}

// SharePage returns the absolute page URL share links are composed on.
func (c *Config) SharePage() string {
	base := strings.TrimRight(c.Share.BaseURL, "/")
	return base + "/" + strings.TrimLeft(c.Share.Page, "/")
}

// StalePolicy returns the configured decode policy.
func (c *Config) StalePolicy() statecodec.Policy {
	return statecodec.Policy(c.Share.StalePolicy)
}
