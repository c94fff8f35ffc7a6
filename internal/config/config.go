package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (RAGUI_*). Nested keys use a double
// underscore: RAGUI_API__UPSTREAM -> api.upstream.
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

	if err := k.Load(env.Provider("RAGUI_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "RAGUI_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A variant switch without explicit markers picks up that variant's markers.
	if k.Exists("variant") && !k.Exists("api.same_origin_markers") {
		cfg.API.SameOriginMarkers = DefaultMarkers(Variant(k.String("variant")))
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
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

var validVariants = map[Variant]bool{
	VariantSystem2: true,
	VariantSystem3: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Variant == "" {
		return fmt.Errorf("variant is required")
	}
	if !validVariants[c.Variant] {
		return fmt.Errorf("invalid variant %q: must be one of system2, system3", c.Variant)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}

	if c.API.LocalURL == "" {
		return fmt.Errorf("api.local_url is required")
	}
	for name, raw := range map[string]string{
		"api.local_url": c.API.LocalURL,
		"api.base_url":  c.API.BaseURL,
		"api.page_url":  c.API.PageURL,
		"api.upstream":  c.API.Upstream,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		if name != "api.base_url" && (u.Scheme == "" || u.Host == "") {
			return fmt.Errorf("invalid %s %q: must be an absolute URL", name, raw)
		}
	}

	for _, host := range c.API.AllowedHosts {
		if host == "" || !doublestar.ValidatePattern(host) {
			return fmt.Errorf("invalid api.allowed_hosts entry %q", host)
		}
	}

	if c.API.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("api.request_timeout_seconds must be non-negative")
	}
	if c.API.RequestsPerMinute < 0 {
		return fmt.Errorf("api.requests_per_minute must be non-negative")
	}

	return nil
}

// RequestTimeout returns the per-request timeout. Zero disables it.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutSeconds) * time.Second
}
