package config

// Variant selects which backend family the front-end talks to.
type Variant string

const (
	VariantSystem2 Variant = "system2"
	VariantSystem3 Variant = "system3"
)

// HasSessions reports whether the variant tracks a server-side session id.
func (v Variant) HasSessions() bool {
	return v == VariantSystem3
}

// Config is the top-level ragui configuration, corresponding to .ragui.yml.
type Config struct {
	Variant      Variant   `yaml:"variant" koanf:"variant"`
	Port         int       `yaml:"port" koanf:"port"`
	StateDir     string    `yaml:"state_dir" koanf:"state_dir"`
	CORSAllowAll bool      `yaml:"cors_allow_all" koanf:"cors_allow_all"`
	// ActivityAPI exposes the backend call log over HTTP. The log holds
	// endpoints and errors for every browser, so it stays off by default.
	ActivityAPI bool      `yaml:"activity_api" koanf:"activity_api"`
	API          APIConfig `yaml:"api" koanf:"api"`
}

// APIConfig describes how the backend REST API is located and called.
type APIConfig struct {
	// LocalURL is used when the page is served from a loopback host.
	LocalURL string `yaml:"local_url" koanf:"local_url"`
	// SameOriginMarkers are hostname substrings (or globs) that mean the API
	// is served from the page's own origin under /api.
	SameOriginMarkers []string `yaml:"same_origin_markers" koanf:"same_origin_markers"`
	// BaseURL skips host detection entirely when set.
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	// AllowedHosts are page hostnames (exact or glob) whose host-derived
	// API base the UI server may call. Other hosts need BaseURL or Upstream.
	AllowedHosts []string `yaml:"allowed_hosts" koanf:"allowed_hosts"`
	// PageURL is the page location assumed by the CLI and MCP server.
	PageURL string `yaml:"page_url" koanf:"page_url"`
	// Upstream is the backend the UI server proxies /api to and calls for
	// same-origin deployments.
	Upstream              string `yaml:"upstream" koanf:"upstream"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	RequestsPerMinute     int    `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}
