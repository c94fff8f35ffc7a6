package config

// DefaultLocalURL is the API base used during local development.
const DefaultLocalURL = "http://localhost:8000/api"

// CloudHostMarker identifies the managed container hosting domain.
const CloudHostMarker = "azurecontainerapps.io"

// defaultMarkers maps each variant to the hostname markers that indicate a
// same-origin deployment.
var defaultMarkers = map[Variant][]string{
	VariantSystem2: {CloudHostMarker, "rag-system2"},
	VariantSystem3: {CloudHostMarker, "system3"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Variant:  VariantSystem3,
		Port:     8080,
		StateDir: ".ragui",
		API: APIConfig{
			LocalURL:              DefaultLocalURL,
			SameOriginMarkers:     DefaultMarkers(VariantSystem3),
			PageURL:               "http://localhost",
			RequestTimeoutSeconds: 60,
		},
	}
}

// DefaultMarkers returns a copy of the same-origin markers for a variant.
// Unknown variants get the System3 markers.
func DefaultMarkers(v Variant) []string {
	markers, ok := defaultMarkers[v]
	if !ok {
		markers = defaultMarkers[VariantSystem3]
	}
	return append([]string(nil), markers...)
}
