package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to ragui! Let's point the front-end at your RAG backend.")
	fmt.Println()

	variantPrompt := promptui.Select{
		Label: "Select backend variant",
		Items: []string{
			"system3: agent backend with sessions and chat",
			"system2: stateless search and POC backend",
		},
	}
	idx, _, err := variantPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("variant selection: %w", err)
	}
	variant := []Variant{VariantSystem3, VariantSystem2}[idx]

	cfg := DefaultConfig()
	cfg.Variant = variant
	cfg.API.SameOriginMarkers = DefaultMarkers(variant)

	localPrompt := promptui.Prompt{
		Label:   "Local development API URL",
		Default: cfg.API.LocalURL,
	}
	if cfg.API.LocalURL, err = localPrompt.Run(); err != nil {
		return nil, fmt.Errorf("local url: %w", err)
	}

	upstreamPrompt := promptui.Prompt{
		Label:   "Upstream backend to proxy /api to (blank for none)",
		Default: "",
	}
	if cfg.API.Upstream, err = upstreamPrompt.Run(); err != nil {
		return nil, fmt.Errorf("upstream: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "UI server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	markersPrompt := promptui.Prompt{
		Label:   "Same-origin hostname markers (comma-separated)",
		Default: strings.Join(cfg.API.SameOriginMarkers, ","),
	}
	markers, err := markersPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("markers: %w", err)
	}
	cfg.API.SameOriginMarkers = splitAndTrim(markers)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
