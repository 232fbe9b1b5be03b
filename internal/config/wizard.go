package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/kylescorner/corner/internal/statecodec"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to corner! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Project name.
	namePrompt := promptui.Prompt{Label: "Site title", Default: cfg.ProjectName}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.ProjectName = name

	// 2. Output directory.
	outputPrompt := promptui.Prompt{Label: "Output directory for the built site", Default: cfg.OutputDir}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 3. Restaurant list.
	csvPrompt := promptui.Prompt{
		Label:   "Restaurant CSV",
		Default: detectRestaurantsCSV(cfg.RestaurantsCSV),
	}
	csvPath, err := csvPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("restaurant csv: %w", err)
	}
	cfg.RestaurantsCSV = csvPath

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.Share.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 5. Stale share links.
	policyPrompt := promptui.Select{
		Label: "When a shared link no longer matches the filter list",
		Items: []string{
			"reject  — ignore the filter part of the link",
			"lenient — apply what still lines up",
		},
	}
	policyIdx, _, err := policyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("stale policy: %w", err)
	}
	policies := []statecodec.Policy{statecodec.PolicyReject, statecodec.PolicyLenient}
	cfg.Share.StalePolicy = string(policies[policyIdx])

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra asset exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// detectRestaurantsCSV returns the first existing candidate, or fallback.
func detectRestaurantsCSV(fallback string) string {
	for _, p := range []string{fallback, "restaurants.csv", "csv/restaurants.csv", "data/restaurants.csv"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return fallback
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
