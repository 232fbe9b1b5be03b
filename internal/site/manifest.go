package site

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kylescorner/corner/internal/assets"
)

// ManifestFile is written to the output root on every build.
const ManifestFile = "manifest.json"

// Manifest summarizes a build. The server reads it to learn the registry
// size and filter layout the published pages were built with.
type Manifest struct {
	Project     string         `json:"project"`
	Pages       []string       `json:"pages"`
	Assets      []assets.Asset `json:"assets"`
	Restaurants int            `json:"restaurants"`
	FilterBits  int            `json:"filter_bits"`
	MusicYears  []int          `json:"music_years,omitempty"`
}

// WriteManifest serializes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
