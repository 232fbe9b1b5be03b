package config

import "github.com/kylescorner/corner/internal/music"

// Config is the top-level corner configuration, corresponding to .corner.yml.
type Config struct {
	ProjectName    string       `yaml:"project_name" koanf:"project_name"`
	SiteDir        string       `yaml:"site_dir" koanf:"site_dir"`
	OutputDir      string       `yaml:"output_dir" koanf:"output_dir"`
	RestaurantsCSV string       `yaml:"restaurants_csv" koanf:"restaurants_csv"`
	MusicDir       string       `yaml:"music_dir" koanf:"music_dir"`
	Include        []string     `yaml:"include" koanf:"include"`
	Exclude        []string     `yaml:"exclude" koanf:"exclude"`
	Music          MusicConfig  `yaml:"music" koanf:"music"`
	Server         ServerConfig `yaml:"server" koanf:"server"`
	Share          ShareConfig  `yaml:"share" koanf:"share"`
}

// MusicConfig controls which yearly lists are built and their playlists.
type MusicConfig struct {
	Years     music.YearRange   `yaml:"years" koanf:"years"`
	Playlists map[string]string `yaml:"playlists" koanf:"playlists"`
}

// ServerConfig holds settings for `corner serve`.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	DataDir        string   `yaml:"data_dir" koanf:"data_dir"`
	TimeoutSeconds int      `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// ShareConfig controls share URL composition and decoding.
type ShareConfig struct {
	BaseURL     string `yaml:"base_url" koanf:"base_url"`
	Page        string `yaml:"page" koanf:"page"`
	Copy        bool   `yaml:"copy" koanf:"copy"`
	StalePolicy string `yaml:"stale_policy" koanf:"stale_policy"`
	History     bool   `yaml:"history" koanf:"history"`
}
