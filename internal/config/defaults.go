package config

import (
	"github.com/kylescorner/corner/internal/assets"
	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/statecodec"
)

// DefaultFile is the config file name used when --config is not given.
const DefaultFile = ".corner.yml"

// DefaultExcludes are glob patterns never copied into the build.
var DefaultExcludes = []string{
	"*.psd",
	"*.xcf",
	".DS_Store",
	"Thumbs.db",
}

// DefaultPlaylists are the Spotify playlists published alongside each list.
var DefaultPlaylists = map[string]string{
	"Albums 2025": "https://open.spotify.com/playlist/0Q6k70RNa5yfCzR7FoWZJT",
	"Songs 2025":  "https://open.spotify.com/playlist/78N72f5j0mTbZOkbTlPAJH",
	"Albums 2024": "https://open.spotify.com/playlist/0MATwTyjzRLJT9rhMKwM6S",
	"Songs 2024":  "https://open.spotify.com/playlist/7nzU9D67SJdgd41dLbRwcf",
	"Albums 2023": "https://open.spotify.com/playlist/01jDUCJ4Z4c2No5bijVJKw",
	"Songs 2023":  "https://open.spotify.com/playlist/4SLr4bfpWLHQGyQzKonxjE",
	"Albums 2022": "https://open.spotify.com/playlist/7jwCBOFBCl1BrwmkPrPLBr",
	"Songs 2022":  "https://open.spotify.com/playlist/1JGn9zna2lNdGRklbuOlUX",
	"Albums 2021": "https://open.spotify.com/playlist/0T0mqDU2EjiHQaDFIJm79V",
	"Albums 2020": "https://open.spotify.com/playlist/3UXyXqHD527llczssqr3TK",
	"Albums 2019": "https://open.spotify.com/playlist/3v253ZQ652keRJmdDJy0Sb",
	"Albums 2018": "https://open.spotify.com/playlist/2khHeRdQA4tF096H1LNX08",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	playlists := make(map[string]string, len(DefaultPlaylists))
	for k, v := range DefaultPlaylists {
		playlists[k] = v
	}

	return &Config{
		ProjectName:    "Kyle's Corner",
		SiteDir:        ".",
		OutputDir:      "build",
		RestaurantsCSV: "csv/restaurants.csv",
		MusicDir:       "csv/music",
		Include:        append([]string(nil), assets.DefaultInclude...),
		Exclude:        append([]string(nil), DefaultExcludes...),
		Music: MusicConfig{
			Years:     music.DefaultYears(),
			Playlists: playlists,
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
			DataDir:        ".corner",
			TimeoutSeconds: 30,
		},
		Share: ShareConfig{
			BaseURL:     "http://localhost:8080",
			Page:        "restaurants.html",
			Copy:        true,
			StalePolicy: string(statecodec.PolicyReject),
			History:     true,
		},
	}
}
