// Package sharelog keeps a history of composed share URLs in SQLite.
package sharelog

import "time"

// Source records which surface composed a link.
type Source string

const (
	SourceCLI Source = "cli"
	SourceAPI Source = "api"
)

// Entry is one composed share URL.
type Entry struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Filters      string    `json:"f,omitempty"`
	Manual       string    `json:"m,omitempty"`
	Random       string    `json:"r,omitempty"`
	RegistrySize int       `json:"registry_size"`
	Source       Source    `json:"source"`
	Copied       bool      `json:"copied"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListFilter controls which entries List returns.
type ListFilter struct {
	Source Source
	Limit  int
	Offset int
}

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20
