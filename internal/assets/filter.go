package assets

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects the asset directories of a site.
var DefaultInclude = []string{"css/**", "js/**", "images/**", "fonts/**"}

// Filter decides which files under a site root are assets.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter validates the patterns. An empty include list selects every file.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = validPatterns("include", include); err != nil {
		return nil, err
	}
	if f.exclude, err = validPatterns("exclude", exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func validPatterns(kind string, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("assets: invalid %s pattern %q", kind, p)
		}
		out = append(out, p)
	}
	return out, nil
}

// SkipDir reports whether Walk stays out of a directory: hidden directories
// such as .git or .corner, and node_modules.
func (f *Filter) SkipDir(name string) bool {
	return (len(name) > 1 && strings.HasPrefix(name, ".")) || name == "node_modules"
}

// Match reports whether relPath is an asset. Patterns are tried against the
// full path and then the base name, so "*.psd" matches at any depth.
func (f *Filter) Match(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	if len(f.include) > 0 && !matchesAny(f.include, rel) {
		return false
	}
	return !matchesAny(f.exclude, rel)
}

func matchesAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, rel) || doublestar.MatchUnvalidated(p, base) {
			return true
		}
	}
	return false
}
