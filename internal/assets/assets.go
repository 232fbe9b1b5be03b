// Package assets finds the static files a site build copies to its output
// directory and records a content hash for each.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the largest asset copied (50 MB).
const DefaultMaxFileSize int64 = 50 << 20

// Asset kinds.
const (
	KindStyle  = "style"
	KindScript = "script"
	KindImage  = "image"
	KindFont   = "font"
	KindOther  = "other"
)

// Asset describes one static file.
type Asset struct {
	Path        string `json:"-"`    // Absolute path on disk.
	RelPath     string `json:"path"` // Slash-separated path relative to the root.
	Size        int64  `json:"size"`
	Kind        string `json:"kind"`
	ContentHash string `json:"sha256"`
}

// Config controls Walk.
type Config struct {
	RootDir     string
	Include     []string // Glob patterns; empty means everything.
	Exclude     []string
	MaxFileSize int64 // 0 means DefaultMaxFileSize.
}

// Walk returns every file under cfg.RootDir that passes the include and
// exclude patterns, sorted by RelPath.
func Walk(cfg Config) ([]Asset, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("assets: resolve root: %w", err)
	}

	filter, err := NewFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var out []Asset
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && filter.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !filter.Match(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}

		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		out = append(out, Asset{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			Kind:        DetectKind(d.Name()),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("assets: traversal: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out, nil
}

// ErrSameFile is returned by Copy when an asset's destination is the asset
// itself.
var ErrSameFile = errors.New("destination is the source file")

// Copy writes every asset to dstDir, keeping relative paths, and calls
// onCopy (when non-nil) after each one. Nothing is copied when dstDir is the
// directory the assets were walked from.
func Copy(list []Asset, dstDir string, onCopy func(Asset)) error {
	absDst, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("assets: resolve destination: %w", err)
	}
	for _, a := range list {
		dst := filepath.Join(absDst, filepath.FromSlash(a.RelPath))
		if src, err := filepath.Abs(a.Path); err == nil && src == dst {
			return fmt.Errorf("assets: copy %s: %w", a.RelPath, ErrSameFile)
		}
	}
	for _, a := range list {
		dst := filepath.Join(absDst, filepath.FromSlash(a.RelPath))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("assets: mkdir for %s: %w", a.RelPath, err)
		}
		if err := copyFile(a.Path, dst); err != nil {
			return fmt.Errorf("assets: copy %s: %w", a.RelPath, err)
		}
		if onCopy != nil {
			onCopy(a)
		}
	}
	return nil
}

// TotalSize sums the sizes of list.
func TotalSize(list []Asset) int64 {
	var n int64
	for _, a := range list {
		n += a.Size
	}
	return n
}

// DetectKind classifies a file by extension.
func DetectKind(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".css":
		return KindStyle
	case ".js", ".mjs":
		return KindScript
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico":
		return KindImage
	case ".woff", ".woff2", ".ttf", ".otf", ".eot":
		return KindFont
	}
	return KindOther
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
