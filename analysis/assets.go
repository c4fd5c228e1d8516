package analysis

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ImageAsset is one image file found under the asset directory.
// All derived forms are computed from Path on demand.
type ImageAsset struct {
	// Path is absolute path to the image.
	Path string
	// Root is absolute path to the project root.
	Root string
}

// RelPath returns slash separated path relative to project root, e.g. static/img/logo.png.
func (a ImageAsset) RelPath() string {
	rel, err := filepath.Rel(a.Root, a.Path)
	if err != nil {
		return filepath.ToSlash(a.Path)
	}
	return filepath.ToSlash(rel)
}

// SiteRootPath returns the path as embedded by content authors, e.g. /static/img/logo.png.
func (a ImageAsset) SiteRootPath() string {
	return "/static/" + strings.TrimPrefix(a.RelPath(), "static/")
}

// FileName returns base name including extension.
func (a ImageAsset) FileName() string {
	return path.Base(a.RelPath())
}

// Stem returns base name without extension.
func (a ImageAsset) Stem() string {
	name := a.FileName()
	return strings.TrimSuffix(name, path.Ext(name))
}

// ListImages returns every image under the configured asset directory, sorted by path.
// Paths matching any ignore pattern and hidden files or directories are left out.
// When the asset directory cannot be read, the returned slice is empty and the error explains why.
func ListImages(root string, cfg *Config) ([]ImageAsset, error) {
	assetRoot := filepath.Join(root, filepath.FromSlash(cfg.AssetDir))
	info, err := os.Stat(assetRoot)
	if err != nil {
		return []ImageAsset{}, fmt.Errorf("failed to access asset directory: %w", err)
	}
	if !info.IsDir() {
		return []ImageAsset{}, fmt.Errorf("asset path '%s' is not a directory", assetRoot)
	}

	matches, err := globFiles(os.DirFS(assetRoot), cfg.imagePattern(), cfg.Ignore)
	if err != nil {
		return []ImageAsset{}, fmt.Errorf("failed to list images: %w", err)
	}
	slices.Sort(matches)

	images := make([]ImageAsset, 0, len(matches))
	for _, rel := range matches {
		images = append(images, ImageAsset{
			Path: filepath.Join(assetRoot, filepath.FromSlash(rel)),
			Root: root,
		})
	}
	return images, nil
}
