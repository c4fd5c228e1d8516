package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

type (
	// Corpus is the set of files which may textually mention an image path.
	Corpus struct {
		// Files are absolute paths, deduplicated, in pattern order.
		Files []string
		// Patterns holds how many files every reference root matched, before deduplication.
		Patterns []PatternCount
	}

	// PatternCount is the number of files matched by one reference root.
	PatternCount struct {
		Pattern string
		Files   int
	}
)

// ListReferences collects all files matched by configured reference roots.
// A root matching nothing is not an error; neither is a missing project root.
// Excluded and hidden directories are not walked.
func ListReferences(root string, cfg *Config) (*Corpus, error) {
	fsys := os.DirFS(root)
	corpus := &Corpus{
		Files:    make([]string, 0),
		Patterns: make([]PatternCount, 0, len(cfg.References)),
	}
	seen := make(map[string]struct{})

	for _, ref := range cfg.References {
		pattern := ref.Pattern()
		matches, err := globFiles(fsys, pattern, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("failed to list reference files: %w", err)
		}
		slices.Sort(matches)

		count := 0
		for _, rel := range matches {
			count++
			if _, found := seen[rel]; found {
				continue
			}
			seen[rel] = struct{}{}
			corpus.Files = append(corpus.Files, filepath.Join(root, filepath.FromSlash(rel)))
		}
		corpus.Patterns = append(corpus.Patterns, PatternCount{Pattern: pattern, Files: count})
	}
	return corpus, nil
}
