package analysis

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matchesAny reports whether slash separated rel matches one of doublestar patterns.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// prunedDir reports whether the whole directory dir is excluded by one of patterns,
// that is a pattern matches dir itself or ends with /** and its prefix matches dir.
func prunedDir(patterns []string, dir string) bool {
	for _, pattern := range patterns {
		prefix, isTree := strings.CutSuffix(pattern, "/**")
		if !isTree {
			prefix = pattern
		}
		if ok, err := doublestar.Match(prefix, dir); err == nil && ok {
			return true
		}
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// globFiles returns regular files of fsys matching doublestar pattern.
// Directories matched by exclude are not entered at all and files or directories whose
// name starts with a dot are skipped below the static part of the pattern.
// A missing base directory yields no files.
func globFiles(fsys fs.FS, pattern string, exclude []string) ([]string, error) {
	base, _ := doublestar.SplitPattern(pattern)
	if !fs.ValidPath(base) {
		return nil, fmt.Errorf("pattern '%s' is outside of the project root", pattern)
	}

	if !strings.ContainsAny(pattern, `*?[{\`) {
		info, err := fs.Stat(fsys, pattern)
		if err != nil || info.IsDir() || matchesAny(exclude, pattern) {
			return nil, nil
		}
		return []string{pattern}, nil
	}

	var out []string
	err := fs.WalkDir(fsys, base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == base {
				return walkErr
			}
			// Best-effort: unreadable entries below base are skipped.
			return nil
		}
		if p != base && hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != base && prunedDir(exclude, p) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := fs.Stat(fsys, p); err != nil || info.IsDir() {
				return nil
			}
		}
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return err
		}
		if ok && !matchesAny(exclude, p) {
			out = append(out, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return out, err
}
