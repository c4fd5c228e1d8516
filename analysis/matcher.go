package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type (
	// Matcher decides whether an image is mentioned by any reference file.
	// Unreadable reference files are skipped and reported once to errWriter.
	Matcher struct {
		errWriter  io.Writer
		strategies []Strategy

		// ReadFile loads content of a reference file, os.ReadFile by default.
		ReadFile func(name string) ([]byte, error)

		mu       sync.Mutex
		cache    map[string][]byte
		skipped  map[string]struct{}
		useCache bool
	}

	// Usage describes the first reference file found to mention an image.
	Usage struct {
		File       string
		Strategies []Strategy
	}
)

// NewMatcher creates matcher evaluating given strategies. Empty strategies means all of them.
func NewMatcher(errWriter io.Writer, strategies []Strategy) *Matcher {
	if len(strategies) == 0 {
		strategies = AllStrategies
	}
	return &Matcher{
		errWriter:  errWriter,
		strategies: strategies,
		ReadFile:   os.ReadFile,
		cache:      make(map[string][]byte),
		skipped:    make(map[string]struct{}),
	}
}

// EnableCache keeps reference file contents in memory, so each file is read only once per run.
func (m *Matcher) EnableCache() {
	m.useCache = true
}

// Used reports whether asset is referenced in any of files. Scanning stops on the first match.
func (m *Matcher) Used(ctx context.Context, asset ImageAsset, files []string) (bool, error) {
	mp, err := NewMatchPattern(asset, m.strategies)
	if err != nil {
		return false, err
	}
	file, _, err := m.firstMatch(ctx, mp, files)
	if err != nil {
		return false, err
	}
	return file != "", nil
}

// Explain returns the first reference file mentioning asset together with every strategy
// that matched in it. It returns nil when the asset is not used.
func (m *Matcher) Explain(ctx context.Context, asset ImageAsset, files []string) (*Usage, error) {
	mp, err := NewMatchPattern(asset, m.strategies)
	if err != nil {
		return nil, err
	}
	file, content, err := m.firstMatch(ctx, mp, files)
	if err != nil || file == "" {
		return nil, err
	}
	return &Usage{File: file, Strategies: mp.Strategies(content)}, nil
}

func (m *Matcher) firstMatch(ctx context.Context, mp *MatchPattern, files []string) (string, []byte, error) {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		content, ok := m.read(file)
		if !ok {
			continue
		}
		if mp.Match(content) {
			return file, content, nil
		}
	}
	return "", nil, nil
}

func (m *Matcher) read(file string) ([]byte, bool) {
	if m.useCache {
		m.mu.Lock()
		content, found := m.cache[file]
		m.mu.Unlock()
		if found {
			return content, true
		}
	}

	content, err := m.ReadFile(file)
	if err != nil {
		m.skip(file, err)
		return nil, false
	}

	if m.useCache {
		m.mu.Lock()
		m.cache[file] = content
		m.mu.Unlock()
	}
	return content, true
}

func (m *Matcher) skip(file string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, reported := m.skipped[file]; reported {
		return
	}
	m.skipped[file] = struct{}{}
	fmt.Fprintf(m.errWriter, "Skipping unreadable reference file %s: %s\n", file, strings.TrimSpace(err.Error()))
}

// Skipped returns number of distinct reference files which could not be read.
func (m *Matcher) Skipped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.skipped)
}
