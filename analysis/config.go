package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when configuration cannot be used for analysis.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config describes where images live and which files may reference them.
	// All paths are relative to the project root passed to the Runner.
	Config struct {
		// AssetDir is the static asset directory scanned for images.
		AssetDir string `yaml:"assetDir"`
		// ImageExtensions are extensions (without dot) treated as images.
		ImageExtensions []string `yaml:"imageExtensions"`
		// Ignore contains doublestar patterns, relative to AssetDir, excluded from enumeration.
		Ignore []string `yaml:"ignore"`
		// References lists content roots which may mention an image path.
		References []ReferenceRoot `yaml:"references"`
		// Exclude contains doublestar patterns, relative to project root, pruned from the reference corpus.
		Exclude []string `yaml:"exclude"`
		// Strategies names the match strategies evaluated for every image.
		Strategies []string `yaml:"strategies"`
	}

	// ReferenceRoot is one (root-pattern, extension-set) pair of the reference corpus.
	// Without extensions, Root is used as a literal file path or glob.
	ReferenceRoot struct {
		Root       string   `yaml:"root"`
		Extensions []string `yaml:"extensions"`
	}
)

var (
	markupExtensions = []string{"md", "mdx"}
	sourceExtensions = []string{"js", "jsx", "ts", "tsx", "html", "css"}
)

// DefaultConfig returns configuration matching a Docusaurus documentation site.
func DefaultConfig() *Config {
	return &Config{
		AssetDir:        "static",
		ImageExtensions: []string{"png", "jpg", "jpeg", "gif", "svg"},
		Ignore:          []string{"fonts/**"},
		References: []ReferenceRoot{
			{Root: "docs", Extensions: markupExtensions},
			{Root: "blog", Extensions: markupExtensions},
			{Root: "snippets", Extensions: markupExtensions},
			{Root: "src", Extensions: sourceExtensions},
			{Root: ".", Extensions: []string{"yml"}},
			{Root: "src/pages", Extensions: sourceExtensions},
			{Root: "src/components", Extensions: sourceExtensions},
			{Root: "docusaurus.config.js"},
		},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			".git/**",
			".docusaurus/**",
			"build/**",
		},
		Strategies: strategyNames(AllStrategies),
	}
}

// LoadConfig reads YAML configuration from file. Keys missing in the file keep their default values.
func LoadConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config '%s': %w", file, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every pattern compiles and every strategy is known.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AssetDir) == "" {
		return fmt.Errorf("%w: assetDir is empty", ErrInvalidConfig)
	}
	if len(c.ImageExtensions) == 0 {
		return fmt.Errorf("%w: no image extensions", ErrInvalidConfig)
	}
	if len(c.References) == 0 {
		return fmt.Errorf("%w: no reference roots", ErrInvalidConfig)
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: malformed ignore pattern '%s'", ErrInvalidConfig, p)
		}
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: malformed exclude pattern '%s'", ErrInvalidConfig, p)
		}
	}
	for _, ref := range c.References {
		if strings.TrimSpace(ref.Root) == "" {
			return fmt.Errorf("%w: reference root is empty", ErrInvalidConfig)
		}
		if filepath.IsAbs(ref.Root) || !fs.ValidPath(path.Clean(filepath.ToSlash(ref.Root))) {
			return fmt.Errorf("%w: reference root '%s' is outside of the project root", ErrInvalidConfig, ref.Root)
		}
		if !doublestar.ValidatePattern(ref.Pattern()) {
			return fmt.Errorf("%w: malformed reference root '%s'", ErrInvalidConfig, ref.Root)
		}
	}
	if _, err := c.strategies(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) strategies() ([]Strategy, error) {
	if len(c.Strategies) == 0 {
		return AllStrategies, nil
	}
	out := make([]Strategy, 0, len(c.Strategies))
	for _, name := range c.Strategies {
		s, err := ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// imagePattern returns glob matching every image under AssetDir.
func (c *Config) imagePattern() string {
	return "**/*." + braces(c.ImageExtensions)
}

// Pattern renders the reference root as a doublestar pattern relative to project root.
func (r ReferenceRoot) Pattern() string {
	root := strings.TrimSuffix(path.Clean(filepath.ToSlash(r.Root)), "/")
	if len(r.Extensions) == 0 {
		return root
	}
	files := "**/*." + braces(r.Extensions)
	if root == "." {
		return files
	}
	return root + "/" + files
}

func braces(extensions []string) string {
	trimmed := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		trimmed = append(trimmed, strings.TrimPrefix(ext, "."))
	}
	if len(trimmed) == 1 {
		return trimmed[0]
	}
	return "{" + strings.Join(trimmed, ",") + "}"
}
