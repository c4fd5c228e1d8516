package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy is one textual form an image path may take inside a reference file.
type Strategy uint8

const (
	// ExactPath matches the path relative to project root, e.g. static/img/logo.png.
	ExactPath Strategy = iota + 1
	// SiteRootPath matches the path as served from site root, e.g. /static/img/logo.png.
	SiteRootPath
	// FileName matches the file name with extension anywhere in the content.
	FileName
	// Stem matches the file name without extension anywhere in the content.
	Stem
	// CSSURL matches the relative path inside url(...), with optional quotes.
	CSSURL
	// MarkupAttr matches the relative path as value of a src= attribute, with optional quotes.
	MarkupAttr
	// IconAttr matches the stem as value of an icon= attribute, with optional quotes.
	IconAttr
)

// AllStrategies lists every strategy in evaluation order.
var AllStrategies = []Strategy{ExactPath, SiteRootPath, FileName, Stem, CSSURL, MarkupAttr, IconAttr}

var strategyLabels = map[Strategy]string{
	ExactPath:    "ExactPath",
	SiteRootPath: "SiteRootPath",
	FileName:     "FileName",
	Stem:         "Stem",
	CSSURL:       "CssUrl",
	MarkupAttr:   "MarkupAttr",
	IconAttr:     "IconAttr",
}

func (s Strategy) String() string {
	if label, ok := strategyLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// ParseStrategy converts a strategy name (case-insensitive) back to Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for s, label := range strategyLabels {
		if strings.EqualFold(label, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy '%s'", name)
}

func strategyNames(strategies []Strategy) []string {
	out := make([]string, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, s.String())
	}
	return out
}

// Fragment renders the regular expression source of the strategy for asset.
func (s Strategy) Fragment(asset ImageAsset) string {
	rel := regexp.QuoteMeta(asset.RelPath())
	switch s {
	case ExactPath:
		return rel
	case SiteRootPath:
		return regexp.QuoteMeta(asset.SiteRootPath())
	case FileName:
		return regexp.QuoteMeta(asset.FileName())
	case Stem:
		return regexp.QuoteMeta(asset.Stem())
	case CSSURL:
		return `url\(['"]?` + rel + `['"]?\)`
	case MarkupAttr:
		return `src=['"]?` + rel + `['"]?`
	case IconAttr:
		return `icon=['"]?` + regexp.QuoteMeta(asset.Stem()) + `['"]?`
	}
	return ""
}

type (
	// MatchPattern is the set of fragments derived from one image.
	// Any single fragment found in a reference file marks the image as used.
	MatchPattern struct {
		asset     ImageAsset
		fragments []compiledFragment
		combined  *regexp.Regexp
	}

	compiledFragment struct {
		strategy Strategy
		re       *regexp.Regexp
	}
)

// NewMatchPattern compiles fragments for asset using given strategies.
func NewMatchPattern(asset ImageAsset, strategies []Strategy) (*MatchPattern, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies for %s", asset.Path)
	}
	mp := &MatchPattern{
		asset:     asset,
		fragments: make([]compiledFragment, 0, len(strategies)),
	}
	sources := make([]string, 0, len(strategies))
	for _, s := range strategies {
		src := s.Fragment(asset)
		if src == "" {
			return nil, fmt.Errorf("unknown strategy %s", s)
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s fragment for %s: %w", s, asset.Path, err)
		}
		mp.fragments = append(mp.fragments, compiledFragment{strategy: s, re: re})
		sources = append(sources, src)
	}

	combined, err := regexp.Compile(strings.Join(sources, "|"))
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern for %s: %w", asset.Path, err)
	}
	mp.combined = combined
	return mp, nil
}

// Asset returns image the pattern was derived from.
func (mp *MatchPattern) Asset() ImageAsset {
	return mp.asset
}

// Match reports whether any fragment occurs in content.
func (mp *MatchPattern) Match(content []byte) bool {
	return mp.combined.Match(content)
}

// Strategies evaluates every fragment independently and returns those found in content.
func (mp *MatchPattern) Strategies(content []byte) []Strategy {
	var found []Strategy
	for _, f := range mp.fragments {
		if f.re.Match(content) {
			found = append(found, f.strategy)
		}
	}
	return found
}

// String returns the combined alternation.
func (mp *MatchPattern) String() string {
	return mp.combined.String()
}
