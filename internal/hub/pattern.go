package hub

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Filter selects repository files by shell-style patterns. Like fnmatch, a
// '*' also matches '/', so "*.json" selects nested json files too.
type Filter struct {
	globs []glob.Glob
}

func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, "invalid pattern ["+pattern+"]")
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Match reports whether path matches any pattern. A filter without patterns
// matches everything.
func (f *Filter) Match(path string) bool {
	if len(f.globs) == 0 {
		return true
	}
	for _, g := range f.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (f *Filter) Apply(siblings []Sibling) []Sibling {
	selected := make([]Sibling, 0, len(siblings))
	for _, s := range siblings {
		if f.Match(s.Path) {
			selected = append(selected, s)
		}
	}
	return selected
}
