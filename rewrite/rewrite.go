// Package rewrite post-processes captured artifacts: it replaces remote
// URLs in the final HTML and in captured stylesheets with relative paths
// into the local asset tree, using the session's remote→local mapping.
package rewrite

import (
	"net/url"
	"path/filepath"
	"sort"

	"github.com/water102/siteclone"
)

// Rewriter rewrites one session's artifacts against its mapping table.
type Rewriter struct {
	base    *url.URL
	mapping map[string]string // remote URL → absolute local path
}

// New creates a Rewriter for a page captured from baseURL.
func New(baseURL string, mapping map[string]string) (*Rewriter, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, siteclone.Errorf(siteclone.EINVALID, "invalid base URL: %q", baseURL)
	}
	return &Rewriter{base: base, mapping: mapping}, nil
}

// remotesByLength returns mapping keys longest-first so a URL that is a
// prefix of another never clobbers the longer one mid-substitution.
func (r *Rewriter) remotesByLength() []string {
	keys := make([]string, 0, len(r.mapping))
	for k := range r.mapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// relativeTo returns the slash-separated path of localPath relative to
// dir, or "" if no relative path exists.
func relativeTo(dir, localPath string) string {
	rel, err := filepath.Rel(dir, localPath)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}
