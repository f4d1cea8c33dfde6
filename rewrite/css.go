package rewrite

import (
	"net/url"
	"regexp"
	"strings"
)

var cssURLTokenRe = regexp.MustCompile(`(?i)url\(\s*(['"]?)([^'")]*)['"]?\s*\)`)

// RewriteCSS rewrites the url() tokens of one captured stylesheet. Each
// token is resolved against the original page's base URL, looked up in
// the remote→local mapping, and rewritten relative to cssDir — the
// stylesheet's own directory, not the HTML's. Data URIs are left alone.
// Absolute http(s) URLs are rewritten only when they appear in the
// mapping; unmapped ones stay untouched. Corrupted tokens are repaired
// before rewriting so a recovered URL still gets mapped.
func (r *Rewriter) RewriteCSS(css, cssDir string) string {
	css = Repair(css)
	return cssURLTokenRe.ReplaceAllStringFunc(css, func(token string) string {
		m := cssURLTokenRe.FindStringSubmatch(token)
		quote := m[1]
		ref := strings.TrimSpace(m[2])

		if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "#") {
			return token
		}

		var absolute string
		switch {
		case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
			absolute = ref
		case strings.HasPrefix(ref, "//"):
			absolute = r.base.Scheme + ":" + ref
		case strings.HasPrefix(ref, "/"), strings.HasPrefix(ref, "./"), strings.HasPrefix(ref, "../"):
			parsed, err := url.Parse(ref)
			if err != nil {
				return token
			}
			absolute = r.base.ResolveReference(parsed).String()
		default:
			return token
		}

		local, ok := r.mapping[absolute]
		if !ok {
			return token
		}
		rel := relativeTo(cssDir, local)
		if rel == "" {
			return token
		}
		return "url(" + quote + rel + quote + ")"
	})
}
