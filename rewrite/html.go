package rewrite

import "strings"

// RewriteHTML replaces every occurrence of a mapped remote URL in the
// document with the path of its local file relative to htmlDir, the
// directory that will contain the final HTML file.
//
// Corrupted url() tokens are repaired first so that any URL recovered
// from context is itself rewritten by the substitution pass. Searching
// by original remote URL cannot collide with already-substituted text:
// replacement values are relative paths, never absolute URLs.
func (r *Rewriter) RewriteHTML(html, htmlDir string) string {
	out := Repair(html)
	for _, remote := range r.remotesByLength() {
		rel := relativeTo(htmlDir, r.mapping[remote])
		if rel == "" {
			continue
		}
		out = strings.ReplaceAll(out, remote, rel)
	}
	return out
}
