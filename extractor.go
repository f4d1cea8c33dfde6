package siteclone

// StaticReference is one same-origin static resource discovered in a page.
type StaticReference struct {
	URL  string `json:"url"`
	Type string `json:"type"` // image, css, js, font, resource
}

// SkippedReference is a discovered reference that was rejected, with the
// reason recorded so skip counts stay explainable.
type SkippedReference struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Reason string `json:"reason"` // "base64 data URL" or "external/cdn"
}

// ExtractResult holds the two ordered reference lists for one document.
// Duplicate URLs across scan rules are not deduplicated here; the
// persistence layer performs the actual dedup via its existence check.
type ExtractResult struct {
	StaticFiles  []StaticReference  `json:"staticFiles"`
	SkippedFiles []SkippedReference `json:"skippedFiles"`
}

// ReferenceExtractor enumerates static resource references in raw HTML.
type ReferenceExtractor interface {
	// Extract resolves every discovered reference against baseURL and
	// partitions them into accepted and skipped lists. Data URIs and
	// cross-origin/CDN references are always skipped.
	Extract(html, baseURL string) (*ExtractResult, error)
}
