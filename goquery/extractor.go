// Package goquery provides HTML parsing implementations for siteclone
// services, built on PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/water102/siteclone"
)

// Skip reasons recorded for rejected references.
const (
	ReasonDataURL  = "base64 data URL"
	ReasonExternal = "external/cdn"
)

// cdnDenylist rejects references hosted on CDNs, social networks and
// hosting platforms even when extension matching would be ambiguous.
var cdnDenylist = []string{
	"cdn.", "cloudfront.net", "cloudflare", "akamai", "fastly",
	"jsdelivr", "unpkg", "cdnjs", "googleapis", "gstatic",
	"typekit", "bootstrapcdn", "jquery", "facebook.com", "twitter.com",
	"doubleclick.net", "google-analytics.com", "googletagmanager.com",
	"youtube.com", "vimeo.com", "github.io", "amazonaws.com",
}

// staticExtensionTypes gates the catch-all url() scan: only references
// with one of these extensions are treated as static resources.
var staticExtensionTypes = map[string]string{
	"css":   "css",
	"js":    "js",
	"mjs":   "js",
	"png":   "image",
	"jpg":   "image",
	"jpeg":  "image",
	"gif":   "image",
	"svg":   "image",
	"webp":  "image",
	"ico":   "image",
	"woff":  "font",
	"woff2": "font",
	"ttf":   "font",
	"eot":   "font",
	"otf":   "font",
	"map":   "resource",
	"json":  "resource",
	"txt":   "resource",
}

var (
	backgroundImageRe = regexp.MustCompile(`(?i)background-image\s*:\s*url\(\s*['"]?([^'")]+)['"]?\s*\)`)
	backgroundRe      = regexp.MustCompile(`(?i)background\s*:[^;{}]*?url\(\s*['"]?([^'")]+)['"]?\s*\)`)
	urlTokenRe        = regexp.MustCompile(`(?i)url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// Ensure Extractor implements siteclone.ReferenceExtractor at compile time.
var _ siteclone.ReferenceExtractor = (*Extractor)(nil)

// Extractor enumerates same-origin static resource references in HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans the document for stylesheet links, scripts, images, CSS
// backgrounds, generic url() tokens and favicons. References are resolved
// against baseURL, then partitioned into accepted and skipped lists.
// Duplicates across scan rules are preserved.
func (e *Extractor) Extract(html, baseURL string) (*siteclone.ExtractResult, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, siteclone.Errorf(siteclone.EINVALID, "invalid base URL: %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteclone.Errorf(siteclone.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &siteclone.ExtractResult{}
	add := func(raw, typ string) {
		e.addReference(result, base, raw, typ)
	}

	doc.Find("link[rel='stylesheet']").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			add(href, "css")
		}
	})

	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			add(src, "js")
		}
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			add(src, "image")
		}
	})

	for _, m := range backgroundImageRe.FindAllStringSubmatch(html, -1) {
		add(strings.TrimSpace(m[1]), "image")
	}

	for _, m := range backgroundRe.FindAllStringSubmatch(html, -1) {
		add(strings.TrimSpace(m[1]), "image")
	}

	// Catch-all url() scan, gated by the static extension allowlist.
	for _, m := range urlTokenRe.FindAllStringSubmatch(html, -1) {
		raw := strings.TrimSpace(m[1])
		if strings.HasPrefix(raw, "data:") {
			result.SkippedFiles = append(result.SkippedFiles, siteclone.SkippedReference{
				URL:    raw,
				Type:   "resource",
				Reason: ReasonDataURL,
			})
			continue
		}
		typ, ok := staticExtensionTypes[referenceExtension(raw)]
		if !ok {
			continue
		}
		add(raw, typ)
	}

	doc.Find("link[rel='icon'], link[rel='shortcut icon']").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			add(href, "image")
		}
	})

	return result, nil
}

// addReference resolves raw against base and appends it to the accepted
// or skipped list. Data URIs and cross-origin/CDN hosts are skipped with
// a recorded reason, never silently dropped.
func (e *Extractor) addReference(result *siteclone.ExtractResult, base *url.URL, raw, typ string) {
	if strings.HasPrefix(raw, "data:") {
		result.SkippedFiles = append(result.SkippedFiles, siteclone.SkippedReference{
			URL:    raw,
			Type:   typ,
			Reason: ReasonDataURL,
		})
		return
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return
	}

	if resolved.Hostname() != base.Hostname() || isDenylistedHost(resolved.Hostname()) {
		result.SkippedFiles = append(result.SkippedFiles, siteclone.SkippedReference{
			URL:    resolved.String(),
			Type:   typ,
			Reason: ReasonExternal,
		})
		return
	}

	result.StaticFiles = append(result.StaticFiles, siteclone.StaticReference{
		URL:  resolved.String(),
		Type: typ,
	})
}

func isDenylistedHost(host string) bool {
	host = strings.ToLower(host)
	for _, deny := range cdnDenylist {
		if strings.Contains(host, deny) {
			return true
		}
	}
	return false
}

// referenceExtension returns the lowercase extension of the reference's
// final path segment, ignoring query and fragment.
func referenceExtension(raw string) string {
	if idx := strings.IndexAny(raw, "?#"); idx != -1 {
		raw = raw[:idx]
	}
	if idx := strings.LastIndex(raw, "/"); idx != -1 {
		raw = raw[idx+1:]
	}
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return ""
	}
	return strings.ToLower(raw[idx+1:])
}
