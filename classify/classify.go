// Package classify provides heuristic URL classification. It scores a
// URL+method pair as more likely an API call or a static asset by
// accumulating independent positive signal weights on each side; the
// higher accumulated score wins.
package classify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/water102/siteclone"
)

// Signal weights. Each side accumulates independently; scores are
// unbounded and never normalized.
const (
	weightAPIPathSegment = 0.8
	weightMutatingMethod = 0.6
	weightQueryParams    = 0.3
	weightJSONFormat     = 0.7
	weightTrailingID     = 0.5
	weightTemplateMarker = 0.4
	weightKnownExtension = 0.9
	weightAssetDirectory = 0.7
	weightCDNHostname    = 0.8
	weightVersionedPath  = 0.6
	weightMinifiedBundle = 0.5
)

// apiPathSegments are path fragments that suggest an API endpoint.
// Matched against the path with a trailing slash appended so terminal
// segments ("/login") count too.
var apiPathSegments = []string{
	"/api/", "/rest/", "/graphql/", "/rpc/", "/service/", "/endpoint/",
	"/controller/", "/handler/", "/auth/", "/login/", "/logout/",
	"/register/", "/user/", "/users/", "/admin/", "/dashboard/",
	"/data/", "/query/", "/search/", "/filter/", "/upload/",
	"/download/", "/export/", "/import/",
}

// assetDirectories are path fragments that suggest a static asset tree.
var assetDirectories = []string{"/assets/", "/static/", "/public/", "/resources/"}

// cdnHostnames are hostname substrings of known CDN and font providers.
var cdnHostnames = []string{
	"cdn.", "cloudfront.net", "cloudflare", "akamai", "fastly",
	"jsdelivr", "unpkg", "cdnjs", "googleapis", "gstatic",
	"typekit", "bootstrapcdn", "jquery",
}

var (
	apiVersionRe  = regexp.MustCompile(`/v[1-5]/`)
	trailingIDRe  = regexp.MustCompile(`/(?:\d+|[0-9a-fA-F]{8,})$`)
	versionPathRe = regexp.MustCompile(`/(?:v\d+|version|\d+\.\d+(?:\.\d+)?)/`)
)

// extensionTypes maps recognized file extensions to coarse file types.
var extensionTypes = map[string]string{
	"html": "html", "htm": "html",
	"css":  "css",
	"js":   "javascript", "mjs": "javascript",
	"json": "json",
	"png":  "image", "jpg": "image", "jpeg": "image",
	"gif":  "image", "svg": "image", "webp": "image",
	"woff": "font", "woff2": "font", "ttf": "font", "eot": "font",
	"pdf":  "document",
	"txt":  "text",
	"csv":  "data",
}

// mimeTypes maps recognized extensions to MIME types.
var mimeTypes = map[string]string{
	"html": "text/html", "htm": "text/html",
	"css":  "text/css",
	"js":   "application/javascript", "mjs": "application/javascript",
	"json": "application/json",
	"png":  "image/png", "jpg": "image/jpeg", "jpeg": "image/jpeg",
	"gif":  "image/gif", "svg": "image/svg+xml", "webp": "image/webp",
	"woff": "font/woff", "woff2": "font/woff2", "ttf": "font/ttf",
	"eot":  "application/vnd.ms-fontobject",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"csv":  "text/csv",
}

// Ensure Classifier implements siteclone.Classifier at compile time.
var _ siteclone.Classifier = (*Classifier)(nil)

// Classifier scores URLs with memoization per (method, url) pair.
// It is safe for concurrent use.
type Classifier struct {
	mu    sync.Mutex
	cache map[string]siteclone.Classification
}

// New creates a new Classifier.
func New() *Classifier {
	return &Classifier{
		cache: make(map[string]siteclone.Classification),
	}
}

// Classify scores the URL for the given HTTP method. An empty method
// defaults to GET. Malformed URLs classify as unknown with zero
// confidence; Classify never fails.
func (c *Classifier) Classify(rawURL, method string) siteclone.Classification {
	if method == "" {
		method = "GET"
	}
	method = strings.ToUpper(method)
	key := method + " " + rawURL

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	result := classify(rawURL, method)

	c.mu.Lock()
	c.cache[key] = result
	c.mu.Unlock()

	return result
}

// ClearCache discards all memoized results.
func (c *Classifier) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string]siteclone.Classification)
	c.mu.Unlock()
}

func classify(rawURL, method string) siteclone.Classification {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return siteclone.Classification{
			Type:    siteclone.ClassUnknown,
			Reasons: []string{"Invalid URL format"},
		}
	}

	path := strings.ToLower(u.Path)
	host := strings.ToLower(u.Hostname())
	ext := pathExtension(path)

	var apiScore, staticScore float64
	var reasons []string

	// API signals. Pad with a trailing slash so terminal segments match.
	padded := path + "/"
	for _, seg := range apiPathSegments {
		if n := strings.Count(padded, seg); n > 0 {
			apiScore += weightAPIPathSegment * float64(n)
			reasons = append(reasons, fmt.Sprintf("API path segment %q", seg))
		}
	}
	if n := len(apiVersionRe.FindAllString(padded, -1)); n > 0 {
		apiScore += weightAPIPathSegment * float64(n)
		reasons = append(reasons, "API version segment")
	}
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		apiScore += weightMutatingMethod
		reasons = append(reasons, "mutating HTTP method "+method)
	}
	if u.RawQuery != "" {
		apiScore += weightQueryParams
		reasons = append(reasons, "query parameters present")
	}
	if strings.Contains(path, ".json") || strings.Contains(strings.ToLower(u.RawQuery), "format=json") {
		apiScore += weightJSONFormat
		reasons = append(reasons, "JSON format indicator")
	}
	if trailingIDRe.MatchString(strings.TrimSuffix(path, "/")) {
		apiScore += weightTrailingID
		reasons = append(reasons, "trailing ID segment")
	}
	if strings.ContainsAny(path, "{[*") {
		apiScore += weightTemplateMarker
		reasons = append(reasons, "templating marker in path")
	}

	// Static-file signals.
	if _, ok := extensionTypes[ext]; ok {
		staticScore += weightKnownExtension
		reasons = append(reasons, "recognized file extension ."+ext)
	}
	for _, dir := range assetDirectories {
		if strings.Contains(path, dir) {
			staticScore += weightAssetDirectory
			reasons = append(reasons, fmt.Sprintf("asset directory %q", dir))
		}
	}
	for _, cdn := range cdnHostnames {
		if strings.Contains(host, cdn) {
			staticScore += weightCDNHostname
			reasons = append(reasons, "CDN hostname match "+cdn)
			break
		}
	}
	// A versioned segment only counts toward the static side when the
	// path carries a recognized extension; bare /vN/ segments are far
	// more often API version prefixes.
	if _, ok := extensionTypes[ext]; ok && versionPathRe.MatchString(padded) {
		staticScore += weightVersionedPath
		reasons = append(reasons, "versioned path segment")
	}
	if strings.Contains(path, ".min.") || strings.Contains(path, ".bundle.") {
		staticScore += weightMinifiedBundle
		reasons = append(reasons, "minified/bundled filename")
	}

	result := siteclone.Classification{Reasons: reasons}
	switch {
	case apiScore > staticScore:
		result.Type = siteclone.ClassAPIRequest
		result.Confidence = apiScore
	case staticScore > apiScore:
		result.Type = siteclone.ClassStaticFile
		result.Confidence = staticScore
		if ft, ok := extensionTypes[ext]; ok {
			result.FileType = ft
			result.Extension = ext
			result.MIMEType = mimeTypes[ext]
		} else {
			result.FileType = "unknown"
		}
	default:
		result.Type = siteclone.ClassUnknown
	}
	return result
}

// pathExtension returns the lowercase extension of the final path
// segment, without the dot, or "" if there is none.
func pathExtension(path string) string {
	seg := path
	if idx := strings.LastIndex(seg, "/"); idx != -1 {
		seg = seg[idx+1:]
	}
	idx := strings.LastIndex(seg, ".")
	if idx == -1 || idx == len(seg)-1 {
		return ""
	}
	return seg[idx+1:]
}
