package siteclone

// ClassificationType is the outcome of classifying a URL.
type ClassificationType string

// Classification outcomes.
const (
	ClassAPIRequest ClassificationType = "api_request"
	ClassStaticFile ClassificationType = "static_file"
	ClassUnknown    ClassificationType = "unknown"
)

// Classification is the result of scoring a URL+method as an API call or
// a static asset. Confidence is the sum of triggered signal weights; it
// is an unbounded accumulator, not normalized to [0,1]. Ephemeral: never
// persisted as its own entity.
type Classification struct {
	Type       ClassificationType `json:"type"`
	Confidence float64            `json:"confidence"`
	Reasons    []string           `json:"reasons,omitempty"`

	// FileType, Extension and MIMEType are populated for static files
	// with a recognized extension.
	FileType  string `json:"fileType,omitempty"`
	Extension string `json:"extension,omitempty"`
	MIMEType  string `json:"mimeType,omitempty"`
}

// Classifier scores URLs. Implementations never return an error for
// ambiguous or malformed input; a malformed URL classifies as unknown
// with zero confidence.
type Classifier interface {
	// Classify scores the URL for the given HTTP method. An empty
	// method defaults to GET.
	Classify(rawURL, method string) Classification

	// ClearCache discards any memoized results.
	ClearCache()
}
