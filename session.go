package siteclone

import "context"

// Cookie is a browser cookie injected into the capture page before
// navigation begins. The shape mirrors what session-export tools produce:
// a leading dot on Domain is tolerated (and stripped before application),
// SameSite accepts free-form values that are normalized to one of
// Strict/Lax/None, and ExpirationDate is fractional epoch seconds.
type Cookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	HTTPOnly       bool    `json:"httpOnly"`
	Secure         bool    `json:"secure"`
	SameSite       string  `json:"sameSite"`
	ExpirationDate float64 `json:"expirationDate,omitempty"`
}

// NetworkHint is a resource observed during a prior passive-observation
// phase. Hints seed the session's duplicate filter and, when present,
// provide a denominator for true percentage progress.
type NetworkHint struct {
	URL          string `json:"url"`
	Method       string `json:"method"`
	ResourceType string `json:"resourceType"`
}

// CaptureRequest describes one clone run.
type CaptureRequest struct {
	// URL is the page to capture. Required unless HTMLOnly is set.
	URL string `json:"url"`

	// OutputDir is the root of the on-disk clone layout.
	OutputDir string `json:"outputDir"`

	// Filename names the final HTML file inside the asset tree.
	// Defaults to "index.html".
	Filename string `json:"filename"`

	// Cookies are applied to the browsing context before navigation.
	Cookies []Cookie `json:"cookies,omitempty"`

	// NetworkHints optionally seed the session with resources captured
	// during a prior passive observation phase.
	NetworkHints []NetworkHint `json:"networkData,omitempty"`

	// HTMLOnly bypasses the browser entirely and writes HTML verbatim
	// to OutputDir/Filename.
	HTMLOnly bool   `json:"htmlOnly,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *CaptureRequest) Validate() error {
	if r.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if r.HTMLOnly {
		if r.HTML == "" && r.URL == "" {
			return Errorf(EINVALID, "html content or target URL required for html-only capture")
		}
		return nil
	}
	if r.URL == "" {
		return Errorf(EINVALID, "target URL required")
	}
	return nil
}

// CaptureResult is returned on successful completion of a clone run.
type CaptureResult struct {
	SavedFullPath     string `json:"savedFullPath"`
	SavedRelativePath string `json:"savedRelativePath"`

	Processed  int `json:"processed"`
	Downloaded int `json:"downloaded"`
	Skipped    int `json:"skipped"`
	APICount   int `json:"apiCount"`
	FrameCount int `json:"frameCount"`
}

// ProgressType indicates the type of a progress event.
type ProgressType int

const (
	ProgressCookiesApplied ProgressType = iota
	ProgressAPICaptured
	ProgressResourceSkipped
	ProgressResourceSaved
	ProgressFinished
)

// Progress is a self-contained snapshot of the session's running counters.
// An observer that misses intermediate emissions can reconstruct current
// state from the latest one.
type Progress struct {
	Total               int     `json:"total"`
	Processed           int     `json:"processed"`
	Downloaded          int     `json:"downloaded"`
	Skipped             int     `json:"skipped"`
	Percentage          float64 `json:"percentage"`
	CurrentFile         string  `json:"currentFile,omitempty"`
	CurrentFileProgress float64 `json:"currentFileProgress,omitempty"`
}

// ProgressEvent is emitted for every capture-related occurrence.
type ProgressEvent struct {
	Type ProgressType

	// URL is the remote URL the event refers to, when applicable.
	URL string

	// LocalPath is the chosen local path for saved resources.
	LocalPath string

	// Status is "downloaded" or "skipped" for resource events.
	Status string

	// Reason explains skips ("base64 data URL", "already exists", ...).
	Reason string

	// CookiesApplied carries the cookie count for ProgressCookiesApplied.
	CookiesApplied int

	// Progress is the running snapshot at the time of emission.
	Progress Progress
}

// ProgressFunc is called as capture events occur.
type ProgressFunc func(ProgressEvent)

// Cloner runs complete clone sessions.
type Cloner interface {
	// Clone captures the target page and persists the clone under the
	// request's output directory. The progress callback, if non-nil,
	// receives events as the capture proceeds. Navigation failure is
	// fatal and returned as an error; per-resource failures are skipped
	// and reported through progress events only.
	Clone(ctx context.Context, req *CaptureRequest, progress ProgressFunc) (*CaptureResult, error)
}

// Driver owns the browser side of a capture: it navigates one isolated
// page to the request URL with cookies applied, feeds every observed
// network exchange into the sink while navigation settles, and returns
// the final rendered HTML.
type Driver interface {
	Capture(ctx context.Context, req *CaptureRequest, sink ResponseSink) (html string, err error)

	// Close releases browser resources.
	Close() error
}

// ResponseSink consumes network exchanges observed during navigation.
// Implementations must tolerate arbitrary interleaving: response events
// are not guaranteed to arrive in request order, and the same URL may
// arrive more than once.
type ResponseSink interface {
	CookiesApplied(n int)
	HandleResponse(res *CapturedResponse)
	HandleFrame(frame *WebSocketFrame)
}
