// Package capture provides the clone pipeline: it routes intercepted
// network responses to the asset tree or the API log, tracks duplicate
// suppression and progress, and runs the post-capture rewrite pass.
package capture

import (
	"strings"
	"sync"

	"github.com/water102/siteclone"
	"github.com/water102/siteclone/bloom"
	"github.com/water102/siteclone/fs"
)

// Bloom sizing for the session's duplicate filter.
const (
	seenExpectedKeys      = 10000
	seenFalsePositiveRate = 0.01
)

// Ensure Session implements siteclone.ResponseSink at compile time.
var _ siteclone.ResponseSink = (*Session)(nil)

// Session is the single-consumer aggregation point for one capture run.
// Response events may arrive in any order and re-entrantly for the same
// URL; routing and duplicate suppression are idempotent under that.
type Session struct {
	assets   *fs.AssetStore
	logs     *fs.LogStore
	reporter *Reporter

	classifier siteclone.Classifier

	mu sync.Mutex
	// seen is the session's only in-memory duplicate record, so memory
	// stays bounded no matter how many responses a page produces. A
	// false positive sends a genuinely new response down the duplicate
	// branch, where the store's existence-checked save recovers it; disk
	// existence remains the final authority.
	seen *bloom.SeenFilter
}

// NewSession creates a Session writing through the given stores. The
// classifier, if non-nil, annotates persisted assets with their
// classified file type. The hint count from a prior passive-observation
// phase, if any, only sizes the duplicate filter and the progress
// denominator; hinted resources are still captured live.
func NewSession(assets *fs.AssetStore, logs *fs.LogStore, reporter *Reporter, classifier siteclone.Classifier, hintCount int) *Session {
	expected := uint(seenExpectedKeys)
	if hintCount > seenExpectedKeys {
		expected = uint(hintCount) * 2
	}
	return &Session{
		assets:     assets,
		logs:       logs,
		reporter:   reporter,
		classifier: classifier,
		seen:       bloom.NewSeenFilter(expected, seenFalsePositiveRate),
	}
}

// CookiesApplied forwards the pre-navigation cookie count.
func (s *Session) CookiesApplied(n int) {
	s.reporter.CookiesApplied(n)
}

// HandleResponse routes one observed network exchange: XHR/Fetch bodies
// become API log entries, asset roles are persisted, data URIs and
// duplicates are skip-logged. Per-item failures never abort the session.
func (s *Session) HandleResponse(res *siteclone.CapturedResponse) {
	if res == nil || res.URL == "" {
		return
	}

	if res.Role.IsAPI() {
		s.logs.AppendAPI(siteclone.APILogEntry{
			Timestamp:      res.Timestamp,
			Method:         res.Method,
			URL:            res.URL,
			RequestHeaders: res.RequestHeaders,
			RequestBody:    res.RequestBody,
			Status:         res.Status,
			ResponseBody:   res.Text,
		})
		s.reporter.APICaptured(res.URL)
		return
	}

	if !res.Role.IsAsset() {
		return
	}

	if strings.HasPrefix(res.URL, "data:") {
		s.reporter.ResourceSkipped(res.URL, "", fs.ReasonDataURL)
		return
	}

	key := res.Method + " " + res.URL
	s.mu.Lock()
	duplicate := s.seen.Seen(key)
	if !duplicate {
		s.seen.Add(key)
	}
	s.mu.Unlock()

	if duplicate {
		// At-most-once persistence: skip-log the repeat arrival, but a
		// missing mapping (e.g. the first arrival had no body, or the
		// filter reported a false positive) is still filled in by the
		// store's existence-checked save.
		if _, ok := s.assets.Resolve(res.URL); !ok && len(res.Body) > 0 {
			if result, err := s.assets.Save(res.URL, res.Role, res.Body); err == nil {
				s.reportSave(result)
				s.annotate(res.URL, res.Method)
				return
			}
		}
		localPath, _ := s.assets.Resolve(res.URL)
		s.reporter.ResourceSkipped(res.URL, localPath, "URL already exists")
		return
	}

	result, err := s.assets.Save(res.URL, res.Role, res.Body)
	if err != nil {
		s.reporter.ResourceSkipped(res.URL, "", siteclone.ErrorMessage(err))
		return
	}
	s.reportSave(result)
	s.annotate(res.URL, res.Method)
}

// annotate attaches the classified file type to the asset's mapping
// entry.
func (s *Session) annotate(remoteURL, method string) {
	if s.classifier == nil {
		return
	}
	if cls := s.classifier.Classify(remoteURL, method); cls.FileType != "" {
		s.assets.Annotate(remoteURL, cls.FileType)
	}
}

func (s *Session) reportSave(result *fs.SaveResult) {
	if result.Status == fs.StatusDownloaded {
		s.reporter.ResourceSaved(result.RemoteURL, result.LocalPath)
		return
	}
	s.reporter.ResourceSkipped(result.RemoteURL, result.LocalPath, result.Reason)
}

// HandleFrame appends one WebSocket frame to the session log.
func (s *Session) HandleFrame(frame *siteclone.WebSocketFrame) {
	if frame == nil {
		return
	}
	s.logs.AppendFrame(*frame)
}
