package capture

import (
	"sync"

	"github.com/water102/siteclone"
)

// Reporter aggregates the session's running counters and emits a
// self-contained snapshot alongside every capture-related event.
// Counters are monotonically non-decreasing within a session. Reporter
// is safe for concurrent use.
type Reporter struct {
	mu sync.Mutex

	// total is the pre-enumerated resource count, or 0 when unknown.
	total int

	processed  int
	downloaded int
	skipped    int
	finished   bool

	progress siteclone.ProgressFunc
}

// NewReporter creates a Reporter. When total is positive the percentage
// is computed against it (capped below 100 until the session finishes);
// with an unknown total the percentage saturates as items are processed.
func NewReporter(total int, progress siteclone.ProgressFunc) *Reporter {
	return &Reporter{total: total, progress: progress}
}

// snapshot must be called with mu held.
func (r *Reporter) snapshot(currentFile string) siteclone.Progress {
	p := siteclone.Progress{
		Total:       r.total,
		Processed:   r.processed,
		Downloaded:  r.downloaded,
		Skipped:     r.skipped,
		CurrentFile: currentFile,
	}
	switch {
	case r.finished:
		p.Percentage = 100
	case r.total > 0:
		pct := float64(r.processed) / float64(r.total) * 100
		if pct > 99 {
			pct = 99
		}
		p.Percentage = pct
	case r.processed > 0:
		// Total unknown until navigation settles: every emitted item is
		// "all processed so far".
		p.Percentage = 99
	}
	if currentFile != "" {
		p.CurrentFileProgress = 100
	}
	return p
}

// emit must be called with mu held.
func (r *Reporter) emit(ev siteclone.ProgressEvent) {
	if r.progress == nil {
		return
	}
	r.progress(ev)
}

// CookiesApplied reports the number of cookies applied before navigation.
func (r *Reporter) CookiesApplied(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emit(siteclone.ProgressEvent{
		Type:           siteclone.ProgressCookiesApplied,
		CookiesApplied: n,
		Progress:       r.snapshot(""),
	})
}

// APICaptured reports one captured XHR/Fetch exchange. API traffic does
// not move the asset counters.
func (r *Reporter) APICaptured(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emit(siteclone.ProgressEvent{
		Type:     siteclone.ProgressAPICaptured,
		URL:      url,
		Progress: r.snapshot(""),
	})
}

// ResourceSaved reports one persisted asset.
func (r *Reporter) ResourceSaved(url, localPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++
	r.downloaded++
	r.emit(siteclone.ProgressEvent{
		Type:      siteclone.ProgressResourceSaved,
		URL:       url,
		LocalPath: localPath,
		Status:    "downloaded",
		Progress:  r.snapshot(localPath),
	})
}

// ResourceSkipped reports one skipped asset with its reason. A skip that
// maps to a pre-existing file still carries the local path.
func (r *Reporter) ResourceSkipped(url, localPath, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++
	r.skipped++
	r.emit(siteclone.ProgressEvent{
		Type:      siteclone.ProgressResourceSkipped,
		URL:       url,
		LocalPath: localPath,
		Status:    "skipped",
		Reason:    reason,
		Progress:  r.snapshot(localPath),
	})
}

// Finished reports session completion with a final 100% snapshot.
func (r *Reporter) Finished() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = true
	r.emit(siteclone.ProgressEvent{
		Type:     siteclone.ProgressFinished,
		Progress: r.snapshot(""),
	})
}

// Counts returns the current counter values.
func (r *Reporter) Counts() (processed, downloaded, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed, r.downloaded, r.skipped
}
