package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/water102/siteclone"
	"github.com/water102/siteclone/fs"
	"github.com/water102/siteclone/rewrite"
)

// Ensure Pipeline implements siteclone.Cloner at compile time.
var _ siteclone.Cloner = (*Pipeline)(nil)

// Pipeline runs complete clone sessions: browser capture, asset
// persistence, log flushing and the post-capture rewrite pass.
type Pipeline struct {
	// Driver owns the browser side of the capture.
	Driver siteclone.Driver

	// Fetcher, if set, retrieves the document for HTML-only clones
	// when the request does not carry the HTML itself.
	Fetcher siteclone.Fetcher

	// Classifier, if set, annotates persisted assets with their
	// classified file type.
	Classifier siteclone.Classifier

	// History, if set, records each finished run. Best-effort: a
	// history failure never fails the clone.
	History siteclone.HistoryService
}

// Clone captures req.URL into req.OutputDir. Navigation failure is fatal
// and returned as an error; everything recoverable is reported through
// progress events.
func (p *Pipeline) Clone(ctx context.Context, req *siteclone.CaptureRequest, progress siteclone.ProgressFunc) (*siteclone.CaptureResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.HTMLOnly {
		return p.saveHTMLOnly(ctx, req)
	}

	begin := time.Now()

	assets := fs.NewAssetStore(req.OutputDir)
	logs := fs.NewLogStore(req.OutputDir)
	reporter := NewReporter(len(req.NetworkHints), progress)
	session := NewSession(assets, logs, reporter, p.Classifier, len(req.NetworkHints))

	html, err := p.Driver.Capture(ctx, req, session)
	if err != nil {
		return nil, fmt.Errorf("capture navigation: %w", err)
	}

	filename := req.Filename
	if filename == "" {
		filename = "index.html"
	}

	mapping := assets.Mapping()
	rw, err := rewrite.New(req.URL, mapping)
	if err != nil {
		return nil, err
	}

	// The final HTML lives in the asset tree root, so references are
	// rewritten relative to that directory.
	rewritten := rw.RewriteHTML(html, assets.AssetDir())
	fullPath, relPath, err := assets.WriteHTML(filename, []byte(rewritten))
	if err != nil {
		return nil, err
	}

	p.rewriteStylesheets(rw, assets)

	if err := logs.Flush(); err != nil {
		return nil, err
	}

	reporter.Finished()

	processed, downloaded, skipped := reporter.Counts()
	result := &siteclone.CaptureResult{
		SavedFullPath:     fullPath,
		SavedRelativePath: relPath,
		Processed:         processed,
		Downloaded:        downloaded,
		Skipped:           skipped,
		APICount:          logs.APICount(),
		FrameCount:        logs.FrameCount(),
	}

	if p.History != nil {
		rec := &siteclone.CloneRecord{
			TargetURL:   req.URL,
			OutputDir:   req.OutputDir,
			SavedPath:   relPath,
			Processed:   processed,
			Downloaded:  downloaded,
			Skipped:     skipped,
			APICount:    result.APICount,
			ContentHash: fmt.Sprintf("%x", xxhash.Sum64String(rewritten)),
			Duration:    time.Since(begin),
		}
		// History is best-effort; the clone itself already succeeded.
		_ = p.History.CreateRecord(ctx, rec)
	}

	return result, nil
}

// rewriteStylesheets runs the CSS pass over every captured stylesheet.
// Selection is by captured role, so stylesheets served from extensionless
// URLs are included; a .css filename catches stylesheets that arrived
// under a generic role. Each file rewrites url() tokens relative to its
// own directory. A stylesheet that cannot be read or written is left as
// captured; the failure is isolated to that one file.
func (p *Pipeline) rewriteStylesheets(rw *rewrite.Rewriter, assets *fs.AssetStore) {
	for _, rec := range assets.Records() {
		if rec.Role != siteclone.RoleStylesheet && !strings.HasSuffix(strings.ToLower(rec.LocalPath), ".css") {
			continue
		}
		data, err := os.ReadFile(rec.LocalPath)
		if err != nil {
			continue
		}
		out := rw.RewriteCSS(string(data), filepath.Dir(rec.LocalPath))
		if out == string(data) {
			continue
		}
		_ = fs.WriteFileAtomic(rec.LocalPath, []byte(out))
	}
}

// saveHTMLOnly writes the document verbatim, bypassing the browser. The
// HTML comes from the request when present, otherwise from the Fetcher.
func (p *Pipeline) saveHTMLOnly(ctx context.Context, req *siteclone.CaptureRequest) (*siteclone.CaptureResult, error) {
	html := req.HTML
	if html == "" {
		if p.Fetcher == nil {
			return nil, siteclone.Errorf(siteclone.EINVALID, "HTML-only capture requires HTML content or a fetcher")
		}
		var err error
		html, err = p.Fetcher.Fetch(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch document: %w", err)
		}
	}

	filename := req.Filename
	if filename == "" {
		filename = "index.html"
	}
	fullPath := filepath.Join(req.OutputDir, filename)
	if err := fs.WriteFileAtomic(fullPath, []byte(html)); err != nil {
		return nil, siteclone.Errorf(siteclone.EINTERNAL, "writing HTML %q: %v", filename, err)
	}
	return &siteclone.CaptureResult{
		SavedFullPath:     fullPath,
		SavedRelativePath: filename,
	}, nil
}
