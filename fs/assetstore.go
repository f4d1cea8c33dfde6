// Package fs provides file-based persistence for captured clones: the
// mirrored asset tree, the remote→local mapping, and the API/WebSocket
// log artifacts.
package fs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/water102/siteclone"
)

// indexSegment is appended when a URL path ends in a separator.
const indexSegment = "index"

// SaveStatus reports the outcome of persisting one asset.
type SaveStatus string

// Save outcomes.
const (
	StatusDownloaded SaveStatus = "downloaded"
	StatusSkipped    SaveStatus = "skipped"
)

// Skip reasons reported by the asset store.
const (
	ReasonAlreadyExists = "already exists"
	ReasonDataURL       = "base64 data URL"
	ReasonEmptyBody     = "empty body"
)

// SaveResult describes what happened to one (URL, payload) pair.
type SaveResult struct {
	RemoteURL string
	LocalPath string // absolute path on disk
	RelPath   string // relative to the output root
	Status    SaveStatus
	Reason    string
	Size      int
}

// URLToAssetPath converts a remote URL to a relative path inside the
// asset tree, preserving the URL's directory structure 1:1. The mapping
// is a pure function of the URL so repeated derivation is idempotent.
// Example: https://example.com/css/a.css → css/a.css
func URLToAssetPath(rawURL string, role siteclone.ResourceRole) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", siteclone.Errorf(siteclone.EINVALID, "invalid asset URL: %q", rawURL)
	}

	p := u.Path

	// Trailing slash (or bare host) maps to an index placeholder.
	if p == "" || strings.HasSuffix(p, "/") {
		p += indexSegment
	}

	// Documents without an extension still need to be servable as HTML.
	if role == siteclone.RoleDocument && path.Ext(p) == "" {
		p += ".html"
	}

	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		p = indexSegment
	}
	return p, nil
}

// AssetStore persists (remote URL, byte payload) pairs into the asset
// tree and records the remote→local mapping for the rewriter. A file is
// written at most once; later saves of the same path are skipped. The
// store is safe for concurrent use.
type AssetStore struct {
	root     string // output root
	assetDir string // root/assets

	mu      sync.Mutex
	mapping map[string]siteclone.AssetRecord
}

// NewAssetStore creates an AssetStore rooted at outputDir.
func NewAssetStore(outputDir string) *AssetStore {
	return &AssetStore{
		root:     outputDir,
		assetDir: filepath.Join(outputDir, "assets"),
		mapping:  make(map[string]siteclone.AssetRecord),
	}
}

// AssetDir returns the directory holding the mirrored asset tree.
func (s *AssetStore) AssetDir() string { return s.assetDir }

// Save persists one asset. If the derived path already exists on disk
// the payload is not written again, but the mapping is still recorded so
// rewriting can reference the pre-existing file. The write itself goes
// through a temp file and rename so a concurrent reader can never
// observe a truncated file.
func (s *AssetStore) Save(remoteURL string, role siteclone.ResourceRole, body []byte) (*SaveResult, error) {
	if strings.HasPrefix(remoteURL, "data:") {
		return &SaveResult{
			RemoteURL: remoteURL,
			Status:    StatusSkipped,
			Reason:    ReasonDataURL,
		}, nil
	}

	relAsset, err := URLToAssetPath(remoteURL, role)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(s.assetDir, filepath.FromSlash(relAsset))
	relPath := filepath.Join("assets", filepath.FromSlash(relAsset))

	result := &SaveResult{
		RemoteURL: remoteURL,
		LocalPath: fullPath,
		RelPath:   relPath,
		Size:      len(body),
	}

	if _, err := os.Stat(fullPath); err == nil {
		result.Status = StatusSkipped
		result.Reason = ReasonAlreadyExists
		s.record(remoteURL, fullPath, role, len(body))
		return result, nil
	}

	if len(body) == 0 {
		result.Status = StatusSkipped
		result.Reason = ReasonEmptyBody
		return result, nil
	}

	if err := writeFileAtomic(fullPath, body); err != nil {
		return nil, siteclone.Errorf(siteclone.EINTERNAL, "writing asset %q: %v", remoteURL, err)
	}

	result.Status = StatusDownloaded
	s.record(remoteURL, fullPath, role, len(body))
	return result, nil
}

// record stores the mapping entry if one is not present yet. First
// writer wins, which keeps the table idempotent under racing duplicate
// arrivals of the same URL.
func (s *AssetStore) record(remoteURL, localPath string, role siteclone.ResourceRole, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mapping[remoteURL]; ok {
		return
	}
	s.mapping[remoteURL] = siteclone.AssetRecord{
		RemoteURL: remoteURL,
		LocalPath: localPath,
		Role:      role,
		Size:      size,
	}
}

// Annotate attaches a classified file type to an existing mapping
// entry. URLs with no recorded entry are ignored.
func (s *AssetStore) Annotate(remoteURL, fileType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.mapping[remoteURL]
	if !ok || fileType == "" {
		return
	}
	rec.FileType = fileType
	s.mapping[remoteURL] = rec
}

// Resolve returns the local path recorded for a remote URL.
func (s *AssetStore) Resolve(remoteURL string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.mapping[remoteURL]
	return rec.LocalPath, ok
}

// Mapping returns a copy of the remote→local path table.
func (s *AssetStore) Mapping() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]string, len(s.mapping))
	for remote, rec := range s.mapping {
		m[remote] = rec.LocalPath
	}
	return m
}

// Records returns a copy of all mapping entries.
func (s *AssetStore) Records() []siteclone.AssetRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]siteclone.AssetRecord, 0, len(s.mapping))
	for _, rec := range s.mapping {
		recs = append(recs, rec)
	}
	return recs
}

// WriteHTML writes the final HTML document into the asset tree. Unlike
// Save, an existing file is overwritten: the final snapshot always wins.
func (s *AssetStore) WriteHTML(filename string, html []byte) (fullPath, relPath string, err error) {
	if filename == "" {
		filename = "index.html"
	}
	fullPath = filepath.Join(s.assetDir, filename)
	relPath = filepath.Join("assets", filename)
	if err := writeFileAtomic(fullPath, html); err != nil {
		return "", "", siteclone.Errorf(siteclone.EINTERNAL, "writing HTML %q: %v", filename, err)
	}
	return fullPath, relPath, nil
}

// WriteFileAtomic writes data to a temp file in the target directory
// and renames it into place, creating parent directories as needed. No
// reader can observe a partially written file.
func WriteFileAtomic(fullPath string, data []byte) error {
	return writeFileAtomic(fullPath, data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(fullPath string, data []byte) error {
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".siteclone-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fullPath)
}
