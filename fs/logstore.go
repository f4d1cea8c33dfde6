package fs

import (
	"encoding/json"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/water102/siteclone"
)

// maxLogNameLen bounds per-request log filenames (before the .json
// suffix) to stay under common filesystem path-length limits.
const maxLogNameLen = 230

// RequestLogName derives the per-request log filename for a URL: the URL
// is percent-encoded, '%' characters are replaced with '_', and the
// result is truncated before appending ".json".
func RequestLogName(rawURL string) string {
	name := url.QueryEscape(rawURL)
	name = strings.ReplaceAll(name, "%", "_")
	if len(name) > maxLogNameLen {
		name = name[:maxLogNameLen]
	}
	return name + ".json"
}

// LogStore accumulates API and WebSocket log entries for one session and
// flushes them as JSON artifacts under <outputDir>/logs. It is safe for
// concurrent use.
type LogStore struct {
	dir string

	mu     sync.Mutex
	api    []siteclone.APILogEntry
	frames []siteclone.WebSocketFrame
}

// NewLogStore creates a LogStore writing under outputDir/logs.
func NewLogStore(outputDir string) *LogStore {
	return &LogStore{dir: filepath.Join(outputDir, "logs")}
}

// AppendAPI appends one API exchange to the combined log.
func (s *LogStore) AppendAPI(entry siteclone.APILogEntry) {
	s.mu.Lock()
	s.api = append(s.api, entry)
	s.mu.Unlock()
}

// AppendFrame appends one WebSocket frame to the combined log.
func (s *LogStore) AppendFrame(frame siteclone.WebSocketFrame) {
	s.mu.Lock()
	s.frames = append(s.frames, frame)
	s.mu.Unlock()
}

// APICount returns the number of API entries appended so far.
func (s *LogStore) APICount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.api)
}

// FrameCount returns the number of WebSocket frames appended so far.
func (s *LogStore) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Flush writes api_logs.json, ws_logs.json and one per-request file for
// each distinct API URL. Entries for the same URL share a file.
func (s *LogStore) Flush() error {
	s.mu.Lock()
	api := make([]siteclone.APILogEntry, len(s.api))
	copy(api, s.api)
	frames := make([]siteclone.WebSocketFrame, len(s.frames))
	copy(frames, s.frames)
	s.mu.Unlock()

	if err := s.writeJSON("api_logs.json", api); err != nil {
		return err
	}
	if err := s.writeJSON("ws_logs.json", frames); err != nil {
		return err
	}

	// Group per-request entries by derived filename so repeated calls
	// to the same endpoint land in one file.
	byName := make(map[string][]siteclone.APILogEntry)
	order := make([]string, 0, len(api))
	for _, entry := range api {
		name := RequestLogName(entry.URL)
		if _, ok := byName[name]; !ok {
			order = append(order, name)
		}
		byName[name] = append(byName[name], entry)
	}
	for _, name := range order {
		if err := s.writeJSON(name, byName[name]); err != nil {
			return err
		}
	}
	return nil
}

func (s *LogStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return siteclone.Errorf(siteclone.EINTERNAL, "encoding log %q: %v", name, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, name), data); err != nil {
		return siteclone.Errorf(siteclone.EINTERNAL, "writing log %q: %v", name, err)
	}
	return nil
}
