package http

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Server serves a finished clone over HTTP so it can be browsed locally.
// The document root is the clone's asset tree; the saved entry document
// is served at "/".
type Server struct {
	ln  net.Listener
	srv *http.Server

	// Addr is the bind address, e.g. ":8080". Defaults to a random
	// free port when empty.
	Addr string

	// Dir is the clone output directory.
	Dir string

	// Index is the saved entry document relative to the asset tree,
	// e.g. "index.html".
	Index string
}

// NewServer creates a server for the clone rooted at dir.
func NewServer(dir string) *Server {
	s := &Server{
		Dir:   dir,
		Index: "index.html",
	}
	s.srv = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Open starts listening. It returns immediately; requests are served on
// a background goroutine until Close.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() { _ = s.srv.Serve(ln) }()
	return nil
}

// Close shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP serves files out of the asset tree, falling back to the
// entry document for "/".
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assetDir := filepath.Join(s.Dir, "assets")

	p := strings.TrimPrefix(r.URL.Path, "/")
	if p == "" {
		p = s.Index
	}

	// Keep requests inside the asset tree.
	clean := filepath.Clean("/" + p)
	http.ServeFile(w, r, filepath.Join(assetDir, clean))
}
