package mock

import "github.com/water102/siteclone"

var _ siteclone.ReferenceExtractor = (*ReferenceExtractor)(nil)

// ReferenceExtractor is a mock implementation of siteclone.ReferenceExtractor.
type ReferenceExtractor struct {
	ExtractFn func(html, baseURL string) (*siteclone.ExtractResult, error)
}

func (e *ReferenceExtractor) Extract(html, baseURL string) (*siteclone.ExtractResult, error) {
	return e.ExtractFn(html, baseURL)
}
