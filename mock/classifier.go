package mock

import (
	"github.com/water102/siteclone"
)

var _ siteclone.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of siteclone.Classifier.
type Classifier struct {
	ClassifyFn   func(rawURL, method string) siteclone.Classification
	ClearCacheFn func()
}

func (c *Classifier) Classify(rawURL, method string) siteclone.Classification {
	return c.ClassifyFn(rawURL, method)
}

func (c *Classifier) ClearCache() {
	if c.ClearCacheFn != nil {
		c.ClearCacheFn()
	}
}
