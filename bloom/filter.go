// Package bloom provides an approximate seen-set for duplicate URL
// suppression during capture.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenFilter is a Bloom-filter pre-check in front of an exact duplicate
// check. A negative answer is definitive (never seen); a positive answer
// may be a false positive and must fall through to the exact check.
type SeenFilter struct {
	f *bloom.BloomFilter
}

// NewSeenFilter creates a filter sized for n expected keys with the
// given false positive rate.
func NewSeenFilter(n uint, fpRate float64) *SeenFilter {
	return &SeenFilter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add marks a key as seen.
func (f *SeenFilter) Add(key string) {
	f.f.AddString(key)
}

// Seen returns true if the key might have been seen before.
// False positives are possible; false negatives are not.
func (f *SeenFilter) Seen(key string) bool {
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of keys in the filter.
func (f *SeenFilter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
