package siteclone

import "context"

// Fetcher retrieves raw HTML from URLs without driving a browser.
// It backs HTML-only clones, where no assets or API traffic are captured.
type Fetcher interface {
	// Fetch retrieves the HTML document at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the Fetcher.
	Close() error
}
