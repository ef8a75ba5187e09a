package storagemodels

import (
	"time"
)

// PageOptions configures how a backend walks a paginated result set
type PageOptions struct {
	PageSize     int32         // Items per backend page (default: 100)
	MaxRetries   int           // Retry attempts for transient page errors (default: 3)
	RetryBackoff time.Duration // Backoff between retries (default: 200ms)
}

// PageOption is a functional option for configuring pagination
type PageOption func(*PageOptions)

// DefaultPageOptions returns default pagination options
func DefaultPageOptions() PageOptions {
	return PageOptions{
		PageSize:     100,
		MaxRetries:   3,
		RetryBackoff: 200 * time.Millisecond,
	}
}

// WithPageSize sets the backend page size
func WithPageSize(size int32) PageOption {
	return func(opts *PageOptions) {
		opts.PageSize = size
	}
}

// WithMaxRetries sets the maximum retry attempts per page
func WithMaxRetries(retries int) PageOption {
	return func(opts *PageOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) PageOption {
	return func(opts *PageOptions) {
		opts.RetryBackoff = backoff
	}
}
