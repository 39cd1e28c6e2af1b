// Package domain defines core domain types and interfaces for the AI-readiness audit.
package domain

import "context"

// Rule inspects a page and reports a bounded partial score.
// Implementations must be deterministic, perform no I/O and never return a
// score above MaxScore. Malformed page content degrades the result instead of
// panicking.
type Rule interface {
	ID() string
	Name() string
	Description() string
	Category() string
	MaxScore() int

	// Check evaluates the rule against a page snapshot.
	Check(ctx context.Context, page *PageData) RuleResult
}

// PageFetcher builds a PageData snapshot for a URL.
// Implementations handle normalization, host blocking and timeouts.
type PageFetcher interface {
	// FetchPageData fetches the page and its auxiliary resources.
	// Returns an error if the main page cannot be fetched or the host is blocked.
	FetchPageData(ctx context.Context, rawURL string) (*PageData, error)
}

// RateLimiter defines the interface for rate limiting outbound requests.
// Implementations control request throughput using token bucket or similar algorithms.
type RateLimiter interface {
	// Wait blocks until a token is available or the context is canceled.
	// Returns an error if the context is canceled or times out.
	Wait(ctx context.Context) error
}
