package analytics

import "context"

type AnalyticsService interface {
	// GetAnalytics returns the bundle for a month, computing it when not cached
	GetAnalytics(ctx context.Context, req AnalyticsRequest) (Bundle, error)

	// Invalidate drops the cached bundle for a month (0-based)
	Invalidate(ctx context.Context, bsYear, bsMonth int) error

	// InvalidateAll drops every cached bundle, e.g. after the roster changes
	InvalidateAll(ctx context.Context) error
}
