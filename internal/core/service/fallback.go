package service

import (
	"context"

	"github.com/participa/citizen-portal/internal/core/ports"
)

// FetchWithFallback wraps a primary fetch with a fallback data source used
// only when the primary endpoint is absent (HTTP 404). A 404 means "not
// deployed yet"; the fallback result is adopted as if it were the primary
// one and degraded reports true. Any other failure means "deployed but
// erroring" and propagates untouched — the fallback must not mask it.
func FetchWithFallback[T any](
	ctx context.Context,
	primary func(ctx context.Context) (T, error),
	fallback func(ctx context.Context) (T, error),
) (result T, degraded bool, err error) {
	result, err = primary(ctx)
	if err == nil {
		return result, false, nil
	}
	if !ports.IsEndpointMissing(err) {
		var zero T
		return zero, false, err
	}

	result, err = fallback(ctx)
	if err != nil {
		var zero T
		return zero, true, err
	}
	return result, true, nil
}
