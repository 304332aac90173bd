package cache

import (
	"context"
	"log/slog"
)

// SafeDelete deletes keys and logs the error instead of failing the
// request; cache invalidation must never break a write path.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if helper == nil || len(keys) == 0 {
		return
	}

	if err := helper.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "Cache delete failed",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern invalidates keys matching the pattern, logging
// failures without propagating them.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if helper == nil {
		return
	}

	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.WarnContext(ctx, "Cache pattern invalidation failed",
			"error", err,
			"pattern", pattern)
	}
}
