package report

import (
	"context"
	"encoding/json"
	"time"
)

// cached fills dest from the report cache and reports whether it hit. Cache
// failures degrade to a miss.
func (q *Queries) cached(ctx context.Context, key string, dest any) bool {
	if q.cache == nil {
		return false
	}
	raw, err := q.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		q.log.Warnw("discarding unreadable cache entry", "key", key, "error", err)
		return false
	}
	q.log.Debugw("report cache hit", "key", key)
	return true
}

// store writes a report result back to the cache on a best-effort basis.
func (q *Queries) store(ctx context.Context, key string, value any) {
	if q.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		q.log.Warnw("cannot encode report for cache", "key", key, "error", err)
		return
	}
	ttl := q.ttl
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := q.cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		q.log.Warnw("cannot cache report", "key", key, "error", err)
	}
}
